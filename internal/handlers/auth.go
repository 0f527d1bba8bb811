package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"arvix/internal/auth"
	"arvix/internal/middleware"
	"arvix/internal/session"
)

// totpQRSize is the edge length of the enrolment QR code in pixels.
const totpQRSize = 256

// SessionStore creates and destroys admin sessions.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Enroller produces the QR code that registers the TOTP secret in an
// authenticator app.
type Enroller interface {
	EnrolmentQR(issuer string, size int) ([]byte, error)
}

// Auth groups the admin login endpoints.
type Auth struct {
	authn    auth.Authenticator
	sessions SessionStore
	enroller Enroller
	issuer   string
	secure   bool
}

// NewAuth creates the Auth handler group. enroller may be nil when two
// factor login is not offered.
func NewAuth(authn auth.Authenticator, sessions SessionStore, enroller Enroller, issuer string, secure bool) *Auth {
	return &Auth{
		authn:    authn,
		sessions: sessions,
		enroller: enroller,
		issuer:   issuer,
		secure:   secure,
	}
}

type loginInput struct {
	Username string `json:"username" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=200"`
	Code     string `json:"code" validate:"omitempty,len=6,numeric"`
}

// Login handles POST /api/auth. On success it sets the session cookie
// and a fresh CSRF token, which the admin client echoes on writes.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Code = strings.TrimSpace(in.Code)
	if err := validateStruct(&in); err != nil {
		writeFailure(w, r, err)
		return
	}

	err := a.authn.Authenticate(r.Context(), in.Username, in.Password, in.Code)
	switch {
	case errors.Is(err, auth.ErrCodeRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":        "Verification code required",
			"totpRequired": true,
		})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		slog.Warn("admin login rejected", "username", in.Username, "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case err != nil:
		writeFailure(w, r, err)
		return
	}

	data := &session.Data{Username: in.Username}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		writeFailure(w, r, err)
		return
	}
	token, err := middleware.IssueCSRFToken(w, a.secure)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	slog.Info("admin logged in", "username", in.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      data.Username,
		"expiresAt":     data.ExpiresAt(),
		"csrfToken":     token,
	})
}

// Status handles GET /api/auth and reports whether the caller holds a
// valid session.
func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	token := middleware.GetCSRFToken(r)
	if token == "" {
		var err error
		if token, err = middleware.IssueCSRFToken(w, a.secure); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      sess.Username,
		"expiresAt":     sess.ExpiresAt(),
		"csrfToken":     token,
	})
}

// Logout handles DELETE /api/auth.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	writeOK(w)
}

// TOTPQRCode handles GET /api/auth/totp.png for a signed-in admin.
func (a *Auth) TOTPQRCode(w http.ResponseWriter, r *http.Request) {
	if a.enroller == nil {
		writeError(w, http.StatusNotFound, "Two-factor authentication is not configured")
		return
	}
	png, err := a.enroller.EnrolmentQR(a.issuer, totpQRSize)
	if errors.Is(err, auth.ErrTOTPDisabled) {
		writeError(w, http.StatusNotFound, "Two-factor authentication is not configured")
		return
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
