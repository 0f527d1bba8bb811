// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth checks the single administrator credential. The password is
// compared against a bcrypt hash; when a TOTP secret is configured a
// six-digit code is required as well.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers a wrong username, password or code.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrCodeRequired means the password was right but no TOTP code was sent.
	ErrCodeRequired = errors.New("auth: verification code required")

	// ErrTOTPDisabled is returned by enrolment helpers when no secret is set.
	ErrTOTPDisabled = errors.New("auth: two-factor authentication not configured")
)

// Authenticator verifies a login attempt.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password, code string) error
}

// Static authenticates against one username and password hash from config.
type Static struct {
	username   string
	hash       []byte
	totpSecret string
}

// NewStatic validates the configured hash and returns an authenticator.
func NewStatic(username, passwordHash, totpSecret string) (*Static, error) {
	if username == "" {
		return nil, fmt.Errorf("auth: empty admin username")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("auth: admin password hash: %w", err)
	}
	return &Static{
		username:   username,
		hash:       []byte(passwordHash),
		totpSecret: strings.ToUpper(strings.TrimSpace(totpSecret)),
	}, nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Username returns the configured admin name.
func (s *Static) Username() string {
	return s.username
}

// TOTPEnabled reports whether a second factor is required.
func (s *Static) TOTPEnabled() bool {
	return s.totpSecret != ""
}

// Authenticate checks username, password and, if enabled, the TOTP code.
// The bcrypt comparison always runs so a wrong username costs the same
// time as a wrong password.
func (s *Static) Authenticate(_ context.Context, username, password, code string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}

	if !s.TOTPEnabled() {
		return nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrCodeRequired
	}
	if !totp.Validate(code, s.totpSecret) {
		return ErrInvalidCredentials
	}
	return nil
}

// EnrolmentURL returns the otpauth:// URL authenticator apps scan.
func (s *Static) EnrolmentURL(issuer string) (string, error) {
	if !s.TOTPEnabled() {
		return "", ErrTOTPDisabled
	}
	v := url.Values{}
	v.Set("secret", s.totpSecret)
	v.Set("issuer", issuer)
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + issuer + ":" + s.username,
		RawQuery: v.Encode(),
	}
	return u.String(), nil
}

// EnrolmentQR renders the enrolment URL as a PNG QR code.
func (s *Static) EnrolmentQR(issuer string, size int) ([]byte, error) {
	u, err := s.EnrolmentURL(issuer)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(u, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
