// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"arvix/internal/catalog"
	"arvix/internal/imaging"
	"arvix/internal/media"
	"arvix/internal/store"
)

// maxJSONBody caps JSON request bodies. Settings documents are the largest.
const maxJSONBody = 2 << 20

// requestError is a malformed request that is the client's fault.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// writeJSON sends data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeFailure maps an error from the service layers onto an HTTP answer.
// Validation and constraint failures carry their detail because the only
// callers that can trigger them are trusted admins. Anything unrecognised
// is logged and answered with a generic 500.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr     *requestError
		inputErr   *InputError
		validErr   *catalog.ValidationError
		constraint *store.ConstraintError
		maxBytes   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, reqErr.msg)
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": inputErr.Fields,
		})
	case errors.As(err, &validErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  validErr.Error(),
			"fields": []FieldError{{Field: validErr.Field, Message: validErr.Message}},
		})
	case errors.As(err, &constraint):
		status := http.StatusBadRequest
		msg := "Invalid value"
		switch {
		case errors.Is(constraint.Kind, store.ErrConflict):
			status, msg = http.StatusConflict, "Already exists"
		case errors.Is(constraint.Kind, store.ErrInvalidReference):
			msg = "Referenced record does not exist"
		case errors.Is(constraint.Kind, store.ErrCycle):
			msg = store.ErrCycle.Error()
		}
		writeJSON(w, status, map[string]string{
			"error":      msg,
			"constraint": constraint.Constraint,
			"detail":     constraint.Detail,
		})
	case errors.Is(err, store.ErrCycle), errors.Is(err, store.ErrInvalidJSON):
		writeError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, imaging.ErrDecode), errors.Is(err, imaging.ErrTooLarge), errors.Is(err, media.ErrEmpty):
		writeError(w, http.StatusBadRequest, rootMessage(err))
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body too large (max %d bytes)", maxBytes.Limit))
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// rootMessage returns the text of the innermost known sentinel in err.
func rootMessage(err error) string {
	for _, sentinel := range []error{store.ErrCycle, store.ErrInvalidJSON, imaging.ErrDecode, imaging.ErrTooLarge, media.ErrEmpty} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, badRequest("Cannot read request body")
	}
	return body, nil
}

// decodeInto unmarshals a JSON body into dst. Fields missing from the
// body leave dst untouched, so handlers decode updates over loaded records.
func decodeInto(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return badRequest("Request body is empty")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var validErr *catalog.ValidationError
		if errors.As(err, &validErr) {
			return validErr
		}
		return badRequest("Invalid JSON: %v", err)
	}
	return nil
}

// decodeJSON reads and unmarshals a request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return decodeInto(body, dst)
}

// queryID parses a uuid query parameter.
func queryID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, badRequest("%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("%s must be a valid id", name)
	}
	return id, nil
}

// targetID resolves the record an update addresses: the id query
// parameter if present, otherwise the "id" field of the body.
func targetID(r *http.Request, body []byte) (uuid.UUID, error) {
	if r.URL.Query().Has("id") {
		return queryID(r, "id")
	}
	var withID struct {
		ID *uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &withID); err != nil {
		return uuid.Nil, badRequest("Invalid JSON: %v", err)
	}
	if withID.ID == nil || *withID.ID == uuid.Nil {
		return uuid.Nil, badRequest("id is required")
	}
	return *withID.ID, nil
}

// flag reads a boolean query parameter. Only "true" and "1" count.
func flag(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
