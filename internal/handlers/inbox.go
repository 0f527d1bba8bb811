// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"arvix/internal/mail"
	"arvix/internal/models"
)

// notifyTimeout bounds the quote e-mail so a slow mail server cannot hold
// the customer's request open.
const notifyTimeout = 10 * time.Second

type contactInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Subject *string `json:"subject" validate:"omitempty,max=300"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type quoteInput struct {
	Name    string             `json:"name" validate:"required,max=200"`
	Email   string             `json:"email" validate:"required,email,max=200"`
	Phone   string             `json:"phone" validate:"required,max=50"`
	Company *string            `json:"company" validate:"omitempty,max=200"`
	Message *string            `json:"message" validate:"omitempty,max=5000"`
	Items   []models.QuoteItem `json:"items" validate:"required,min=1,max=200,dive"`
}

type statusInput struct {
	Status models.InquiryStatus `json:"status" validate:"required,oneof=pending contacted"`
}

// SubmitContact handles POST /api/contact from the public contact form.
func (a *API) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	trimPtr(in.Phone)
	trimPtr(in.Subject)
	if err := validateStruct(&in); err != nil {
		writeFailure(w, r, err)
		return
	}

	m, err := a.stores.Messages.Create(r.Context(), &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": m.ID})
}

// SubmitQuote handles POST /api/quote, the cart checkout. The request is
// stored first; the sales e-mail is best effort and its failure is only
// logged, never reported to the customer.
func (a *API) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	var in quoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	trimPtr(in.Company)
	trimPtr(in.Message)
	if err := validateStruct(&in); err != nil {
		writeFailure(w, r, err)
		return
	}

	q, err := a.stores.Quotes.Create(r.Context(), &models.QuoteRequest{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Message: in.Message,
		Items:   in.Items,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	a.metrics.ObserveQuote()
	a.notifyQuote(r, q)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": q.ID})
}

func (a *API) notifyQuote(r *http.Request, q *models.QuoteRequest) {
	if a.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), notifyTimeout)
	defer cancel()

	err := a.notifier.NotifyQuote(ctx, q)
	switch {
	case err == nil:
	case errors.Is(err, mail.ErrNotConfigured):
		slog.Debug("quote notification skipped, mail not configured", "quote_id", q.ID)
	default:
		slog.Warn("quote notification failed",
			"quote_id", q.ID,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
}

// ListMessages handles GET /api/contact-messages[?status=pending|contacted].
func (a *API) ListMessages(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	list, err := a.stores.Messages.List(r.Context(), status)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateMessage handles PUT /api/contact-messages?id=<id> with {status}.
func (a *API) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, status, err := statusUpdate(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	m, err := a.stores.Messages.SetStatus(r.Context(), id, status)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMessage handles DELETE /api/contact-messages?id=<id>.
func (a *API) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := a.stores.Messages.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}

// ListQuotes handles GET /api/quotes[?status=…|?id=<id>].
func (a *API) ListQuotes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("id") {
		id, err := queryID(r, "id")
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		q, err := a.stores.Quotes.FindByID(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
		return
	}

	status, err := statusFilter(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	list, err := a.stores.Quotes.List(r.Context(), status)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateQuote handles PUT /api/quotes?id=<id> with {status}.
func (a *API) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	id, status, err := statusUpdate(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	q, err := a.stores.Quotes.SetStatus(r.Context(), id, status)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// DeleteQuote handles DELETE /api/quotes?id=<id>.
func (a *API) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := a.stores.Quotes.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}

// statusFilter reads the optional status query parameter. Empty means all.
func statusFilter(r *http.Request) (models.InquiryStatus, error) {
	status := models.InquiryStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return "", badRequest("status must be pending or contacted")
	}
	return status, nil
}

func statusUpdate(w http.ResponseWriter, r *http.Request) (id uuid.UUID, status models.InquiryStatus, err error) {
	body, err := readBody(w, r)
	if err != nil {
		return id, "", err
	}
	if id, err = targetID(r, body); err != nil {
		return id, "", err
	}
	var in statusInput
	if err := decodeInto(body, &in); err != nil {
		return id, "", err
	}
	if err := validateStruct(&in); err != nil {
		return id, "", err
	}
	return id, in.Status, nil
}
