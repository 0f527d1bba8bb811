// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"arvix/internal/models"
)

// MessageStore manages contact form submissions.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore returns a new MessageStore.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, phone, subject, message, status, created_at`

func scanMessage(scanner interface{ Scan(...any) error }) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := scanner.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns messages newest first. An empty status lists everything.
func (s *MessageStore) List(ctx context.Context, status models.InquiryStatus) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM contact_messages
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	items := []models.ContactMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Create stores a new message as pending.
func (s *MessageStore) Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		m.Name, m.Email, nullIfEmpty(m.Phone), nullIfEmpty(m.Subject), m.Message)
	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", classify(err))
	}
	return created, nil
}

// SetStatus moves a message between pending and contacted.
func (s *MessageStore) SetStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) (*models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE contact_messages SET status = $1 WHERE id = $2
		RETURNING `+messageColumns, string(status), id)
	m, err := scanMessage(row)
	return m, wrapWrite("set contact message status", err)
}

// Delete removes a message.
func (s *MessageStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "contact_messages", id)
}

// CountPending returns how many messages still await a reply.
func (s *MessageStore) CountPending(ctx context.Context) (int, error) {
	return countPending(ctx, s.db, "contact_messages")
}

// QuoteStore manages quote requests submitted from the cart.
type QuoteStore struct {
	db *sql.DB
}

// NewQuoteStore returns a new QuoteStore.
func NewQuoteStore(db *sql.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

const quoteColumns = `id, name, email, phone, company, message, items, status, created_at`

func scanQuote(scanner interface{ Scan(...any) error }) (*models.QuoteRequest, error) {
	var (
		q     models.QuoteRequest
		items []byte
	)
	if err := scanner.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Company, &q.Message, &items, &q.Status, &q.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("decode quote items: %w", err)
	}
	if q.Items == nil {
		q.Items = []models.QuoteItem{}
	}
	return &q, nil
}

// List returns quote requests newest first. An empty status lists everything.
func (s *QuoteStore) List(ctx context.Context, status models.InquiryStatus) ([]models.QuoteRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+quoteColumns+` FROM quote_requests
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	defer rows.Close()

	items := []models.QuoteRequest{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote request: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// FindByID retrieves a quote request or ErrNotFound.
func (s *QuoteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	q, err := scanQuote(s.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quote_requests WHERE id = $1`, id))
	return q, wrapFind("quote request", err)
}

// Create stores a new quote request as pending. The cart items are kept
// verbatim as a JSON array.
func (s *QuoteStore) Create(ctx context.Context, q *models.QuoteRequest) (*models.QuoteRequest, error) {
	items := q.Items
	if items == nil {
		items = []models.QuoteItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode quote items: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO quote_requests (name, email, phone, company, message, items)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+quoteColumns,
		q.Name, q.Email, q.Phone, nullIfEmpty(q.Company), nullIfEmpty(q.Message), string(raw))
	created, err := scanQuote(row)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", classify(err))
	}
	return created, nil
}

// SetStatus moves a quote request between pending and contacted.
func (s *QuoteStore) SetStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) (*models.QuoteRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE quote_requests SET status = $1 WHERE id = $2
		RETURNING `+quoteColumns, string(status), id)
	q, err := scanQuote(row)
	return q, wrapWrite("set quote status", err)
}

// Delete removes a quote request.
func (s *QuoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "quote_requests", id)
}

// CountPending returns how many quote requests still await a reply.
func (s *QuoteStore) CountPending(ctx context.Context) (int, error) {
	return countPending(ctx, s.db, "quote_requests")
}

func countPending(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE status = 'pending'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending %s: %w", table, err)
	}
	return n, nil
}
