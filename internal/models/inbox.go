// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus tracks whether sales has followed up on a message or quote.
type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryContacted InquiryStatus = "contacted"
)

// Valid reports whether s is one of the known statuses.
func (s InquiryStatus) Valid() bool {
	return s == InquiryPending || s == InquiryContacted
}

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone,omitempty"`
	Subject   *string       `json:"subject,omitempty"`
	Message   string        `json:"message"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// QuoteItem is one line of a submitted quote cart. The fields mirror what
// the storefront keeps in local storage; they are a snapshot, not a
// reference, so later catalog edits do not change old quotes.
type QuoteItem struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category"`
	CategoryName string `json:"categoryName"`
	Quantity     int    `json:"quantity" validate:"min=1,max=10000"`
}

// QuoteRequest is a customer's request for pricing on a list of products.
type QuoteRequest struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Company   *string       `json:"company,omitempty"`
	Message   *string       `json:"message,omitempty"`
	Items     []QuoteItem   `json:"items"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// TotalQuantity sums the quantities of all items.
func (q *QuoteRequest) TotalQuantity() int {
	total := 0
	for _, it := range q.Items {
		total += it.Quantity
	}
	return total
}
