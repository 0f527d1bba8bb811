package handlers

import (
	"errors"
	"testing"

	"arvix/internal/models"
)

func TestValidateStruct(t *testing.T) {
	in := quoteInput{
		Name:  "Ayşe",
		Email: "not-an-email",
		Phone: "+90 555 000 00 00",
		Items: []models.QuoteItem{{ID: "p1", Name: "Koşu Bandı", Quantity: 0}},
	}

	err := validateStruct(&in)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *InputError", err)
	}

	got := map[string]string{}
	for _, f := range inputErr.Fields {
		got[f.Field] = f.Message
	}
	if got["email"] != "must be a valid e-mail address" {
		t.Errorf("email message = %q", got["email"])
	}
	if got["items[0].quantity"] != "must be at least 1" {
		t.Errorf("quantity message = %q (fields %v)", got["items[0].quantity"], got)
	}
}

func TestValidateStructEmptyItems(t *testing.T) {
	in := quoteInput{Name: "A", Email: "a@example.com", Phone: "1", Items: []models.QuoteItem{}}
	var inputErr *InputError
	if err := validateStruct(&in); !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *InputError", err)
	}
	if inputErr.Fields[0].Field != "items" {
		t.Errorf("field = %q, want items", inputErr.Fields[0].Field)
	}
}

func TestValidateStructSlug(t *testing.T) {
	post := models.BlogPost{Title: "T", Slug: "Bad Slug", Content: "x"}
	var inputErr *InputError
	if err := validateStruct(&post); !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *InputError", err)
	}
	if inputErr.Fields[0].Field != "slug" {
		t.Errorf("field = %q, want slug", inputErr.Fields[0].Field)
	}

	post.Slug = "kosu-bandi-bakimi"
	if err := validateStruct(&post); err != nil {
		t.Errorf("valid post rejected: %v", err)
	}
}

func TestValidateStructAccepts(t *testing.T) {
	in := contactInput{Name: "Mehmet", Email: "m@example.com", Message: "Merhaba"}
	if err := validateStruct(&in); err != nil {
		t.Errorf("valid contact rejected: %v", err)
	}
}
