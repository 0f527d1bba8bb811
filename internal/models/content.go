// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Slide is a home page hero slider entry.
type Slide struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title" validate:"required,max=300"`
	Subtitle   *string   `json:"subtitle,omitempty"`
	Image      string    `json:"image" validate:"required"`
	Link       *string   `json:"link,omitempty"`
	ButtonText *string   `json:"buttonText,omitempty"`
	IsActive   bool      `json:"isActive"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BlogPost is an article in the public blog. Content is Markdown.
type BlogPost struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title" validate:"required,max=300"`
	Slug        string     `json:"slug" validate:"required,max=300,slug"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Content     string     `json:"content" validate:"required,max=100000"`
	Image       *string    `json:"image,omitempty"`
	Author      *string    `json:"author,omitempty"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FAQ is a question/answer pair shown on the FAQ page.
type FAQ struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question" validate:"required,max=1000"`
	Answer    string    `json:"answer" validate:"required"`
	IsActive  bool      `json:"isActive"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Testimonial is a customer quote shown on the home page.
type Testimonial struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Company   *string   `json:"company,omitempty"`
	Content   string    `json:"content" validate:"required"`
	Image     *string   `json:"image,omitempty"`
	Rating    int       `json:"rating" validate:"min=1,max=5"`
	IsActive  bool      `json:"isActive"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
