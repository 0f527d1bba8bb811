// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Well-known setting keys. Each holds a whole-page JSON document.
const (
	SettingHome         = "home"
	SettingAbout        = "about"
	SettingContact      = "contact"
	SettingBrand        = "brand"
	SettingArchitecture = "architecture"
	SettingSlider       = "slider"
	SettingHeader       = "header"
	SettingFooter       = "footer"
)

// SiteSetting is a single key with an arbitrary JSON document. Version is
// a schema tag chosen by the writer so readers can tell document shapes apart.
type SiteSetting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]json.RawMessage

// Merge decodes the stored document for key over def and returns the
// result. Fields missing from the stored document keep their default
// values; a missing or malformed document yields def unchanged.
func Merge[T any](s SiteSettings, key string, def T) T {
	raw, ok := s[key]
	if !ok || len(raw) == 0 {
		return def
	}
	merged := def
	if err := json.Unmarshal(raw, &merged); err != nil {
		return def
	}
	return merged
}

// HeaderSettings drives the top bar of every public page.
type HeaderSettings struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// FooterSettings drives the footer of every public page.
type FooterSettings struct {
	About     string `json:"about"`
	Copyright string `json:"copyright"`
	Address   string `json:"address"`
}

// HomeSettings drives the home page sections.
type HomeSettings struct {
	HeroTitle       string `json:"heroTitle"`
	HeroSubtitle    string `json:"heroSubtitle"`
	ShowFeatured    bool   `json:"showFeatured"`
	ShowTestimonial bool   `json:"showTestimonials"`
}

// PageSection is one titled block of a content page.
type PageSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

// ContentPage is the shared shape of the about, contact, brand and
// architecture-planning pages.
type ContentPage struct {
	Title    string        `json:"title"`
	Intro    string        `json:"intro"`
	Sections []PageSection `json:"sections"`
}

// DefaultHome returns the home page shape used when nothing is stored.
func DefaultHome() HomeSettings {
	return HomeSettings{
		HeroTitle:       "Arvix Premium",
		HeroSubtitle:    "Profesyonel fitness ekipmanları",
		ShowFeatured:    true,
		ShowTestimonial: true,
	}
}
