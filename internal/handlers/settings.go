// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"arvix/internal/models"
	"arvix/internal/store"
)

// settingInput is one entry of a settings PUT.
type settingInput struct {
	Key     string          `json:"key" validate:"required,max=100"`
	Value   json.RawMessage `json:"value" validate:"required"`
	Version int             `json:"version" validate:"min=0"`
}

// GetSettings handles GET /api/settings. With ?key=<k> it returns that
// one document, or a null value when nothing is stored yet; without it
// every stored setting is listed.
func (a *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if key := r.URL.Query().Get("key"); key != "" {
		st, err := a.stores.Settings.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": nil})
			return
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
		return
	}

	list, err := a.stores.Settings.List(ctx)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PutSettings handles PUT /api/settings. The body is either one
// {key, value, version} object or an array of them; an array is written
// in a single transaction. Stored values are replaced whole.
func (a *API) PutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var inputs []settingInput
		if err := decodeInto(trimmed, &inputs); err != nil {
			writeFailure(w, r, err)
			return
		}
		if len(inputs) == 0 {
			writeFailure(w, r, badRequest("at least one setting is required"))
			return
		}
		batch := make([]models.SiteSetting, 0, len(inputs))
		for i := range inputs {
			if err := validateStruct(&inputs[i]); err != nil {
				writeFailure(w, r, err)
				return
			}
			batch = append(batch, models.SiteSetting{Key: inputs[i].Key, Value: inputs[i].Value, Version: inputs[i].Version})
		}
		if err := a.stores.Settings.SetMany(r.Context(), batch); err != nil {
			writeFailure(w, r, err)
			return
		}
		writeOK(w)
		return
	}

	var in settingInput
	if err := decodeInto(body, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := validateStruct(&in); err != nil {
		writeFailure(w, r, err)
		return
	}
	st, err := a.stores.Settings.Set(r.Context(), in.Key, in.Value, in.Version)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DeleteSettings handles DELETE /api/settings?key=<k>. Readers fall back
// to the built-in defaults afterwards.
func (a *API) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeFailure(w, r, badRequest("key is required"))
		return
	}
	if err := a.stores.Settings.Delete(r.Context(), key); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}
