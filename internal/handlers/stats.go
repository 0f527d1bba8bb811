// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Stats is the admin dashboard summary.
type Stats struct {
	Categories      int `json:"categories"`
	Products        int `json:"products"`
	PendingMessages int `json:"pendingMessages"`
	PendingQuotes   int `json:"pendingQuotes"`
}

// AdminStats handles GET /api/admin/stats.
func (a *API) AdminStats(w http.ResponseWriter, r *http.Request) {
	var s Stats
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		s.Categories, err = a.stores.Categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.Products, err = a.stores.Products.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.PendingMessages, err = a.stores.Messages.CountPending(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.PendingQuotes, err = a.stores.Quotes.CountPending(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
