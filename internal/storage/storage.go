// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps uploaded media behind a small Backend interface so
// files can live on local disk or in S3-compatible object storage. Stored
// files are addressed by slash-separated keys ("products/x.webp") and are
// always served through the application's file route, never linked to the
// backing store directly.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidKey is returned for keys that are empty or try to leave the root.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Object is an open stored file. Body may also implement io.Seeker (local
// files do), which lets HTTP handlers serve byte ranges.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Backend stores and retrieves objects by key.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// CleanKey validates a slash-separated key and strips a leading slash.
// Empty segments, "." and ".." are rejected, as are backslashes and NUL
// bytes, so a key can never name anything outside its root.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.ContainsAny(key, "\\\x00") {
		return "", ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}

// Chain tries each backend in order when opening, returning the first hit.
// Writes and deletes go to the first backend only.
type Chain []Backend

// Put implements Backend.
func (c Chain) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if len(c) == 0 {
		return errors.New("storage: empty chain")
	}
	return c[0].Put(ctx, key, data, contentType)
}

// Open implements Backend.
func (c Chain) Open(ctx context.Context, key string) (*Object, error) {
	for _, b := range c {
		obj, err := b.Open(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return obj, err
	}
	return nil, ErrNotFound
}

// Delete implements Backend.
func (c Chain) Delete(ctx context.Context, key string) error {
	if len(c) == 0 {
		return ErrNotFound
	}
	return c[0].Delete(ctx, key)
}
