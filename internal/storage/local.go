// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// Local stores objects as files under a root directory. Reads go through
// os.Root, so symlinks inside the tree cannot point a request outside it.
type Local struct {
	dir      string
	readOnly bool
}

// NewLocal returns a writable backend rooted at dir, creating dir if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// NewLocalReadOnly returns a backend that only serves files from dir. It
// is used for the public assets fallback. A missing dir serves nothing.
func NewLocalReadOnly(dir string) *Local {
	return &Local{dir: dir, readOnly: true}
}

// Put writes data to a temporary file next to the target and renames it
// into place, so readers never see a partial file.
func (l *Local) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if l.readOnly {
		return fmt.Errorf("storage: %s is read-only", l.dir)
	}
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Open implements Backend.
func (l *Local) Open(ctx context.Context, key string) (*Object, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open storage root: %w", err)
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(key))
	if err != nil {
		// Escapes via symlink surface as a path error; treat them as absent.
		return nil, ErrNotFound
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(path.Ext(key)),
		ModTime:     info.ModTime(),
	}, nil
}

// Delete implements Backend.
func (l *Local) Delete(ctx context.Context, key string) error {
	if l.readOnly {
		return fmt.Errorf("storage: %s is read-only", l.dir)
	}
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(key))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
