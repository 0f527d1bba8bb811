package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"arvix/internal/storage"
)

// multipartMemory is how much of a multipart body is kept in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// Upload handles POST /api/upload with multipart fields "file" and
// "folder". Images are normalised to WebP; anything else is stored as is.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the form fields around the file.
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLarge(a.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > a.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge(a.maxUpload))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, a.maxUpload+1))
	if err != nil {
		writeFailure(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > a.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge(a.maxUpload))
		return
	}

	res, err := a.ingestor.Ingest(r.Context(), r.FormValue("folder"), header.Filename, data)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": res.URL, "filename": res.Filename})
}

func tooLarge(limit int64) string {
	return fmt.Sprintf("File too large. Maximum size is %d MB.", limit>>20)
}

// ServeFile handles GET /api/files/*. The key is looked up in the upload
// store first and the public asset root second; keys that try to leave
// either root are answered as not found.
func (a *API) ServeFile(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(chi.URLParam(r, "*"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	obj, err := a.files.Open(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(key), obj.ModTime, rs)
		return
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if !obj.ModTime.IsZero() {
		w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		io.Copy(w, obj.Body)
	}
}

// DeleteFile handles DELETE /api/files/*. Only uploaded files can be
// removed; the public asset root is read-only.
func (a *API) DeleteFile(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(chi.URLParam(r, "*"))
	if err != nil {
		writeFailure(w, r, badRequest("invalid file path"))
		return
	}
	err = a.files.Delete(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}
