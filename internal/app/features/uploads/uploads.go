// internal/app/features/uploads/uploads.go
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/limits"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSize is the largest accepted file, in bytes.
const MaxSize = limits.MaxUploadSize

const multipartSlack = limits.UploadFormSlack

// DefaultCategory is used when no category is given.
const DefaultCategory = "general"

// Categories are the top-level folders uploads may go to.
var Categories = []string{"blog", "products", "trainings", "team", "content", "resumes", "general"}

// imageTypes maps each accepted sniffed content type to its file extension.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// allowed returns the extension for contentType in category, or "" when the
// type is not accepted there. Resumes may also be PDFs.
func allowed(category, contentType string) string {
	if ext, ok := imageTypes[contentType]; ok {
		return ext
	}
	if category == "resumes" && contentType == "application/pdf" {
		return ".pdf"
	}
	return ""
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Result describes a stored upload.
type Result struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

func tooLarge() error {
	return wafflerrors.New("payload_too_large", fmt.Sprintf("File exceeds the %d MB limit", MaxSize>>20), http.StatusRequestEntityTooLarge)
}

// Upload handles POST /api/uploads?category=... with a multipart "file"
// field. The content type is sniffed from the data, not taken from the
// client.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(query.Get(r, "category"))
	if category == "" {
		category = DefaultCategory
	}
	if !validCategory(category) {
		respond.Error(w, h.Log, wafflerrors.BadRequest("Invalid category"))
		return
	}

	if r.ContentLength > MaxSize+multipartSlack {
		respond.Error(w, h.Log, tooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxSize+multipartSlack)
	if err := r.ParseMultipartForm(MaxSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respond.Error(w, h.Log, tooLarge())
			return
		}
		respond.Error(w, h.Log, wafflerrors.BadRequest("Invalid upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, h.Log, wafflerrors.BadRequest("No file uploaded"))
		return
	}
	defer file.Close()
	if header.Size > MaxSize {
		respond.Error(w, h.Log, tooLarge())
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		respond.Error(w, h.Log, wafflerrors.BadRequest("Empty file"))
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext := allowed(category, contentType)
	if ext == "" {
		respond.Error(w, h.Log, wafflerrors.BadRequest("Only JPEG, PNG, GIF and WebP images are allowed"))
		return
	}

	path := fmt.Sprintf("%s/%d-%s%s", category, h.now().UnixMilli(), uuid.NewString(), ext)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	body := io.MultiReader(bytes.NewReader(head), file)
	if err := h.Storage.Put(ctx, path, body, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("upload store failed", zap.String("path", path), zap.Error(err))
		respond.Error(w, h.Log, fmt.Errorf("store upload: %w", err))
		return
	}

	h.Audit.AdminAction(ctx, r, "upload", audit.ActionCreated, path, map[string]string{"content_type": contentType})
	respond.Created(w, Result{
		URL:         h.Storage.URL(path),
		Path:        path,
		Size:        header.Size,
		ContentType: contentType,
	})
}

// Delete handles DELETE /api/uploads?path=...
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(query.Get(r, "path"), "/")
	first, _, _ := strings.Cut(path, "/")
	if path == "" || strings.Contains(path, "..") || !validCategory(first) {
		respond.Error(w, h.Log, wafflerrors.BadRequest("Invalid path"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Storage.Delete(ctx, path); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, h.Log, wafflerrors.NotFound("File not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "upload", audit.ActionDeleted, path, nil)
	respond.Message(w, "File deleted", nil)
}
