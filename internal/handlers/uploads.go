package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
)

// spoolUpload copies one multipart file field to the local upload directory
// and returns its path. Callers hand the path to the media relay, which
// removes the file after relaying it to the object store.
func spoolUpload(r *http.Request, field, uploadDir string, maxBytes int64, wantPrefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("missing %s file", field)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return "", fmt.Errorf("%s exceeds the %d byte limit", field, maxBytes)
	}

	if err := checkContentType(header, wantPrefix); err != nil {
		return "", err
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(uploadDir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("spool upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxBytes)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("spool upload: %w", err)
	}

	return path, nil
}

// discardSpooled removes a spooled file that never reached the relay, as on
// an early validation return. The relay deletes files it was handed, so a
// missing file is the normal case and not an error.
func discardSpooled(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.FromContext(ctx).Warn("remove spooled upload", "path", path, "error", err)
	}
}

func checkContentType(header *multipart.FileHeader, wantPrefix string) error {
	if wantPrefix == "" {
		return nil
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, wantPrefix) {
		return fmt.Errorf("unsupported content type %q, expected %s*", contentType, wantPrefix)
	}
	return nil
}

// hasFormFile reports whether the multipart form carries the named field.
func hasFormFile(r *http.Request, field string) bool {
	if r.MultipartForm == nil {
		return false
	}
	return len(r.MultipartForm.File[field]) > 0
}
