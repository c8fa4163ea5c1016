package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
)

var (
	// ErrStorageUnavailable indicates the relay has no backing object store.
	ErrStorageUnavailable = errors.New("media storage unavailable")
)

// AssetStorage is the narrow contract the relay needs from an object store.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, location string) error
}

// Asset describes a stored media object.
type Asset struct {
	URL      string
	Duration float64
}

// Relay moves locally-spooled uploads into the object store. The local file
// is removed after every attempt, successful or not, so the upload directory
// never accumulates temp files.
type Relay struct {
	storage AssetStorage
	probe   DurationProber
	logger  *slog.Logger
}

// NewRelay constructs a Relay. The prober may be nil, in which case video
// durations are reported as zero.
func NewRelay(storage AssetStorage, probe DurationProber, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{storage: storage, probe: probe, logger: logger}
}

// Upload pushes the file at localPath into the store under keyPrefix and
// returns its public location. Video files are probed for duration first.
func (r *Relay) Upload(ctx context.Context, localPath, keyPrefix string) (Asset, error) {
	ctx, span := logging.StartSpan(ctx, "media.upload")
	defer span.End()

	defer func() {
		if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("remove temp upload", "path", localPath, "error", err)
		}
	}()

	if r.storage == nil {
		return Asset{}, ErrStorageUnavailable
	}

	var asset Asset
	if r.probe != nil && isVideo(localPath) {
		duration, err := r.probe.Duration(ctx, localPath)
		if err != nil {
			r.logger.Warn("probe video duration", "path", localPath, "error", err)
		} else {
			asset.Duration = duration
		}
	}

	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open upload %s: %w", localPath, err)
	}
	defer file.Close()

	key := path.Join(keyPrefix, uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
	location, err := r.storage.Save(ctx, key, file)
	if err != nil {
		return Asset{}, fmt.Errorf("store upload: %w", err)
	}

	asset.URL = location
	return asset, nil
}

// Delete removes a stored asset by the location Upload returned.
func (r *Relay) Delete(ctx context.Context, location string) error {
	if r.storage == nil {
		return ErrStorageUnavailable
	}
	return r.storage.Delete(ctx, location)
}

func isVideo(localPath string) bool {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	return strings.HasPrefix(contentType, "video/")
}
