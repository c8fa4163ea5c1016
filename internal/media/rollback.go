package media

import (
	"context"
	"log/slog"
)

// Rollback collects the locations uploaded during a multi-step request so
// they can be removed if a later step fails. Call Discard once every step
// succeeded; Run is then a no-op.
type Rollback struct {
	deleter   AssetDeleter
	logger    *slog.Logger
	locations []string
	done      bool
}

// NewRollback prepares an empty rollback for one request.
func NewRollback(deleter AssetDeleter, logger *slog.Logger) *Rollback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rollback{deleter: deleter, logger: logger}
}

// Track records a stored location for compensation.
func (rb *Rollback) Track(location string) {
	if location != "" {
		rb.locations = append(rb.locations, location)
	}
}

// Discard marks the request successful so tracked uploads are kept.
func (rb *Rollback) Discard() {
	rb.done = true
}

// Run deletes tracked uploads in reverse order. Failures are logged, not
// returned, since rollback already runs on an error path.
func (rb *Rollback) Run(ctx context.Context) {
	if rb.done {
		return
	}

	for i := len(rb.locations) - 1; i >= 0; i-- {
		location := rb.locations[i]
		if err := rb.deleter.Delete(ctx, location); err != nil {
			rb.logger.Error("rollback asset deletion", "location", location, "error", err)
		}
	}
}
