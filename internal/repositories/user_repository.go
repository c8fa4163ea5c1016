package repositories

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/models"
)

// UserRepository defines the data access contract for users and the
// single-slot refresh token that doubles as their session record.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	// FindByID loads a user without the password hash or refresh token.
	FindByID(ctx context.Context, id string) (models.User, error)
	// FindByLogin resolves an email or username to the full credential row.
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string, now time.Time) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
	// UpdateAvatar swaps the avatar URL and returns the previous one so the
	// caller can schedule deletion of the replaced asset.
	UpdateAvatar(ctx context.Context, id, url string, now time.Time) (string, error)
	UpdateCoverImage(ctx context.Context, id, url string, now time.Time) (string, error)

	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken atomically replaces current with next; if the stored
	// value differs from current it fails with ErrTokenMismatch.
	RotateRefreshToken(ctx context.Context, id, current, next string) error
	ClearRefreshToken(ctx context.Context, id string) error

	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}
