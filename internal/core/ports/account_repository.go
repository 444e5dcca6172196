package ports

import (
	"context"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

// AccountRepository is the credential store. Implementations must enforce
// email uniqueness at the storage level and report a violation as
// domain.ErrUserExists.
type AccountRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Create inserts the account and, when listing is non-nil, the listing in
	// a single transaction. On error neither row is persisted.
	Create(ctx context.Context, account *domain.Account, listing *domain.Listing) error

	// ReplaceProfile overwrites name, email and every profile attribute of
	// the account currently keyed by email. Nil attributes are stored as NULL.
	ReplaceProfile(ctx context.Context, email, name, newEmail string, profile domain.Profile) error

	// PatchProfile writes only the non-nil fields of patch.
	PatchProfile(ctx context.Context, email string, patch domain.ProfilePatch) error
}
