package ports

import (
	"context"
	"time"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	// IdempotencyKey is optional; a repeated key for the same email replays success.
	IdempotencyKey string
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	Email           string
	Role            domain.Role
	ListingProvided bool
	Replayed        bool
}

// PublicUser is the projection of an account that is safe to hand to clients.
type PublicUser struct {
	Name  string
	Email string
	Role  domain.Role
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  PublicUser
}

// ProfileView is the authenticated read model of an account.
type ProfileView struct {
	Name            string
	Email           string
	Role            domain.Role
	Profile         domain.Profile
	CreatedAt       time.Time
	ProfileComplete bool
	MissingFields   []string
}

// UpdateProfileInput is a full replacement of the editable account fields.
type UpdateProfileInput struct {
	Name    string
	Email   string
	Profile domain.Profile
}

// AuthService defines the account lifecycle use cases. Profile operations
// take the claims of an already verified token.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetProfile(ctx context.Context, claims domain.Claims) (*ProfileView, error)
	UpdateProfile(ctx context.Context, claims domain.Claims, in UpdateProfileInput) error
	PatchProfile(ctx context.Context, claims domain.Claims, patch domain.ProfilePatch) error
}
