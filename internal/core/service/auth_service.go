package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/creatorhub/marketplace/internal/core/domain"
	"github.com/creatorhub/marketplace/internal/core/ports"
)

// AuthService implements registration, login and profile management.
type AuthService struct {
	repo        ports.AccountRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	idempotency ports.IdempotencyStore
	events      ports.EventSink
	logger      zerolog.Logger
	now         func() time.Time

	// dummyHash is compared against on unknown-email logins so both failure
	// paths pay the same hashing cost.
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithIdempotencyStore enables Idempotency-Key replay for registration.
func WithIdempotencyStore(store ports.IdempotencyStore) AuthOption {
	return func(s *AuthService) { s.idempotency = store }
}

// WithEventSink routes account lifecycle events to sink.
func WithEventSink(sink ports.EventSink) AuthOption {
	return func(s *AuthService) { s.events = sink }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	logger zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if h, err := hasher.Hash("marketplace-timing-equaliser"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Register creates an account. Provider accounts get a default listing in
// the same transaction. No token is issued.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	if blankAny(in.Name, in.Email, in.Password, in.Role) {
		return nil, domain.NewValidationError("All fields are required")
	}
	role := domain.Role(in.Role)

	if in.IdempotencyKey != "" && s.idempotency != nil {
		email, seen, err := s.idempotency.Lookup(ctx, in.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, registering anyway")
		case seen && email == in.Email:
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("email", in.Email).Msg("idempotent replay")
			return &ports.RegisterResult{
				Email:           in.Email,
				Role:            role,
				ListingProvided: role == domain.RoleProvider,
				Replayed:        true,
			}, nil
		}
	}

	// Fast path only; the unique index is authoritative.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, oops.Code("REGISTER_LOOKUP_FAILED").With("email", in.Email).Wrap(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	now := s.now().UTC()
	account := &domain.Account{
		ID:           ulid.Make().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
	}

	var listing *domain.Listing
	if role == domain.RoleProvider {
		listing = domain.NewDefaultListing(ulid.Make().String(), in.Name, now)
	}

	if err := s.repo.Create(ctx, account, listing); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create account")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.IdempotencyKey, in.Email); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	s.emit(ports.EventAccountRegistered, in.Email, role, now)
	s.logger.Info().Str("email", in.Email).Str("role", in.Role).Bool("listing", listing != nil).Msg("account registered")

	return &ports.RegisterResult{
		Email:           in.Email,
		Role:            role,
		ListingProvided: listing != nil,
	}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if blankAny(email, password) {
		return nil, domain.NewValidationError("Email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.dummyHash != "" {
				_ = s.hasher.Verify(password, s.dummyHash)
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, oops.Code("LOGIN_LOOKUP_FAILED").With("email", email).Wrap(err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Email, account.Role)
	if err != nil {
		return nil, oops.Code("TOKEN_ISSUE_FAILED").Wrap(err)
	}

	s.emit(ports.EventAccountLoggedIn, account.Email, account.Role, s.now().UTC())

	return &ports.LoginResult{
		Token: token,
		User: ports.PublicUser{
			Name:  account.Name,
			Email: account.Email,
			Role:  account.Role,
		},
	}, nil
}

// GetProfile loads the account named by the token subject.
func (s *AuthService) GetProfile(ctx context.Context, claims domain.Claims) (*ports.ProfileView, error) {
	account, err := s.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}

	return &ports.ProfileView{
		Name:            account.Name,
		Email:           account.Email,
		Role:            account.Role,
		Profile:         account.Profile,
		CreatedAt:       account.CreatedAt,
		ProfileComplete: account.Profile.IsComplete(account.Role),
		MissingFields:   account.Profile.MissingFields(account.Role),
	}, nil
}

// UpdateProfile replaces every editable field. The row is located by the
// token's email; the token is not reissued when the email changes.
func (s *AuthService) UpdateProfile(ctx context.Context, claims domain.Claims, in ports.UpdateProfileInput) error {
	if blankAny(in.Name, in.Email) {
		return domain.NewValidationError("Name and email are required")
	}

	if err := s.repo.ReplaceProfile(ctx, claims.Email, in.Name, in.Email, in.Profile); err != nil {
		return err
	}

	s.emit(ports.EventProfileUpdated, in.Email, claims.Role, s.now().UTC())
	s.logger.Info().Str("email", claims.Email).Str("new_email", in.Email).Msg("profile replaced")
	return nil
}

// PatchProfile writes only the fields present in patch.
func (s *AuthService) PatchProfile(ctx context.Context, claims domain.Claims, patch domain.ProfilePatch) error {
	if patch.Empty() {
		return domain.NewValidationError("No fields to update")
	}
	if (patch.Name != nil && strings.TrimSpace(*patch.Name) == "") ||
		(patch.Email != nil && strings.TrimSpace(*patch.Email) == "") {
		return domain.NewValidationError("Name and email cannot be empty")
	}

	if err := s.repo.PatchProfile(ctx, claims.Email, patch); err != nil {
		return err
	}

	email := claims.Email
	if patch.Email != nil {
		email = *patch.Email
	}
	s.emit(ports.EventProfileUpdated, email, claims.Role, s.now().UTC())
	s.logger.Info().Str("email", claims.Email).Msg("profile patched")
	return nil
}

func (s *AuthService) emit(eventType, email string, role domain.Role, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(ports.AccountEvent{
		Type:       eventType,
		Email:      email,
		Role:       string(role),
		OccurredAt: at,
	})
}

func blankAny(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
