package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

// pool is the subset of *pgxpool.Pool used by the repository.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountRepository is the Postgres credential store.
type AccountRepository struct {
	pool    pool
	timeout time.Duration
}

func NewAccountRepository(p pool, timeout time.Duration) *AccountRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AccountRepository{pool: p, timeout: timeout}
}

const selectAccount = `
	SELECT id, name, email, password_hash, role,
	       bio, interests, skills, location, experience, services, socials,
	       created_at
	FROM accounts WHERE email = $1`

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		a    domain.Account
		role string
	)
	err := r.pool.QueryRow(ctx, selectAccount, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role,
		&a.Profile.Bio, &a.Profile.Interests, &a.Profile.Skills, &a.Profile.Location,
		&a.Profile.Experience, &a.Profile.Services, &a.Profile.Socials,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("email", email).Wrap(err)
	}
	a.Role = domain.Role(role)
	return &a, nil
}

// Create inserts the account and the optional listing in one transaction.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account, listing *domain.Listing) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("ACCOUNT_TX_BEGIN_FAILED").Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	p := account.Profile
	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, role,
			bio, interests, skills, location, experience, services, socials, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		account.ID, account.Name, account.Email, account.PasswordHash, string(account.Role),
		p.Bio, p.Interests, p.Skills, p.Location, p.Experience, p.Services, p.Socials,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return oops.Code("ACCOUNT_INSERT_FAILED").With("email", account.Email).Wrap(err)
	}

	if listing != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO listings (id, name, provider, price, status, category, location, rating, image, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			listing.ID, listing.Name, listing.Provider, listing.Price, listing.Status,
			listing.Category, listing.Location, listing.Rating, listing.Image, listing.CreatedAt,
		)
		if err != nil {
			return oops.Code("LISTING_INSERT_FAILED").With("email", account.Email).With("listing", listing.Name).Wrap(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return oops.Code("ACCOUNT_TX_COMMIT_FAILED").With("email", account.Email).Wrap(err)
	}
	return nil
}

// ReplaceProfile overwrites every editable column; nil attributes become NULL.
func (r *AccountRepository) ReplaceProfile(ctx context.Context, email, name, newEmail string, p domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET
			name = $1, email = $2,
			bio = $3, interests = $4, skills = $5, location = $6,
			experience = $7, services = $8, socials = $9
		WHERE email = $10`,
		name, newEmail,
		p.Bio, p.Interests, p.Skills, p.Location, p.Experience, p.Services, p.Socials,
		email,
	)
	return r.checkUpdate(tag, err, email)
}

// PatchProfile writes only the non-nil fields. COALESCE keeps the stored
// value for every parameter passed as NULL.
func (r *AccountRepository) PatchProfile(ctx context.Context, email string, patch domain.ProfilePatch) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET
			name       = COALESCE($1, name),
			email      = COALESCE($2, email),
			bio        = COALESCE($3, bio),
			interests  = COALESCE($4, interests),
			skills     = COALESCE($5, skills),
			location   = COALESCE($6, location),
			experience = COALESCE($7, experience),
			services   = COALESCE($8, services),
			socials    = COALESCE($9, socials)
		WHERE email = $10`,
		patch.Name, patch.Email,
		patch.Bio, patch.Interests, patch.Skills, patch.Location,
		patch.Experience, patch.Services, patch.Socials,
		email,
	)
	return r.checkUpdate(tag, err, email)
}

func (r *AccountRepository) checkUpdate(tag pgconn.CommandTag, err error, email string) error {
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").With("email", email).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
