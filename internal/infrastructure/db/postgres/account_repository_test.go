package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

func strPtr(s string) *string { return &s }

var accountColumns = []string{
	"id", "name", "email", "password_hash", "role",
	"bio", "interests", "skills", "location", "experience", "services", "socials",
	"created_at",
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:           "01J0000000000000000000000A",
		Name:         "Ava",
		Email:        "ava@x.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleProvider,
		CreatedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		check     func(t *testing.T, a *domain.Account)
	}{
		{
			name: "found with nullable attributes",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountColumns).AddRow(
					"01J", "Ava", "ava@x.com", "$2a$10$hash", "influencer",
					strPtr("bio"), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), strPtr("@ava"),
					created,
				)
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
					WithArgs("ava@x.com").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, a *domain.Account) {
				assert.Equal(t, domain.RoleInfluencer, a.Role)
				require.NotNil(t, a.Profile.Bio)
				assert.Equal(t, "bio", *a.Profile.Bio)
				assert.Nil(t, a.Profile.Skills)
				assert.Equal(t, "@ava", *a.Profile.Socials)
				assert.True(t, created.Equal(a.CreatedAt))
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts`).
					WithArgs("ava@x.com").
					WillReturnRows(pgxmock.NewRows(accountColumns))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts`).
					WithArgs("ava@x.com").
					WillReturnError(errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock, time.Second)
			got, err := repo.FindByEmail(context.Background(), "ava@x.com")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.check == nil:
				require.Error(t, err)
				oopsErr, ok := oops.AsOops(err)
				require.True(t, ok)
				assert.Equal(t, "ACCOUNT_GET_FAILED", oopsErr.Code())
			default:
				require.NoError(t, err)
				tt.check(t, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Placeholder counts of the account insert, listing insert and profile update.
const (
	accountInsertArgs = 13
	listingInsertArgs = 10
	profileUpdateArgs = 10
)

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestAccountRepository_Create(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_unique"}

	tests := []struct {
		name        string
		withListing bool
		setupMock   func(mock pgxmock.PgxPoolIface)
		wantErr     error
		wantCode    string
	}{
		{
			name:        "provider account and listing committed together",
			withListing: true,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs("01J0000000000000000000000A", "Ava", "ava@x.com", "$2a$10$hash", "provider",
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO listings`).
					WithArgs("01J0000000000000000000000B", "Ava's Service", "Ava", "1000", "Active",
						"General", "Remote", float64(0), "/images/default-service.png", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "account without listing",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(anyArgs(accountInsertArgs)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unique violation maps to user exists",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(anyArgs(accountInsertArgs)...).
					WillReturnError(uniqueViolation)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrUserExists,
		},
		{
			name:        "listing failure rolls back the account",
			withListing: true,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(anyArgs(accountInsertArgs)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO listings`).
					WithArgs(anyArgs(listingInsertArgs)...).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			wantCode: "LISTING_INSERT_FAILED",
		},
		{
			name: "begin failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("pool closed"))
			},
			wantCode: "ACCOUNT_TX_BEGIN_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			account := testAccount()
			var listing *domain.Listing
			if tt.withListing {
				listing = domain.NewDefaultListing("01J0000000000000000000000B", account.Name, account.CreatedAt)
			}

			repo := NewAccountRepository(mock, time.Second)
			err = repo.Create(context.Background(), account, listing)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != "":
				oopsErr, ok := oops.AsOops(err)
				require.True(t, ok, "expected oops error, got %v", err)
				assert.Equal(t, tt.wantCode, oopsErr.Code())
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_ReplaceProfile(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "omitted attributes are written as NULL",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET`).
					WithArgs("Ava", "ava2@x.com",
						strPtr("bio"), (*string)(nil), (*string)(nil), (*string)(nil),
						(*string)(nil), (*string)(nil), (*string)(nil),
						"ava@x.com").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "no row for token email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET`).
					WithArgs(anyArgs(profileUpdateArgs)...).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "new email already taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET`).
					WithArgs(anyArgs(profileUpdateArgs)...).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: domain.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock, time.Second)
			err = repo.ReplaceProfile(context.Background(), "ava@x.com", "Ava", "ava2@x.com",
				domain.Profile{Bio: strPtr("bio")})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_PatchProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectExec(`UPDATE accounts SET\s+name\s+= COALESCE\(\$1, name\)`).
		WithArgs((*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), strPtr("portraits"), (*string)(nil),
			"ava@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewAccountRepository(mock, time.Second)
	err = repo.PatchProfile(context.Background(), "ava@x.com", domain.ProfilePatch{
		Profile: domain.Profile{Services: strPtr("portraits")},
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgresql://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}
