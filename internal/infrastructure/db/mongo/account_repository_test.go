package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestPatchSet_OnlyPresentFields(t *testing.T) {
	set := patchSet(domain.ProfilePatch{
		Name:    strPtr("Ava"),
		Profile: domain.Profile{Services: strPtr("portraits"), Bio: strPtr("")},
	})

	assert.Equal(t, bson.D{
		{Key: "name", Value: "Ava"},
		{Key: "bio", Value: ""},
		{Key: "services", Value: "portraits"},
	}, set)
}

func TestReplaceSet_WritesEveryField(t *testing.T) {
	set := replaceSet("Ava", "ava@x.com", domain.Profile{Bio: strPtr("b")})

	require.Len(t, set, 9)
	m := set.Map()
	assert.Equal(t, "ava@x.com", m["email"])
	assert.Nil(t, m["socials"])
	assert.Equal(t, strPtr("b"), m["bio"])
}

func TestAccountRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("zero timeout falls back to default", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, 0)
		assert.Equal(mt, defaultTimeout, repo.timeout)
		assert.Equal(mt, 3*time.Second, NewAccountRepository(mt.DB, 3*time.Second).timeout)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, time.Second)
		created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "marketplace.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "01J"},
			{Key: "name", Value: "Ava"},
			{Key: "email", Value: "ava@x.com"},
			{Key: "password_hash", Value: "$2a$10$hash"},
			{Key: "role", Value: "influencer"},
			{Key: "socials", Value: "@ava"},
			{Key: "bio", Value: nil},
			{Key: "created_at", Value: created},
		}))

		a, err := repo.FindByEmail(context.Background(), "ava@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, domain.RoleInfluencer, a.Role)
		assert.Equal(mt, "@ava", *a.Profile.Socials)
		assert.Nil(mt, a.Profile.Bio)
		assert.True(mt, created.Equal(a.CreatedAt))
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "marketplace.accounts", mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})

	mt.Run("replace profile missing row", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.ReplaceProfile(context.Background(), "gone@x.com", "X", "gone@x.com", domain.Profile{})
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})

	mt.Run("patch profile duplicate email", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: marketplace.accounts index: accounts_email_unique",
		}))

		err := repo.PatchProfile(context.Background(), "ava@x.com", domain.ProfilePatch{Email: strPtr("taken@x.com")})
		assert.ErrorIs(mt, err, domain.ErrUserExists)
	})

	mt.Run("patch profile success", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.PatchProfile(context.Background(), "ava@x.com", domain.ProfilePatch{Profile: domain.Profile{Bio: strPtr("hi")}})
		assert.NoError(mt, err)
	})
}
