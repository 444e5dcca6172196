package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

const (
	accountsCollection = "accounts"
	listingsCollection = "listings"
)

// AccountRepository is the MongoDB credential store.
type AccountRepository struct {
	client   *mongo.Client
	accounts *mongo.Collection
	listings *mongo.Collection
	timeout  time.Duration
}

func NewAccountRepository(db *mongo.Database, timeout time.Duration) *AccountRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AccountRepository{
		client:   db.Client(),
		accounts: db.Collection(accountsCollection),
		listings: db.Collection(listingsCollection),
		timeout:  timeout,
	}
}

type accountDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Bio          *string   `bson:"bio"`
	Interests    *string   `bson:"interests"`
	Skills       *string   `bson:"skills"`
	Location     *string   `bson:"location"`
	Experience   *string   `bson:"experience"`
	Services     *string   `bson:"services"`
	Socials      *string   `bson:"socials"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Bio:          a.Profile.Bio,
		Interests:    a.Profile.Interests,
		Skills:       a.Profile.Skills,
		Location:     a.Profile.Location,
		Experience:   a.Profile.Experience,
		Services:     a.Profile.Services,
		Socials:      a.Profile.Socials,
		CreatedAt:    a.CreatedAt,
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		Profile: domain.Profile{
			Bio:        d.Bio,
			Interests:  d.Interests,
			Skills:     d.Skills,
			Location:   d.Location,
			Experience: d.Experience,
			Services:   d.Services,
			Socials:    d.Socials,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique email index that backs ErrUserExists.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("accounts_email_unique"),
	})
	if err != nil {
		return oops.Code("MONGO_INDEX_FAILED").With("collection", accountsCollection).Wrap(err)
	}

	_, err = r.listings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "provider", Value: 1}},
	})
	if err != nil {
		return oops.Code("MONGO_INDEX_FAILED").With("collection", listingsCollection).Wrap(err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc accountDoc
	if err := r.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("email", email).Wrap(err)
	}
	return doc.toDomain(), nil
}

// Create inserts the account and the optional listing inside one session
// transaction.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account, listing *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return oops.Code("ACCOUNT_TX_BEGIN_FAILED").Wrap(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.accounts.InsertOne(sc, toAccountDoc(account)); err != nil {
			return nil, err
		}
		if listing != nil {
			if _, err := r.listings.InsertOne(sc, listing); err != nil {
				return nil, oops.Code("LISTING_INSERT_FAILED").With("listing", listing.Name).Wrap(err)
			}
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return oops.Code("ACCOUNT_INSERT_FAILED").With("email", account.Email).Wrap(err)
	}
	return nil
}

// ReplaceProfile overwrites every editable field; nil attributes are stored as null.
func (r *AccountRepository) ReplaceProfile(ctx context.Context, email, name, newEmail string, p domain.Profile) error {
	return r.update(ctx, email, replaceSet(name, newEmail, p))
}

// PatchProfile writes only the non-nil fields.
func (r *AccountRepository) PatchProfile(ctx context.Context, email string, patch domain.ProfilePatch) error {
	return r.update(ctx, email, patchSet(patch))
}

func (r *AccountRepository) update(ctx context.Context, email string, set bson.D) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.accounts.UpdateOne(ctx, bson.M{"email": email}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").With("email", email).Wrap(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func replaceSet(name, email string, p domain.Profile) bson.D {
	return bson.D{
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "bio", Value: p.Bio},
		{Key: "interests", Value: p.Interests},
		{Key: "skills", Value: p.Skills},
		{Key: "location", Value: p.Location},
		{Key: "experience", Value: p.Experience},
		{Key: "services", Value: p.Services},
		{Key: "socials", Value: p.Socials},
	}
}

func patchSet(patch domain.ProfilePatch) bson.D {
	fields := []struct {
		key   string
		value *string
	}{
		{"name", patch.Name},
		{"email", patch.Email},
		{"bio", patch.Bio},
		{"interests", patch.Interests},
		{"skills", patch.Skills},
		{"location", patch.Location},
		{"experience", patch.Experience},
		{"services", patch.Services},
		{"socials", patch.Socials},
	}

	set := bson.D{}
	for _, f := range fields {
		if f.value != nil {
			set = append(set, bson.E{Key: f.key, Value: *f.value})
		}
	}
	return set
}
