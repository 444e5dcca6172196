package mongo

import (
	"context"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultConnectTimeout = 10 * time.Second
	// defaultTimeout bounds each repository call when none is configured.
	defaultTimeout = 5 * time.Second
)

// Config selects the deployment and database holding the accounts collection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) clientOptions() *options.ClientOptions {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	// Registration writes the account and its listing in one transaction,
	// which needs majority writes against a replica set.
	return options.Client().
		ApplyURI(c.URI).
		SetAppName("marketplace").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
}

// Connect opens a client, pings the primary and returns the account database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := cfg.clientOptions()

	connectCtx, cancel := context.WithTimeout(ctx, *opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, oops.Code("MONGO_CONNECT_FAILED").With("database", cfg.Database).Wrap(err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, oops.Code("MONGO_PING_FAILED").With("database", cfg.Database).Wrap(err)
	}

	return client, client.Database(cfg.Database), nil
}

// Check returns a readiness probe that pings the primary.
func Check(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return oops.Code("MONGO_UNAVAILABLE").Wrap(err)
		}
		return nil
	}
}
