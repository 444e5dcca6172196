package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/creatorhub/marketplace/internal/api/handler"
	"github.com/creatorhub/marketplace/internal/core/ports"
	"github.com/creatorhub/marketplace/internal/infrastructure/config"
	"github.com/creatorhub/marketplace/internal/infrastructure/db/mongo"
	"github.com/creatorhub/marketplace/internal/infrastructure/db/postgres"
	"github.com/creatorhub/marketplace/internal/infrastructure/db/redis"
	"github.com/creatorhub/marketplace/internal/infrastructure/messaging/kafka"
)

// dependencies holds the infrastructure the server is built on.
type dependencies struct {
	accounts    ports.AccountRepository
	idempotency ports.IdempotencyStore
	publisher   ports.EventPublisher
	checks      map[string]handler.HealthCheck
	closers     []func()
}

// close releases resources in reverse order of acquisition.
func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *dependencies, err error) {
	d := &dependencies{checks: make(map[string]handler.HealthCheck)}
	defer func() {
		if err != nil {
			d.close()
		}
	}()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		err = d.usePostgres(ctx, cfg, log)
	case config.DriverMongo:
		err = d.useMongo(ctx, cfg, log)
	default:
		err = oops.Code("CONFIG_INVALID").Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.idempotency = redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		d.checks["redis"] = redis.Check(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, closer(pub, log, "kafka producer"))
		d.publisher = pub
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing account events to kafka")
	} else {
		d.publisher = kafka.NewLogPublisher(log)
	}

	return d, nil
}

func (d *dependencies) usePostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Postgres.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.Postgres.URL)
		if err != nil {
			return err
		}
		upErr := m.Up()
		_ = m.Close()
		if upErr != nil {
			return upErr
		}
		log.Info().Msg("schema migrations applied")
	}

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL}, log)
	if err != nil {
		return err
	}
	d.closers = append(d.closers, pool.Close)
	d.accounts = postgres.NewAccountRepository(pool, cfg.Postgres.QueryTimeout)
	d.checks["postgres"] = pool.Ping
	return nil
}

func (d *dependencies) useMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	d.closers = append(d.closers, func() { _ = client.Disconnect(context.Background()) })

	repo := mongo.NewAccountRepository(db, cfg.Postgres.QueryTimeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	d.accounts = repo
	d.checks["mongodb"] = mongo.Check(client)
	log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")
	return nil
}

func closer(c io.Closer, log zerolog.Logger, name string) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("resource", name).Msg("close failed")
		}
	}
}
