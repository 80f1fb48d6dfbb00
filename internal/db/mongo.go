package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/logging"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	defaultMongoDatabase          = "medilearn"
	defaultServerSelectionTimeout = 5 * time.Second
	defaultSocketTimeout          = 45 * time.Second
)

// ConnectMongo connects and pings MongoDB, retrying with a flat delay until
// cfg.ConnectAttempts is exhausted. It returns the client and the database
// named by cfg.MongoDatabase, or by the URI path when that is empty.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, *mongo.Database, error) {
	log := logging.With("mongo")

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(defaultServerSelectionTimeout).
		SetTimeout(defaultSocketTimeout)
	if cfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MongoMaxPoolSize)
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(cfg.ConnectDelay))

	var client *mongo.Client
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		log.Info().Int("attempt", attempt).Msg("connecting to mongodb")

		c, err := mongo.Connect(opts)
		if err != nil {
			log.Error().Err(err).Int("attempt", attempt).Msg("mongodb connection failed")
			return retry.RetryableError(err)
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			log.Error().Err(err).Int("attempt", attempt).Msg("mongodb ping failed")
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb after %d attempts: %w", attempt, err)
	}

	log.Info().Msg("mongodb connected")
	return client, client.Database(mongoDatabaseName(cfg)), nil
}

func mongoDatabaseName(cfg config.DatabaseConfig) string {
	if name := strings.TrimSpace(cfg.MongoDatabase); name != "" {
		return name
	}
	if u, err := url.Parse(cfg.MongoURI); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultMongoDatabase
}
