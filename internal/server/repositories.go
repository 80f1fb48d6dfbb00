package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/db"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Repositories holds the store implementations for the configured driver.
type Repositories struct {
	Users       services.UserRepository
	Activity    services.ActivityRepository
	Preferences services.PreferencesRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// OpenRepositories connects to the configured database and builds the repositories.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongoRepositories(client, database), nil
	case config.DriverPostgres:
		conn, err := db.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return postgresRepositories(conn), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func mongoRepositories(client *mongo.Client, database *mongo.Database) *Repositories {
	return &Repositories{
		Users:       store.NewMongoUserRepository(database),
		Activity:    store.NewMongoActivityRepository(database),
		Preferences: store.NewMongoPreferencesRepository(database),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}
}

func postgresRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		Users:       store.NewPostgresUserRepository(conn),
		Activity:    store.NewPostgresActivityRepository(conn),
		Preferences: store.NewPostgresPreferencesRepository(conn),
		ping:        conn.PingContext,
		close: func(context.Context) error {
			return conn.Close()
		},
	}
}

// Ping checks the database connection.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the database connection.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}
