package db

import (
	"testing"

	"github.com/medilearn/apiserver/config"
	"github.com/stretchr/testify/assert"
)

func TestMongoDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"explicit name wins", config.DatabaseConfig{MongoDatabase: "learn", MongoURI: "mongodb://h/other"}, "learn"},
		{"uri path", config.DatabaseConfig{MongoURI: "mongodb://localhost:27017/medilearn_dev?retryWrites=true"}, "medilearn_dev"},
		{"no path", config.DatabaseConfig{MongoURI: "mongodb://localhost:27017"}, "medilearn"},
		{"srv uri", config.DatabaseConfig{MongoURI: "mongodb+srv://user:pw@cluster.example.net/prod"}, "prod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mongoDatabaseName(tt.cfg))
		})
	}
}

func TestPostgresURL(t *testing.T) {
	got := PostgresURL(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "medi", Password: "p@ss", DBName: "medilearn", UseSSL: true,
	})
	assert.Equal(t, "postgres://medi:p%40ss@db:5432/medilearn?sslmode=require", got)
}
