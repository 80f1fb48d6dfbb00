package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureMongoIndexes creates the collections and indexes the repositories rely on.
// It is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	collections := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email").SetCollation(emailCollation),
			},
		},
		quizAttemptsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		flashcardSessionsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		articleReadsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "readDate", Value: -1}}},
		},
		preferencesCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}
	return nil
}
