package store

import (
	"context"
	"errors"
	"time"

	"github.com/medilearn/apiserver/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const preferencesCollection = "user_preferences"

type preferencesDoc struct {
	UserID             bson.ObjectID `bson:"userId"`
	AgeRange           string        `bson:"ageRange"`
	Gender             string        `bson:"gender"`
	HealthGoals        []string      `bson:"healthGoals"`
	Interests          []string      `bson:"interests"`
	Conditions         string        `bson:"conditions"`
	LearningStyle      string        `bson:"learningStyle"`
	TimeCommitment     string        `bson:"timeCommitment"`
	DietaryPreferences []string      `bson:"dietaryPreferences"`
	ActivityLevel      string        `bson:"activityLevel"`
	UpdatedAt          time.Time     `bson:"updatedAt"`
}

// MongoPreferencesRepository stores one questionnaire document per user.
type MongoPreferencesRepository struct {
	coll *mongo.Collection
}

func NewMongoPreferencesRepository(db *mongo.Database) *MongoPreferencesRepository {
	return &MongoPreferencesRepository{coll: db.Collection(preferencesCollection)}
}

func (r *MongoPreferencesRepository) Get(ctx context.Context, userID string) (types.Preferences, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return types.Preferences{}, ErrNotFound
	}
	var doc preferencesDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "userId", Value: uid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Preferences{}, ErrNotFound
		}
		return types.Preferences{}, err
	}
	return types.Preferences{
		UserID:             doc.UserID.Hex(),
		AgeRange:           doc.AgeRange,
		Gender:             doc.Gender,
		HealthGoals:        doc.HealthGoals,
		Interests:          doc.Interests,
		Conditions:         doc.Conditions,
		LearningStyle:      doc.LearningStyle,
		TimeCommitment:     doc.TimeCommitment,
		DietaryPreferences: doc.DietaryPreferences,
		ActivityLevel:      doc.ActivityLevel,
		UpdatedAt:          doc.UpdatedAt,
	}, nil
}

func (r *MongoPreferencesRepository) Upsert(ctx context.Context, p types.Preferences) (types.Preferences, error) {
	uid, err := bson.ObjectIDFromHex(p.UserID)
	if err != nil {
		return types.Preferences{}, ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	doc := preferencesDoc{
		UserID:             uid,
		AgeRange:           p.AgeRange,
		Gender:             p.Gender,
		HealthGoals:        p.HealthGoals,
		Interests:          p.Interests,
		Conditions:         p.Conditions,
		LearningStyle:      p.LearningStyle,
		TimeCommitment:     p.TimeCommitment,
		DietaryPreferences: p.DietaryPreferences,
		ActivityLevel:      p.ActivityLevel,
		UpdatedAt:          p.UpdatedAt,
	}
	_, err = r.coll.ReplaceOne(ctx,
		bson.D{{Key: "userId", Value: uid}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return types.Preferences{}, err
	}
	return p, nil
}
