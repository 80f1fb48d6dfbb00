package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/medilearn/apiserver/types"
)

// PostgresPreferencesRepository stores one questionnaire row per user.
type PostgresPreferencesRepository struct {
	db *sql.DB
}

func NewPostgresPreferencesRepository(db *sql.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{db: db}
}

func (r *PostgresPreferencesRepository) Get(ctx context.Context, userID string) (types.Preferences, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return types.Preferences{}, ErrNotFound
	}
	const query = `
		SELECT user_id, age_range, gender, health_goals, interests, conditions,
			learning_style, time_commitment, dietary_preferences, activity_level, updated_at
		FROM user_preferences
		WHERE user_id = $1`
	var p types.Preferences
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.AgeRange,
		&p.Gender,
		pq.Array(&p.HealthGoals),
		pq.Array(&p.Interests),
		&p.Conditions,
		&p.LearningStyle,
		&p.TimeCommitment,
		pq.Array(&p.DietaryPreferences),
		&p.ActivityLevel,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Preferences{}, ErrNotFound
		}
		return types.Preferences{}, err
	}
	return p, nil
}

func (r *PostgresPreferencesRepository) Upsert(ctx context.Context, p types.Preferences) (types.Preferences, error) {
	if _, err := uuid.Parse(p.UserID); err != nil {
		return types.Preferences{}, ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()

	const query = `
		INSERT INTO user_preferences (user_id, age_range, gender, health_goals, interests, conditions,
			learning_style, time_commitment, dietary_preferences, activity_level, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			age_range = EXCLUDED.age_range,
			gender = EXCLUDED.gender,
			health_goals = EXCLUDED.health_goals,
			interests = EXCLUDED.interests,
			conditions = EXCLUDED.conditions,
			learning_style = EXCLUDED.learning_style,
			time_commitment = EXCLUDED.time_commitment,
			dietary_preferences = EXCLUDED.dietary_preferences,
			activity_level = EXCLUDED.activity_level,
			updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.AgeRange,
		p.Gender,
		pq.Array(nonNil(p.HealthGoals)),
		pq.Array(nonNil(p.Interests)),
		p.Conditions,
		p.LearningStyle,
		p.TimeCommitment,
		pq.Array(nonNil(p.DietaryPreferences)),
		p.ActivityLevel,
		p.UpdatedAt,
	)
	if err != nil {
		return types.Preferences{}, err
	}
	return p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
