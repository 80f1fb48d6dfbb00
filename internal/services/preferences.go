package services

import (
	"context"
	"strings"

	"github.com/medilearn/apiserver/types"
)

// PreferencesRepository defines persistence operations for questionnaire answers.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (types.Preferences, error)
	Upsert(ctx context.Context, p types.Preferences) (types.Preferences, error)
}

// PreferencesService stores the personalization questionnaire.
type PreferencesService struct {
	repo PreferencesRepository
}

func NewPreferencesService(repo PreferencesRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

func (s *PreferencesService) Get(ctx context.Context, userID string) (types.Preferences, error) {
	return s.repo.Get(ctx, userID)
}

// Save trims every answer and drops blank or repeated list entries before storing.
func (s *PreferencesService) Save(ctx context.Context, p types.Preferences) (types.Preferences, error) {
	p.AgeRange = strings.TrimSpace(p.AgeRange)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Conditions = strings.TrimSpace(p.Conditions)
	p.LearningStyle = strings.TrimSpace(p.LearningStyle)
	p.TimeCommitment = strings.TrimSpace(p.TimeCommitment)
	p.ActivityLevel = strings.TrimSpace(p.ActivityLevel)
	p.HealthGoals = cleanList(p.HealthGoals)
	p.Interests = cleanList(p.Interests)
	p.DietaryPreferences = cleanList(p.DietaryPreferences)
	return s.repo.Upsert(ctx, p)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
