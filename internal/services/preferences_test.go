package services_test

import (
	"context"
	"testing"

	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPreferences_SaveCleansAnswers(t *testing.T) {
	repo := new(mocks.MockPreferencesRepository)
	want := types.Preferences{
		UserID:             "u1",
		AgeRange:           "25-34",
		HealthGoals:        []string{"Sleep better", "Lose weight"},
		Interests:          []string{},
		DietaryPreferences: []string{"Vegetarian"},
		ActivityLevel:      "moderate",
	}
	repo.On("Upsert", mock.Anything, want).Return(want, nil)

	svc := services.NewPreferencesService(repo)
	got, err := svc.Save(context.Background(), types.Preferences{
		UserID:             "u1",
		AgeRange:           " 25-34 ",
		HealthGoals:        []string{"Sleep better", " ", "Lose weight", "Sleep better"},
		DietaryPreferences: []string{"Vegetarian"},
		ActivityLevel:      "moderate ",
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}
