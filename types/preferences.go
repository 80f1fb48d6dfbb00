package types

import "time"

// Preferences are the answers to the personalization questionnaire.
type Preferences struct {
	UserID             string    `json:"userId"`
	AgeRange           string    `json:"ageRange"`
	Gender             string    `json:"gender"`
	HealthGoals        []string  `json:"healthGoals"`
	Interests          []string  `json:"interests"`
	Conditions         string    `json:"conditions"`
	LearningStyle      string    `json:"learningStyle"`
	TimeCommitment     string    `json:"timeCommitment"`
	DietaryPreferences []string  `json:"dietaryPreferences"`
	ActivityLevel      string    `json:"activityLevel"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
