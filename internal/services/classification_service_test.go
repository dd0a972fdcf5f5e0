package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aichat_backend/internal/models"
)

func TestClassify(t *testing.T) {
	s := NewClassificationService()

	tests := []struct {
		name    string
		content string
		want    models.AgeRating
	}{
		{"neutral text", "hello, how are you today?", models.RatingEveryone},
		{"empty text", "", models.RatingEveryone},
		{"teen keyword", "that party got everyone drunk", models.RatingTeen},
		{"mature keyword", "this scene is too explicit", models.RatingMature},
		{"mature wins over teen", "drunk and explicit", models.RatingMature},
		{"case insensitive", "NSFW content ahead", models.RatingMature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Classify(tt.content))
		})
	}
}
