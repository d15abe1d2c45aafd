package generation_test

import (
	"testing"

	"creation-server/internal/generation"
	"creation-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectGameKind_Priority(t *testing.T) {
	// shooter проверяется раньше space: "space shooter" - это shooter
	det := generation.DetectGameKind("space shooter with asteroids")
	assert.Equal(t, models.GameKindShooter, det.Kind)
	assert.Equal(t, generation.ConfidenceHigh, det.Confidence) // "shoot" + "shooter"
	assert.Contains(t, det.Reason, "shoot")

	// runner раньше space
	det = generation.DetectGameKind("endless run through the galaxy")
	assert.Equal(t, models.GameKindRunner, det.Kind)
	assert.Equal(t, generation.ConfidenceHigh, det.Confidence)

	// catch раньше space
	det = generation.DetectGameKind("collect stars in space")
	assert.Equal(t, models.GameKindCatch, det.Kind)
}

func TestDetectGameKind_SingleKeyword(t *testing.T) {
	tests := []struct {
		prompt string
		kind   models.GameKind
	}{
		{"a game with a gun", models.GameKindShooter},
		{"jump over things", models.GameKindRunner},
		{"solve the mystery", models.GameKindPuzzle},
		{"grab the coins", models.GameKindCatch},
		{"fly between planets", models.GameKindSpace},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			det := generation.DetectGameKind(tt.prompt)
			assert.Equal(t, tt.kind, det.Kind)
			assert.Equal(t, generation.ConfidenceMedium, det.Confidence)
		})
	}
}

func TestDetectGameKind_Fallback(t *testing.T) {
	det := generation.DetectGameKind("a nice relaxing experience")
	assert.Equal(t, models.GameKindCatch, det.Kind)
	assert.Equal(t, generation.ConfidenceLow, det.Confidence)
	assert.Equal(t, "No specific keywords detected, using default", det.Reason)
}

func TestDetectGameKind_Deterministic(t *testing.T) {
	prompt := "shoot enemies in a puzzle maze"
	first := generation.DetectGameKind(prompt)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, generation.DetectGameKind(prompt))
	}
}

func TestGameKindLabel(t *testing.T) {
	assert.Equal(t, "Shooter", generation.GameKindLabel(models.GameKindShooter))
	assert.Equal(t, "Catch", generation.GameKindLabel(models.GameKindCatch))
}
