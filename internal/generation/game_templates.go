package generation

import (
	"strings"

	"creation-server/internal/models"
)

// Фиксированные шаблоны игр по архетипам: тема, физика, HUD, прогрессия.
var gameTemplates = map[models.GameKind]models.GameData{
	models.GameKindRunner: {
		Title:        "Endless Runner",
		Instructions: "Jump over obstacles and survive as long as possible! Use arrow keys or tap to jump.",
		GameKind:     models.GameKindRunner,
		Difficulty:   models.DifficultyMedium,
		Theme: models.GameTheme{
			Primary:    "oklch(0.55 0.20 142)",
			Secondary:  "oklch(0.45 0.15 30)",
			Background: "oklch(0.85 0.05 220)",
			Player:     "oklch(0.55 0.20 142)",
			Target:     "oklch(0.45 0.15 30)",
		},
		Settings: models.GameSettings{
			InitialSpeed:       3,
			SpeedIncrement:     0.4,
			SpawnRate:          1500,
			SpawnRateIncrement: 100,
			TargetSize:         35,
			PlayerSize:         25,
		},
		HUD: models.GameHUD{
			ScoreLabel: "Distance",
			LevelLabel: "Speed",
		},
		Objectives: models.GameObjectives{
			LoseCondition: "Hit an obstacle",
		},
		Progression: models.GameProgression{
			LevelUpScore: 50,
			MaxLevel:     15,
		},
	},
	models.GameKindShooter: {
		Title:        "Space Shooter",
		Instructions: "Shoot down enemies and survive! Use arrow keys to move and space to shoot.",
		GameKind:     models.GameKindShooter,
		Difficulty:   models.DifficultyHard,
		Theme: models.GameTheme{
			Primary:    "oklch(0.60 0.25 264)",
			Secondary:  "oklch(0.50 0.20 0)",
			Background: "oklch(0.15 0.05 264)",
			Player:     "oklch(0.60 0.25 264)",
			Target:     "oklch(0.50 0.20 0)",
		},
		Settings: models.GameSettings{
			InitialSpeed:       2.5,
			SpeedIncrement:     0.35,
			SpawnRate:          1200,
			SpawnRateIncrement: 80,
			TargetSize:         30,
			PlayerSize:         22,
		},
		HUD: models.GameHUD{
			ScoreLabel:  "Score",
			LevelLabel:  "Wave",
			HealthLabel: "Health",
		},
		Objectives: models.GameObjectives{
			LoseCondition: "Health reaches zero",
		},
		Progression: models.GameProgression{
			LevelUpScore: 150,
			MaxLevel:     12,
		},
	},
	models.GameKindCatch: {
		Title:        "Catch Game",
		Instructions: "Catch falling items and avoid obstacles! Move with arrow keys or touch.",
		GameKind:     models.GameKindCatch,
		Difficulty:   models.DifficultyEasy,
		Theme: models.GameTheme{
			Primary:    "oklch(0.488 0.243 264.376)",
			Secondary:  "oklch(0.646 0.222 41.116)",
			Background: "oklch(0.97 0 0)",
			Player:     "oklch(0.488 0.243 264.376)",
			Target:     "oklch(0.646 0.222 41.116)",
		},
		Settings: models.GameSettings{
			InitialSpeed:       2,
			SpeedIncrement:     0.3,
			SpawnRate:          1000,
			SpawnRateIncrement: 50,
			TargetSize:         30,
			PlayerSize:         20,
		},
		HUD: models.GameHUD{
			ScoreLabel: "Score",
			LevelLabel: "Level",
		},
		Objectives: models.GameObjectives{
			LoseCondition: "Miss too many items",
		},
		Progression: models.GameProgression{
			LevelUpScore: 100,
			MaxLevel:     10,
		},
	},
	models.GameKindPuzzle: {
		Title:        "Match Puzzle",
		Instructions: "Match falling patterns to score points! Use arrow keys or touch to move.",
		GameKind:     models.GameKindPuzzle,
		Difficulty:   models.DifficultyMedium,
		Theme: models.GameTheme{
			Primary:    "oklch(0.65 0.22 330)",
			Secondary:  "oklch(0.55 0.18 280)",
			Background: "oklch(0.95 0.02 280)",
			Player:     "oklch(0.65 0.22 330)",
			Target:     "oklch(0.55 0.18 280)",
		},
		Settings: models.GameSettings{
			InitialSpeed:       1.8,
			SpeedIncrement:     0.25,
			SpawnRate:          1400,
			SpawnRateIncrement: 70,
			TargetSize:         32,
			PlayerSize:         24,
		},
		HUD: models.GameHUD{
			ScoreLabel: "Matches",
			LevelLabel: "Level",
		},
		Objectives: models.GameObjectives{
			LoseCondition: "Too many mismatches",
		},
		Progression: models.GameProgression{
			LevelUpScore: 80,
			MaxLevel:     12,
		},
	},
	models.GameKindSpace: {
		Title:        "Space Adventure",
		Instructions: "Navigate through space and collect stars! Use arrow keys or touch to move.",
		GameKind:     models.GameKindSpace,
		Difficulty:   models.DifficultyMedium,
		Theme: models.GameTheme{
			Primary:    "oklch(0.70 0.15 200)",
			Secondary:  "oklch(0.80 0.20 60)",
			Background: "oklch(0.10 0.05 264)",
			Player:     "oklch(0.70 0.15 200)",
			Target:     "oklch(0.80 0.20 60)",
		},
		Settings: models.GameSettings{
			InitialSpeed:       2.2,
			SpeedIncrement:     0.32,
			SpawnRate:          1100,
			SpawnRateIncrement: 60,
			TargetSize:         28,
			PlayerSize:         20,
		},
		HUD: models.GameHUD{
			ScoreLabel: "Stars",
			LevelLabel: "Sector",
		},
		Objectives: models.GameObjectives{
			LoseCondition: "Hit asteroids",
		},
		Progression: models.GameProgression{
			LevelUpScore: 120,
			MaxLevel:     10,
		},
	},
}

// GameTemplate возвращает конфигурацию игры для промпта: архетип берется из
// override или определяется классификатором, сложность переопределяется
// ключевыми словами easy/hard в промпте.
func GameTemplate(prompt string, overrideKind models.GameKind) models.GameData {
	lower := strings.ToLower(prompt)

	kind := overrideKind
	if !kind.IsValid() {
		kind = DetectGameKind(prompt).Kind
	}

	data := gameTemplates[kind]

	if containsAny(lower, "easy", "simple", "beginner") {
		data.Difficulty = models.DifficultyEasy
	} else if containsAny(lower, "hard", "difficult", "challenge") {
		data.Difficulty = models.DifficultyHard
	}

	return data
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
