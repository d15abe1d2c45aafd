package generation

import (
	"encoding/json"

	"creation-server/internal/models"
)

// defaultGameData - схемные дефолты игры. Каждое поле GameData имеет
// жестко заданное значение по умолчанию.
func defaultGameData() models.GameData {
	return models.GameData{
		Title:        "Catch Game",
		Instructions: "Move to catch falling items and avoid obstacles!",
		GameKind:     models.GameKindCatch,
		Difficulty:   models.DifficultyMedium,
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
			LoseCondition: "Miss too many items or hit obstacles",
		},
		Progression: models.GameProgression{
			LevelUpScore: 100,
			MaxLevel:     10,
		},
	}
}

// NormalizeGameData превращает недоверенные данные генерации в полностью
// валидный GameData. Тотальная функция: терпит nil, не-объекты, отсутствующие
// вложенные объекты и поля неверного типа, подставляя схемные дефолты.
// Корректно типизированные значения проходят как есть; enum-поля
// валидируются по фиксированным наборам значений.
func NormalizeGameData(raw any) models.GameData {
	defaults := defaultGameData()

	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return defaults
	}

	out := defaults

	if v, ok := asString(obj["title"]); ok {
		out.Title = v
	}
	if v, ok := asString(obj["instructions"]); ok {
		out.Instructions = v
	}
	if v, ok := asString(obj["gameKind"]); ok && models.GameKind(v).IsValid() {
		out.GameKind = models.GameKind(v)
	}
	if v, ok := asString(obj["difficulty"]); ok && models.Difficulty(v).IsValid() {
		out.Difficulty = models.Difficulty(v)
	}

	theme := asObject(obj["theme"])
	if v, ok := nonEmptyString(theme["primary"]); ok {
		out.Theme.Primary = v
	}
	if v, ok := nonEmptyString(theme["secondary"]); ok {
		out.Theme.Secondary = v
	}
	if v, ok := nonEmptyString(theme["background"]); ok {
		out.Theme.Background = v
	}
	if v, ok := nonEmptyString(theme["player"]); ok {
		out.Theme.Player = v
	}
	if v, ok := nonEmptyString(theme["target"]); ok {
		out.Theme.Target = v
	}

	settings := asObject(obj["settings"])
	if v, ok := asNumber(settings["initialSpeed"]); ok {
		out.Settings.InitialSpeed = v
	}
	if v, ok := asNumber(settings["speedIncrement"]); ok {
		out.Settings.SpeedIncrement = v
	}
	if v, ok := asNumber(settings["spawnRate"]); ok {
		out.Settings.SpawnRate = v
	}
	if v, ok := asNumber(settings["spawnRateIncrement"]); ok {
		out.Settings.SpawnRateIncrement = v
	}
	if v, ok := asNumber(settings["targetSize"]); ok {
		out.Settings.TargetSize = v
	}
	if v, ok := asNumber(settings["playerSize"]); ok {
		out.Settings.PlayerSize = v
	}

	hud := asObject(obj["hud"])
	if v, ok := nonEmptyString(hud["scoreLabel"]); ok {
		out.HUD.ScoreLabel = v
	}
	if v, ok := nonEmptyString(hud["levelLabel"]); ok {
		out.HUD.LevelLabel = v
	}
	// healthLabel опционален: проходит без дефолта
	if v, ok := asString(hud["healthLabel"]); ok {
		out.HUD.HealthLabel = v
	}

	objectives := asObject(obj["objectives"])
	if v, ok := asString(objectives["winCondition"]); ok {
		out.Objectives.WinCondition = v
	}
	if v, ok := nonEmptyString(objectives["loseCondition"]); ok {
		out.Objectives.LoseCondition = v
	}

	progression := asObject(obj["progression"])
	if v, ok := asNumber(progression["levelUpScore"]); ok {
		out.Progression.LevelUpScore = int(v)
	}
	if v, ok := asNumber(progression["maxLevel"]); ok {
		out.Progression.MaxLevel = int(v)
	}

	return out
}

// NormalizeGameDataJSON - вариант для сырого JSON из хранилища.
// Ошибки разбора не всплывают: битые данные дают полный дефолт.
func NormalizeGameDataJSON(raw json.RawMessage) models.GameData {
	var data any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &data)
	}
	return NormalizeGameData(data)
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// nonEmptyString повторяет JS-семантику `value || default`: пустая строка
// считается отсутствующей.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
