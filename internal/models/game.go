package models

// GameKind - архетип игры, выбираемый классификатором по промпту.
type GameKind string

const (
	GameKindRunner  GameKind = "runner"
	GameKindShooter GameKind = "shooter"
	GameKindCatch   GameKind = "catch"
	GameKindPuzzle  GameKind = "puzzle"
	GameKindSpace   GameKind = "space"
)

// IsValid проверяет принадлежность к фиксированному набору архетипов.
func (k GameKind) IsValid() bool {
	switch k {
	case GameKindRunner, GameKindShooter, GameKindCatch, GameKindPuzzle, GameKindSpace:
		return true
	}
	return false
}

// Difficulty - уровень сложности игры.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid проверяет значение сложности.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GameTheme - цветовые токены игры.
type GameTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Player     string `json:"player"`
	Target     string `json:"target"`
}

// GameSettings - физические параметры игрового цикла. Все значения положительные.
type GameSettings struct {
	InitialSpeed       float64 `json:"initialSpeed"`
	SpeedIncrement     float64 `json:"speedIncrement"`
	SpawnRate          float64 `json:"spawnRate"` // миллисекунды между спавнами
	SpawnRateIncrement float64 `json:"spawnRateIncrement"`
	TargetSize         float64 `json:"targetSize"`
	PlayerSize         float64 `json:"playerSize"`
}

// GameHUD - подписи элементов HUD. HealthLabel опционален.
type GameHUD struct {
	ScoreLabel  string `json:"scoreLabel"`
	LevelLabel  string `json:"levelLabel"`
	HealthLabel string `json:"healthLabel,omitempty"`
}

// GameObjectives - текстовые условия победы/поражения. WinCondition опционален.
type GameObjectives struct {
	WinCondition  string `json:"winCondition,omitempty"`
	LoseCondition string `json:"loseCondition"`
}

// GameProgression - пороги прогрессии уровней.
type GameProgression struct {
	LevelUpScore int `json:"levelUpScore"`
	MaxLevel     int `json:"maxLevel"`
}

// GameData - полная конфигурация игры.
// Инвариант: после нормализации ни одно обязательное поле не пустое,
// опциональны только HUD.HealthLabel и Objectives.WinCondition.
type GameData struct {
	Title        string          `json:"title"`
	Instructions string          `json:"instructions"`
	GameKind     GameKind        `json:"gameKind"`
	Difficulty   Difficulty      `json:"difficulty"`
	Theme        GameTheme       `json:"theme"`
	Settings     GameSettings    `json:"settings"`
	HUD          GameHUD         `json:"hud"`
	Objectives   GameObjectives  `json:"objectives"`
	Progression  GameProgression `json:"progression"`
}
