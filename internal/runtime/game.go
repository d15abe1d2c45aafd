// Package runtime содержит серверные движки интерактивных просмотрщиков:
// игровой цикл, чат-сессию, калькулятор и task-list. Движки детерминированы
// при фиксированном генераторе случайностей и виртуальных часах, состояние
// принадлежит экземпляру и не разделяется между сессиями.
package runtime

import (
	"math"
	"math/rand"

	"creation-server/internal/generation"
	"creation-server/internal/models"
)

// GameState - фаза конечного автомата игры.
type GameState string

const (
	GameStateStart    GameState = "start"
	GameStatePlaying  GameState = "playing"
	GameStatePaused   GameState = "paused"
	GameStateGameOver GameState = "gameover"
	GameStateWin      GameState = "win"
)

// Направления и действия, приходящие от клиента.
type GameKey string

const (
	KeyLeft  GameKey = "ArrowLeft"
	KeyRight GameKey = "ArrowRight"
	KeyUp    GameKey = "ArrowUp"
	KeyDown  GameKey = "ArrowDown"
	KeyFire  GameKey = " "
)

// Константы цикла. Скорость игрока и пули фиксированы, перезарядка
// выстрела 250мс, радиус пули 3, нижний порог интервала спавна 400мс.
const (
	playerMoveSpeed  = 5
	bulletSpeed      = 8
	bulletRadius     = 3
	shotCooldownMs   = 250
	minSpawnRateMs   = 400
	pointerDeadZone  = 10
	goodSpawnChance  = 0.3 // rng > 0.3 => хорошая цель (70%)
	catchPoints      = 10
	shooterHitPoints = 20
	startHealth      = 3
)

// Player - положение, скорость и размер игрока.
type Player struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

// Target - падающая цель. IsGood различает награду и штраф при контакте.
type Target struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	Speed  float64 `json:"speed"`
	IsGood bool    `json:"isGood"`
}

// Bullet - снаряд игрока (только shooter).
type Bullet struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// Pointer - позиция активного указателя в координатах канваса.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GameSnapshot - полное наблюдаемое состояние кадра для отрисовки клиентом.
type GameSnapshot struct {
	State   GameState `json:"state"`
	Score   int       `json:"score"`
	Level   int       `json:"level"`
	Health  int       `json:"health"`
	Player  Player    `json:"player"`
	Targets []Target  `json:"targets"`
	Bullets []Bullet  `json:"bullets,omitempty"`
}

// GameEngine - игровой цикл с явным состоянием. Вместо планировщика кадров
// движок принимает виртуальное время через Step: один вызов - один кадр.
// Экземпляр не потокобезопасен, владелец сериализует доступ сам.
type GameEngine struct {
	data   models.GameData
	width  float64
	height float64
	rng    func() float64

	state  GameState
	score  int
	level  int
	health int

	player  Player
	targets []Target
	bullets []Bullet

	keys    map[GameKey]bool
	touches map[int]Pointer

	lastSpawn float64 // мс виртуального времени
	lastShot  float64

	currentSpeed     float64
	currentSpawnRate float64
}

// NewGameEngine создает движок для нормализованных данных игры.
// Сырые данные прогоняются через нормализатор: движок никогда не видит
// неполную конфигурацию.
func NewGameEngine(raw any, width, height float64) *GameEngine {
	e := &GameEngine{
		width:  width,
		height: height,
		rng:    rand.Float64,
	}
	e.Reset(raw)
	return e
}

// SetRNG подменяет источник случайностей (для детерминированных тестов).
func (e *GameEngine) SetRNG(rng func() float64) {
	e.rng = rng
}

// Data возвращает нормализованную конфигурацию игры.
func (e *GameEngine) Data() models.GameData { return e.data }

// State возвращает текущую фазу автомата.
func (e *GameEngine) State() GameState { return e.state }

// Reset принимает новые данные генерации: заново нормализует их, сбрасывает
// транзиентное состояние и возвращает автомат в start. Вызывающая сторона
// обязана остановить свой планировщик кадров до вызова.
func (e *GameEngine) Reset(raw any) {
	e.data = generation.NormalizeGameData(raw)
	e.state = GameStateStart
	e.initRound()
}

// initRound обнуляет покадровое состояние раунда.
func (e *GameEngine) initRound() {
	e.player = Player{
		X:    e.width / 2,
		Y:    e.height - 60,
		Size: e.data.Settings.PlayerSize,
	}
	e.targets = nil
	e.bullets = nil
	e.keys = make(map[GameKey]bool)
	e.touches = make(map[int]Pointer)
	e.lastSpawn = 0
	e.lastShot = 0
	e.currentSpeed = e.data.Settings.InitialSpeed
	e.currentSpawnRate = e.data.Settings.SpawnRate
	e.score = 0
	e.level = 1
	e.health = startHealth
}

// Start запускает новый раунд из любой фазы.
func (e *GameEngine) Start() {
	e.initRound()
	e.state = GameStatePlaying
}

// Pause приостанавливает игру. Действует только из playing.
func (e *GameEngine) Pause() {
	if e.state == GameStatePlaying {
		e.state = GameStatePaused
	}
}

// Resume возобновляет игру после паузы.
func (e *GameEngine) Resume() {
	if e.state == GameStatePaused {
		e.state = GameStatePlaying
	}
}

// Restart эквивалентен Start: свежий раунд из любой фазы.
func (e *GameEngine) Restart() { e.Start() }

// KeyDown фиксирует нажатие клавиши. Обработчики идемпотентны.
func (e *GameEngine) KeyDown(key GameKey) {
	switch key {
	case KeyLeft, KeyRight, KeyUp, KeyDown, KeyFire:
		e.keys[key] = true
	}
}

// KeyUp фиксирует отпускание клавиши.
func (e *GameEngine) KeyUp(key GameKey) {
	delete(e.keys, key)
}

// PointerDown регистрирует указатель в координатах канваса.
func (e *GameEngine) PointerDown(id int, x, y float64) {
	e.touches[id] = Pointer{X: x, Y: y}
}

// PointerMove обновляет позицию только уже активного указателя.
func (e *GameEngine) PointerMove(id int, x, y float64) {
	if _, ok := e.touches[id]; ok {
		e.touches[id] = Pointer{X: x, Y: y}
	}
}

// PointerUp снимает указатель.
func (e *GameEngine) PointerUp(id int) {
	delete(e.touches, id)
}

// Step выполняет один кадр на виртуальном времени now (мс от старта сессии).
// Порядок внутри кадра фиксирован: спавн -> игрок -> пули/коллизии ->
// цели/коллизии -> проверка здоровья. Вне playing кадр не выполняется -
// сам цикл обязан проверять результат и не перепланировать себя.
func (e *GameEngine) Step(now float64) bool {
	if e.state != GameStatePlaying {
		return false
	}

	// Спавн цели: до обновления игрока, чтобы только что созданная цель
	// участвовала в кадре наравне с остальными
	if now-e.lastSpawn > e.currentSpawnRate {
		e.spawnTarget()
		e.lastSpawn = now
	}

	e.updatePlayer(now)

	if e.isShooter() {
		e.updateBullets()
	}

	e.updateTargets()

	return e.state == GameStatePlaying
}

// Snapshot возвращает копию наблюдаемого состояния кадра.
func (e *GameEngine) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		State:  e.state,
		Score:  e.score,
		Level:  e.level,
		Health: e.health,
		Player: e.player,
	}
	snap.Targets = append(snap.Targets, e.targets...)
	snap.Bullets = append(snap.Bullets, e.bullets...)
	return snap
}

func (e *GameEngine) isShooter() bool {
	return e.data.GameKind == models.GameKindShooter
}

func (e *GameEngine) spawnTarget() {
	// В shooter все цели - враги; в остальных архетипах 70% хорошие
	isGood := false
	if !e.isShooter() {
		isGood = e.rng() > goodSpawnChance
	}
	e.targets = append(e.targets, Target{
		X:      e.rng() * (e.width - e.data.Settings.TargetSize),
		Y:      -e.data.Settings.TargetSize,
		Size:   e.data.Settings.TargetSize,
		Speed:  e.currentSpeed,
		IsGood: isGood,
	})
}

func (e *GameEngine) updatePlayer(now float64) {
	switch {
	case e.keys[KeyLeft]:
		e.player.VX = -playerMoveSpeed
	case e.keys[KeyRight]:
		e.player.VX = playerMoveSpeed
	default:
		e.player.VX = 0
	}

	switch {
	case e.keys[KeyUp]:
		e.player.VY = -playerMoveSpeed
	case e.keys[KeyDown]:
		e.player.VY = playerMoveSpeed
	default:
		e.player.VY = 0
	}

	// Выстрел с перезарядкой, пока зажат пробел
	if e.isShooter() && e.keys[KeyFire] && now-e.lastShot > shotCooldownMs {
		e.bullets = append(e.bullets, Bullet{
			X:     e.player.X,
			Y:     e.player.Y - e.player.Size,
			Speed: bulletSpeed,
		})
		e.lastShot = now
	}

	// Активный указатель перекрывает клавиатуру: скорость направляется к
	// точке касания, мертвая зона гасит дрожание у цели
	if p, ok := e.firstTouch(); ok {
		dx := p.X - e.player.X
		dy := p.Y - e.player.Y
		dist := math.Hypot(dx, dy)
		if dist > pointerDeadZone {
			e.player.VX = dx / dist * playerMoveSpeed
			e.player.VY = dy / dist * playerMoveSpeed
		}
	}

	e.player.X += e.player.VX
	e.player.Y += e.player.VY

	e.player.X = clamp(e.player.X, e.player.Size, e.width-e.player.Size)
	e.player.Y = clamp(e.player.Y, e.player.Size, e.height-e.player.Size)
}

// firstTouch возвращает указатель с минимальным id, чтобы выбор был
// детерминирован при нескольких активных касаниях.
func (e *GameEngine) firstTouch() (Pointer, bool) {
	found := false
	minID := 0
	for id := range e.touches {
		if !found || id < minID {
			minID = id
			found = true
		}
	}
	if !found {
		return Pointer{}, false
	}
	return e.touches[minID], true
}

func (e *GameEngine) updateBullets() {
	kept := e.bullets[:0]
	for _, b := range e.bullets {
		b.Y -= b.Speed

		hit := false
		for i := len(e.targets) - 1; i >= 0; i-- {
			t := e.targets[i]
			if math.Hypot(b.X-t.X, b.Y-t.Y) < t.Size/2+bulletRadius {
				e.targets = append(e.targets[:i], e.targets[i+1:]...)
				e.awardPoints(shooterHitPoints)
				hit = true
				break
			}
		}
		if hit {
			continue
		}
		if b.Y > 0 {
			kept = append(kept, b)
		}
	}
	e.bullets = kept
}

func (e *GameEngine) updateTargets() {
	missedGood := false
	kept := e.targets[:0]
	for _, t := range e.targets {
		if e.state != GameStatePlaying {
			// gameover внутри кадра: оставшиеся цели не обрабатываем
			kept = append(kept, t)
			continue
		}

		t.Y += t.Speed

		if circlesCollide(e.player.X, e.player.Y, e.player.Size, t.X, t.Y, t.Size) {
			if e.isShooter() || !t.IsGood {
				e.loseHealth()
			} else {
				e.awardPoints(catchPoints)
			}
			continue
		}

		if t.Y > e.height+t.Size {
			// Упущенная хорошая цель тоже штрафуется, кроме shooter
			if !e.isShooter() && t.IsGood {
				missedGood = true
			}
			continue
		}

		kept = append(kept, t)
	}
	e.targets = kept

	if missedGood {
		e.loseHealth()
	}
}

// awardPoints начисляет очки и проверяет порог повышения уровня.
// Уровень ограничен maxLevel, но скорость и интервал спавна эскалируются
// при каждом срабатывании порога (интервал не ниже 400мс).
func (e *GameEngine) awardPoints(points int) {
	if e.state != GameStatePlaying {
		return
	}
	e.score += points
	if e.score > 0 && e.data.Progression.LevelUpScore > 0 && e.score%e.data.Progression.LevelUpScore == 0 {
		e.level = min(e.level+1, e.data.Progression.MaxLevel)
		e.currentSpeed += e.data.Settings.SpeedIncrement
		e.currentSpawnRate = math.Max(minSpawnRateMs, e.currentSpawnRate-e.data.Settings.SpawnRateIncrement)
	}
}

// loseHealth снимает единицу здоровья; на нуле ровно один переход в gameover.
func (e *GameEngine) loseHealth() {
	if e.state != GameStatePlaying {
		return
	}
	e.health--
	if e.health <= 0 {
		e.state = GameStateGameOver
	}
}

// Коллизия по приближению окружностями: расстояние между центрами меньше
// полусуммы размеров (и для треугольного игрока shooter тоже).
func circlesCollide(x1, y1, size1, x2, y2, size2 float64) bool {
	return math.Hypot(x1-x2, y1-y2) < (size1+size2)/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
