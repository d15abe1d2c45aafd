package runtime

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creation-server/internal/models"
)

func seededRNG(seed int64) func() float64 {
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}

func newTestEngine(t *testing.T, kind models.GameKind, seed int64) *GameEngine {
	t.Helper()
	e := NewGameEngine(map[string]any{"gameKind": string(kind)}, 800, 600)
	e.SetRNG(seededRNG(seed))
	require.Equal(t, kind, e.Data().GameKind)
	return e
}

func TestGameEngine_StateMachine(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 1)

	assert.Equal(t, GameStateStart, e.State())
	assert.False(t, e.Step(16), "вне playing кадр не выполняется")

	e.Start()
	assert.Equal(t, GameStatePlaying, e.State())

	e.Pause()
	assert.Equal(t, GameStatePaused, e.State())
	assert.False(t, e.Step(32))

	e.Resume()
	assert.Equal(t, GameStatePlaying, e.State())

	// Resume вне паузы ничего не меняет
	e.Resume()
	assert.Equal(t, GameStatePlaying, e.State())

	e.Restart()
	snap := e.Snapshot()
	assert.Equal(t, GameStatePlaying, snap.State)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, startHealth, snap.Health)
}

func TestGameEngine_Determinism(t *testing.T) {
	run := func() []GameSnapshot {
		e := newTestEngine(t, models.GameKindCatch, 42)
		e.Start()

		var snaps []GameSnapshot
		for frame := 0; frame < 600; frame++ {
			now := float64(frame) * 16
			switch frame {
			case 50:
				e.KeyDown(KeyLeft)
			case 120:
				e.KeyUp(KeyLeft)
				e.KeyDown(KeyRight)
			case 200:
				e.KeyUp(KeyRight)
				e.PointerDown(1, 100, 500)
			case 320:
				e.PointerMove(1, 700, 100)
			case 450:
				e.PointerUp(1)
			}
			e.Step(now)
			snaps = append(snaps, e.Snapshot())
		}
		return snaps
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "одинаковый seed и сценарий ввода дают одинаковые кадры")
}

func TestGameEngine_SpawnTiming(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()
	rate := e.Data().Settings.SpawnRate

	e.Step(rate - 1)
	assert.Empty(t, e.Snapshot().Targets, "до истечения интервала спавна нет")

	e.Step(rate + 1)
	assert.Len(t, e.Snapshot().Targets, 1)

	e.Step(rate + 2)
	assert.Len(t, e.Snapshot().Targets, 1, "интервал отсчитывается от последнего спавна")

	e.Step(2*rate + 3)
	assert.Len(t, e.Snapshot().Targets, 2)
}

func TestGameEngine_CatchScoring(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()

	e.targets = []Target{{X: e.player.X, Y: e.player.Y - 1, Size: 30, Speed: 1, IsGood: true}}
	e.Step(1)

	snap := e.Snapshot()
	assert.Equal(t, catchPoints, snap.Score)
	assert.Empty(t, snap.Targets, "пойманная цель исчезает")
	assert.Equal(t, startHealth, snap.Health)
}

func TestGameEngine_BadTargetCostsHealth(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()

	e.targets = []Target{{X: e.player.X, Y: e.player.Y - 1, Size: 30, Speed: 1, IsGood: false}}
	e.Step(1)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, startHealth-1, snap.Health)
}

func TestGameEngine_MissedGoodTarget(t *testing.T) {
	t.Run("catch теряет здоровье", func(t *testing.T) {
		e := newTestEngine(t, models.GameKindCatch, 7)
		e.Start()
		e.targets = []Target{{X: 10, Y: e.height + 30, Size: 30, Speed: 1, IsGood: true}}
		e.Step(1)
		assert.Equal(t, startHealth-1, e.Snapshot().Health)
	})

	t.Run("shooter не штрафуется за пролетевшие цели", func(t *testing.T) {
		e := newTestEngine(t, models.GameKindShooter, 7)
		e.Start()
		e.targets = []Target{{X: 10, Y: e.height + 30, Size: 30, Speed: 1, IsGood: false}}
		e.Step(1)
		assert.Equal(t, startHealth, e.Snapshot().Health)
	})
}

func TestGameEngine_ShooterAlwaysSpawnsEnemies(t *testing.T) {
	e := newTestEngine(t, models.GameKindShooter, 7)
	e.Start()
	for i := 1; i <= 10; i++ {
		e.Step(float64(i) * (e.Data().Settings.SpawnRate + 1))
	}
	for _, target := range e.Snapshot().Targets {
		assert.False(t, target.IsGood)
	}
}

func TestGameEngine_ShooterFireCooldown(t *testing.T) {
	e := newTestEngine(t, models.GameKindShooter, 7)
	e.Start()
	e.KeyDown(KeyFire)

	e.Step(300)
	require.Len(t, e.Snapshot().Bullets, 1)

	e.Step(400)
	assert.Len(t, e.Snapshot().Bullets, 1, "в пределах 250мс повторного выстрела нет")

	e.Step(600)
	assert.Len(t, e.Snapshot().Bullets, 2)
}

func TestGameEngine_BulletHitsTarget(t *testing.T) {
	e := newTestEngine(t, models.GameKindShooter, 7)
	e.Start()

	e.bullets = []Bullet{{X: 100, Y: 100, Speed: bulletSpeed}}
	e.targets = []Target{{X: 100, Y: 100 - bulletSpeed, Size: 30, Speed: 0, IsGood: false}}
	e.Step(1)

	snap := e.Snapshot()
	assert.Equal(t, shooterHitPoints, snap.Score)
	assert.Empty(t, snap.Targets)
	assert.Empty(t, snap.Bullets, "пуля тратится на попадание")
}

func TestGameEngine_CatchIgnoresFireKey(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()
	e.KeyDown(KeyFire)
	e.Step(300)
	assert.Empty(t, e.Snapshot().Bullets)
}

func TestGameEngine_LevelUp(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()

	threshold := e.Data().Progression.LevelUpScore
	speedBefore := e.currentSpeed
	rateBefore := e.currentSpawnRate

	e.score = threshold - catchPoints
	e.awardPoints(catchPoints)

	assert.Equal(t, threshold, e.score)
	assert.Equal(t, 2, e.level)
	assert.Equal(t, speedBefore+e.Data().Settings.SpeedIncrement, e.currentSpeed)
	assert.Equal(t, rateBefore-e.Data().Settings.SpawnRateIncrement, e.currentSpawnRate)
}

func TestGameEngine_LevelCapAndSpawnRateFloor(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()

	threshold := e.Data().Progression.LevelUpScore
	maxLevel := e.Data().Progression.MaxLevel
	for i := 0; i < 100; i++ {
		e.score = threshold*(i+1) - catchPoints
		e.awardPoints(catchPoints)
	}

	assert.Equal(t, maxLevel, e.level, "уровень не превышает максимум")
	assert.GreaterOrEqual(t, e.currentSpawnRate, float64(minSpawnRateMs), "интервал спавна не опускается ниже 400мс")
}

func TestGameEngine_GameOverExactlyOnce(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()
	e.health = 1

	e.targets = []Target{{X: e.player.X, Y: e.player.Y - 1, Size: 30, Speed: 1, IsGood: false}}
	assert.False(t, e.Step(1), "после gameover цикл не перепланируется")
	assert.Equal(t, GameStateGameOver, e.State())
	assert.Equal(t, 0, e.Snapshot().Health)

	// Повторные события не двигают автомат и не меняют счет
	e.loseHealth()
	e.awardPoints(catchPoints)
	assert.Equal(t, GameStateGameOver, e.State())
	assert.Equal(t, 0, e.Snapshot().Health)
	assert.Equal(t, 0, e.Snapshot().Score)

	e.Restart()
	assert.Equal(t, GameStatePlaying, e.State())
	assert.Equal(t, startHealth, e.Snapshot().Health)
}

func TestGameEngine_PointerOverridesKeys(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()

	e.KeyDown(KeyLeft)
	e.PointerDown(1, e.player.X+200, e.player.Y)
	x := e.player.X
	e.Step(1)
	assert.Greater(t, e.player.X, x, "указатель перекрывает клавиатуру")

	// В мертвой зоне указатель не двигает игрока
	e.PointerMove(1, e.player.X+pointerDeadZone/2, e.player.Y)
	e.KeyUp(KeyLeft)
	x = e.player.X
	e.Step(2)
	assert.Equal(t, x, e.player.X)
}

func TestGameEngine_PlayerClampedToField(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()
	e.KeyDown(KeyLeft)
	e.KeyDown(KeyUp)
	for i := 0; i < 1000; i++ {
		e.Step(float64(i))
	}
	assert.GreaterOrEqual(t, e.player.X, e.player.Size)
	assert.GreaterOrEqual(t, e.player.Y, e.player.Size)
}

func TestGameEngine_ResetReplacesData(t *testing.T) {
	e := newTestEngine(t, models.GameKindCatch, 7)
	e.Start()
	e.score = 50

	e.Reset(map[string]any{"gameKind": "space"})

	assert.Equal(t, GameStateStart, e.State())
	assert.Equal(t, models.GameKindSpace, e.Data().GameKind)
	assert.Equal(t, 0, e.Snapshot().Score)
	assert.Empty(t, e.Snapshot().Targets)
}
