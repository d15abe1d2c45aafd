package export

import (
	"encoding/json"
	"fmt"

	"creation-server/internal/generation"
	"creation-server/internal/models"
)

// gameExport нормализует данные игры и собирает скрипт цикла с
// встроенной конфигурацией.
func gameExport(raw json.RawMessage) (models.GameData, string, error) {
	gameData := generation.NormalizeGameDataJSON(raw)
	encoded, err := json.Marshal(gameData)
	if err != nil {
		return models.GameData{}, "", fmt.Errorf("не удалось сериализовать данные игры: %w", err)
	}
	return gameData, fmt.Sprintf(gameRuntimeScript, encoded), nil
}

func gameBody(gameData models.GameData) string {
	healthSpan := ""
	if gameData.HUD.HealthLabel != "" {
		healthSpan = fmt.Sprintf(`<span>%s: <strong id="health">3</strong></span>`, escape(gameData.HUD.HealthLabel))
	}

	return fmt.Sprintf(`
    <div class="game-container">
      <div class="game-header">
        <h1 class="game-title">%s</h1>
        <div class="game-hud">
          <span>%s: <strong id="score">0</strong></span>
          <span>%s: <strong id="level">1</strong></span>
          %s
        </div>
      </div>

      <div class="canvas-container">
        <canvas id="gameCanvas" width="800" height="600"></canvas>

        <div id="startOverlay" class="overlay">
          <div class="overlay-content">
            <h2 class="overlay-title">%s</h2>
            <p class="overlay-text">%s</p>
            <button id="startBtn" class="game-btn game-btn-primary">&#9654; Start Game</button>
          </div>
        </div>

        <div id="pausedOverlay" class="overlay" style="display: none;">
          <div class="overlay-content">
            <h2 class="overlay-title">Paused</h2>
            <div style="display: flex; gap: 12px; justify-content: center;">
              <button id="resumeBtn" class="game-btn game-btn-primary">&#9654; Resume</button>
              <button id="restartBtn" class="game-btn game-btn-secondary">&#8635; Restart</button>
            </div>
          </div>
        </div>

        <div id="gameoverOverlay" class="overlay" style="display: none;">
          <div class="overlay-content">
            <h2 class="overlay-title" style="color: oklch(0.50 0.20 0);">Game Over</h2>
            <div style="margin: 16px 0;">
              <p class="overlay-score">Final Score: <span id="finalScore">0</span></p>
              <p class="overlay-score">Level: <span id="finalLevel">1</span></p>
            </div>
            <button id="restartBtn2" class="game-btn game-btn-primary">&#8635; Play Again</button>
          </div>
        </div>
      </div>

      <div class="game-controls" style="display: none;" id="gameControls">
        <button id="pauseBtn" class="game-btn game-btn-secondary">&#9208; Pause</button>
      </div>

      <p class="game-instructions">%s</p>
    </div>`,
		escape(gameData.Title),
		escape(gameData.HUD.ScoreLabel),
		escape(gameData.HUD.LevelLabel),
		healthSpan,
		escape(gameData.Title),
		escape(gameData.Instructions),
		escape(gameData.Instructions))
}

const gameStyles = `
    .game-container {
      max-width: 800px;
      margin: 40px auto;
      padding: 24px;
      background: white;
      border-radius: 16px;
      box-shadow: 0 4px 16px rgba(0,0,0,0.1);
    }
    .game-header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      margin-bottom: 16px;
      flex-wrap: wrap;
      gap: 12px;
    }
    .game-title {
      font-size: 24px;
      font-weight: 700;
      color: oklch(0.25 0.02 264);
    }
    .game-hud {
      display: flex;
      gap: 16px;
      font-size: 14px;
      font-weight: 600;
    }
    .canvas-container {
      position: relative;
      width: 100%;
    }
    #gameCanvas {
      width: 100%;
      height: auto;
      max-height: 600px;
      border: 2px solid oklch(0.85 0.01 264);
      border-radius: 12px;
      background: oklch(0.96 0.005 264);
      display: block;
      touch-action: none;
    }
    .overlay {
      position: absolute;
      inset: 0;
      display: flex;
      align-items: center;
      justify-content: center;
      background: rgba(255, 255, 255, 0.95);
      border-radius: 12px;
    }
    .overlay-content {
      text-align: center;
      padding: 32px;
      max-width: 400px;
    }
    .overlay-title {
      font-size: 32px;
      font-weight: 700;
      margin-bottom: 16px;
      color: oklch(0.25 0.02 264);
    }
    .overlay-text {
      font-size: 16px;
      color: oklch(0.45 0.02 264);
      margin-bottom: 24px;
      line-height: 1.6;
    }
    .overlay-score {
      font-size: 20px;
      font-weight: 600;
      margin-bottom: 8px;
    }
    .game-controls {
      display: flex;
      gap: 12px;
      margin-top: 16px;
    }
    .game-btn {
      padding: 12px 24px;
      font-size: 16px;
      font-weight: 600;
      border-radius: 8px;
      cursor: pointer;
      border: none;
      transition: all 0.2s;
      display: inline-flex;
      align-items: center;
      gap: 8px;
    }
    .game-btn-primary {
      background: oklch(0.55 0.15 264);
      color: white;
    }
    .game-btn-primary:hover {
      background: oklch(0.50 0.15 264);
    }
    .game-btn-secondary {
      background: oklch(0.96 0.005 264);
      color: oklch(0.25 0.02 264);
      border: 1px solid oklch(0.85 0.01 264);
    }
    .game-btn-secondary:hover {
      background: oklch(0.92 0.01 264);
    }
    .game-btn:active {
      transform: scale(0.98);
    }
    .game-instructions {
      text-align: center;
      margin-top: 16px;
      font-size: 14px;
      color: oklch(0.45 0.02 264);
    }
    @media (max-width: 640px) {
      .game-container {
        margin: 20px auto;
        padding: 16px;
      }
      .game-title {
        font-size: 20px;
      }
      .overlay-title {
        font-size: 24px;
      }
    }`

// Полный игровой цикл для автономного документа: спавн по интервалу,
// управление клавиатурой и указателем, коллизии окружностями, прогрессия
// уровней и оверлеи состояний. Конфигурация подставляется JSON-ом.
const gameRuntimeScript = `
    const gameData = %s;
    const canvas = document.getElementById('gameCanvas');
    const ctx = canvas.getContext('2d');

    let gameState = 'start';
    let score = 0;
    let level = 1;
    let health = 3;

    const isShooter = gameData.gameKind === 'shooter';

    const state = {
      player: { x: 0, y: 0, size: gameData.settings.playerSize, vx: 0, vy: 0 },
      targets: [],
      bullets: [],
      keys: new Set(),
      touches: new Map(),
      lastSpawn: 0,
      lastShot: 0,
      currentSpeed: gameData.settings.initialSpeed,
      currentSpawnRate: gameData.settings.spawnRate,
      animationId: null,
    };

    function initGame() {
      state.player = {
        x: canvas.width / 2,
        y: canvas.height - 60,
        size: gameData.settings.playerSize,
        vx: 0,
        vy: 0,
      };
      state.targets = [];
      state.bullets = [];
      state.keys.clear();
      state.touches.clear();
      state.lastSpawn = 0;
      state.lastShot = 0;
      state.currentSpeed = gameData.settings.initialSpeed;
      state.currentSpawnRate = gameData.settings.spawnRate;
      score = 0;
      level = 1;
      health = 3;
      updateHUD();
    }

    function updateHUD() {
      document.getElementById('score').textContent = score;
      document.getElementById('level').textContent = level;
      if (gameData.hud.healthLabel) {
        document.getElementById('health').textContent = health;
      }
    }

    function showOverlay(type) {
      document.getElementById('startOverlay').style.display = type === 'start' ? 'flex' : 'none';
      document.getElementById('pausedOverlay').style.display = type === 'paused' ? 'flex' : 'none';
      document.getElementById('gameoverOverlay').style.display = type === 'gameover' ? 'flex' : 'none';
    }

    function startGame() {
      initGame();
      gameState = 'playing';
      showOverlay('none');
      gameLoop(performance.now());
    }

    function pauseGame() {
      gameState = 'paused';
      showOverlay('paused');
      if (state.animationId) cancelAnimationFrame(state.animationId);
    }

    function resumeGame() {
      gameState = 'playing';
      showOverlay('none');
      gameLoop(performance.now());
    }

    function restartGame() {
      startGame();
    }

    function spawnTarget() {
      const isGood = isShooter ? false : Math.random() > 0.3;
      state.targets.push({
        x: Math.random() * (canvas.width - gameData.settings.targetSize),
        y: -gameData.settings.targetSize,
        size: gameData.settings.targetSize,
        speed: state.currentSpeed,
        isGood,
      });
    }

    function updatePlayer(timestamp) {
      const speed = 5;

      if (state.keys.has('ArrowLeft')) state.player.vx = -speed;
      else if (state.keys.has('ArrowRight')) state.player.vx = speed;
      else state.player.vx = 0;

      if (state.keys.has('ArrowUp')) state.player.vy = -speed;
      else if (state.keys.has('ArrowDown')) state.player.vy = speed;
      else state.player.vy = 0;

      if (isShooter && state.keys.has(' ') && timestamp - state.lastShot > 250) {
        state.bullets.push({ x: state.player.x, y: state.player.y - state.player.size, speed: 8 });
        state.lastShot = timestamp;
      }

      if (state.touches.size > 0) {
        const touch = Array.from(state.touches.values())[0];
        const dx = touch.x - state.player.x;
        const dy = touch.y - state.player.y;
        const dist = Math.sqrt(dx * dx + dy * dy);

        if (dist > 10) {
          state.player.vx = (dx / dist) * speed;
          state.player.vy = (dy / dist) * speed;
        }
      }

      state.player.x += state.player.vx;
      state.player.y += state.player.vy;

      state.player.x = Math.max(state.player.size, Math.min(canvas.width - state.player.size, state.player.x));
      state.player.y = Math.max(state.player.size, Math.min(canvas.height - state.player.size, state.player.y));
    }

    function checkCollision(obj1, obj2) {
      const dx = obj1.x - obj2.x;
      const dy = obj1.y - obj2.y;
      const distance = Math.sqrt(dx * dx + dy * dy);
      return distance < (obj1.size + obj2.size) / 2;
    }

    function levelUp() {
      if (score > 0 && score %% gameData.progression.levelUpScore === 0) {
        level = Math.min(level + 1, gameData.progression.maxLevel);
        state.currentSpeed += gameData.settings.speedIncrement;
        state.currentSpawnRate = Math.max(400, state.currentSpawnRate - gameData.settings.spawnRateIncrement);
      }
    }

    function gameOver() {
      gameState = 'gameover';
      document.getElementById('finalScore').textContent = score;
      document.getElementById('finalLevel').textContent = level;
      showOverlay('gameover');
    }

    function gameLoop(timestamp) {
      if (gameState !== 'playing') return;

      if (timestamp - state.lastSpawn > state.currentSpawnRate) {
        spawnTarget();
        state.lastSpawn = timestamp;
      }

      updatePlayer(timestamp);

      if (isShooter) {
        state.bullets = state.bullets.filter((bullet) => {
          bullet.y -= bullet.speed;
          for (let i = state.targets.length - 1; i >= 0; i--) {
            const t = state.targets[i];
            const dx = bullet.x - t.x;
            const dy = bullet.y - t.y;
            if (Math.sqrt(dx * dx + dy * dy) < t.size / 2 + 3) {
              state.targets.splice(i, 1);
              score += 20;
              levelUp();
              updateHUD();
              return false;
            }
          }
          return bullet.y > 0;
        });
      }

      let missedGood = false;
      state.targets = state.targets.filter((target) => {
        if (gameState !== 'playing') return true;
        target.y += target.speed;

        if (checkCollision(state.player, target)) {
          if (!isShooter && target.isGood) {
            score += 10;
            levelUp();
            updateHUD();
          } else {
            health--;
            updateHUD();
            if (health <= 0) {
              gameOver();
              return false;
            }
          }
          return false;
        }

        if (target.y > canvas.height + target.size) {
          if (!isShooter && target.isGood) missedGood = true;
          return false;
        }

        return true;
      });

      if (missedGood && gameState === 'playing') {
        health--;
        updateHUD();
        if (health <= 0) {
          gameOver();
          return;
        }
      }

      if (gameState !== 'playing') return;

      ctx.fillStyle = gameData.theme.background;
      ctx.fillRect(0, 0, canvas.width, canvas.height);

      ctx.fillStyle = gameData.theme.player;
      ctx.beginPath();
      if (isShooter) {
        ctx.moveTo(state.player.x, state.player.y - state.player.size);
        ctx.lineTo(state.player.x - state.player.size, state.player.y + state.player.size);
        ctx.lineTo(state.player.x + state.player.size, state.player.y + state.player.size);
        ctx.closePath();
      } else {
        ctx.arc(state.player.x, state.player.y, state.player.size, 0, Math.PI * 2);
      }
      ctx.fill();

      if (isShooter) {
        ctx.fillStyle = gameData.theme.primary;
        state.bullets.forEach((bullet) => {
          ctx.beginPath();
          ctx.arc(bullet.x, bullet.y, 3, 0, Math.PI * 2);
          ctx.fill();
        });
      }

      state.targets.forEach((target) => {
        ctx.fillStyle = target.isGood ? gameData.theme.target : gameData.theme.secondary;
        ctx.beginPath();
        ctx.arc(target.x, target.y, target.size / 2, 0, Math.PI * 2);
        ctx.fill();
      });

      state.animationId = requestAnimationFrame(gameLoop);
    }

    window.addEventListener('keydown', (e) => {
      if (['ArrowUp', 'ArrowDown', 'ArrowLeft', 'ArrowRight', ' '].includes(e.key)) {
        e.preventDefault();
        state.keys.add(e.key);
      }
      if (e.key === 'Escape' && gameState === 'playing') {
        pauseGame();
      }
    });

    window.addEventListener('keyup', (e) => {
      state.keys.delete(e.key);
    });

    canvas.addEventListener('pointerdown', (e) => {
      e.preventDefault();
      const rect = canvas.getBoundingClientRect();
      const x = ((e.clientX - rect.left) / rect.width) * canvas.width;
      const y = ((e.clientY - rect.top) / rect.height) * canvas.height;
      state.touches.set(e.pointerId, { x, y });
    });

    canvas.addEventListener('pointermove', (e) => {
      if (state.touches.has(e.pointerId)) {
        const rect = canvas.getBoundingClientRect();
        const x = ((e.clientX - rect.left) / rect.width) * canvas.width;
        const y = ((e.clientY - rect.top) / rect.height) * canvas.height;
        state.touches.set(e.pointerId, { x, y });
      }
    });

    canvas.addEventListener('pointerup', (e) => {
      state.touches.delete(e.pointerId);
    });

    canvas.addEventListener('pointercancel', (e) => {
      state.touches.delete(e.pointerId);
    });

    document.getElementById('startBtn').addEventListener('click', startGame);
    document.getElementById('pauseBtn').addEventListener('click', pauseGame);
    document.getElementById('resumeBtn').addEventListener('click', resumeGame);
    document.getElementById('restartBtn').addEventListener('click', restartGame);
    document.getElementById('restartBtn2').addEventListener('click', restartGame);

    showOverlay('start');`
