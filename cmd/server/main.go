package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"creation-server/internal/config"
	"creation-server/internal/database"
	"creation-server/internal/handler"
	"creation-server/internal/logger"
	"creation-server/internal/messaging"
	"creation-server/internal/middleware"
	"creation-server/internal/repository"
	"creation-server/internal/service"
	"creation-server/internal/websocket"
	"creation-server/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env не загружен: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: "json"})
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	zap.L().Info("Логгер инициализирован", zap.String("logLevel", cfg.LogLevel))

	// --- Внешние подключения ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgPool, err := setupPostgres(ctx, cfg, log)
	if err != nil {
		zap.L().Fatal("Ошибка подключения к PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if err := database.ApplyMigrations(pgPool, log); err != nil {
		zap.L().Fatal("Ошибка применения миграций", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zap.L().Fatal("Ошибка подключения к Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zap.L().Info("Подключение к Redis установлено")

	mqConn, err := connectRabbitMQ(cfg.RabbitMQURL, log)
	if err != nil {
		zap.L().Fatal("Ошибка подключения к RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()
	zap.L().Info("Подключение к RabbitMQ установлено")

	// --- Сборка зависимостей ---
	creationRepo := repository.NewPgCreationRepository(pgPool, log)
	profileRepo := repository.NewPgProfileRepository(pgPool, log)
	downloadCache := repository.NewRedisDownloadCache(redisClient, log)

	taskPub, err := messaging.NewRabbitMQTaskPublisher(mqConn, log)
	if err != nil {
		zap.L().Fatal("Ошибка создания паблишера задач", zap.Error(err))
	}
	clientPub, err := messaging.NewRabbitMQClientUpdatePublisher(mqConn, log)
	if err != nil {
		zap.L().Fatal("Ошибка создания паблишера клиентских событий", zap.Error(err))
	}

	creationSvc := service.NewCreationService(
		creationRepo, profileRepo, downloadCache, taskPub,
		cfg.ShareOrigin, cfg.ShareHashRouting, log,
	)

	generationWorker := worker.NewGenerationWorker(creationRepo, clientPub, log)
	taskConsumer := messaging.NewGenerationTaskConsumer(mqConn, generationWorker, log)
	if err := taskConsumer.StartConsuming(ctx); err != nil {
		zap.L().Fatal("Ошибка запуска консьюмера задач", zap.Error(err))
	}

	verifier, err := middleware.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		zap.L().Fatal("Ошибка создания JWT-верификатора", zap.Error(err))
	}

	hub := websocket.NewHub(log)
	wsHandler := websocket.NewHandler(hub, verifier, log)
	updateConsumer := websocket.NewUpdateConsumer(mqConn, hub, log)
	if err := updateConsumer.StartConsuming(ctx); err != nil {
		zap.L().Fatal("Ошибка запуска консьюмера клиентских событий", zap.Error(err))
	}

	// --- HTTP сервер (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Генерация и выгрузки дороже обычного CRUD, общий лимит по IP прижимает
	// перебор промптов.
	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       60,
	})
	rateLimit := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Превышен лимит запросов",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
	router.Use(rateLimit)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	creationHandler := handler.NewCreationHandler(creationSvc, log)
	creationHandler.RegisterRoutes(router, verifier, wsHandler)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zap.L().Info("HTTP сервер запускается", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Ошибка HTTP сервера", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Остановка сервера...")

	// Отмена контекста останавливает консьюмеры задач и событий.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Принудительная остановка HTTP сервера", zap.Error(err))
	}

	zap.L().Info("Сервер остановлен")
}

// setupPostgres создает пул соединений с повторными попытками: при старте
// в docker-compose база может подниматься дольше сервера.
func setupPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации postgres: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	const maxRetries = 30
	const retryDelay = 3 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
		connectCancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			err = pool.Ping(pingCtx)
			pingCancel()
			if err == nil {
				log.Info("Подключение к PostgreSQL установлено", zap.Int("attempt", attempt))
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		log.Warn("PostgreSQL недоступен, повтор",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("PostgreSQL недоступен после %d попыток: %w", maxRetries, lastErr)
}

// connectRabbitMQ подключается к RabbitMQ с повторными попытками.
func connectRabbitMQ(url string, log *zap.Logger) (*amqp.Connection, error) {
	const maxRetries = 30
	const retryDelay = 5 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		log.Warn("RabbitMQ недоступен, повтор",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("RabbitMQ недоступен после %d попыток: %w", maxRetries, lastErr)
}
