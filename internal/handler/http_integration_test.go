package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"creation-server/internal/database"
	"creation-server/internal/generation"
	"creation-server/internal/handler"
	"creation-server/internal/messaging"
	"creation-server/internal/middleware"
	"creation-server/internal/models"
	"creation-server/internal/repository"
	"creation-server/internal/service"
	"creation-server/internal/websocket"
)

const (
	jwtTestSecret   = "test-secret-for-integration"
	testShareOrigin = "http://localhost:5173"
)

// IntegrationTestSuite поднимает Postgres, RabbitMQ и Redis в контейнерах
// и прогоняет HTTP API против реальных зависимостей.
type IntegrationTestSuite struct {
	suite.Suite
	pgContainer    *postgres.PostgresContainer
	rmqContainer   *rabbitmq.RabbitMQContainer
	redisContainer *tcredis.RedisContainer
	dbPool         *pgxpool.Pool
	rabbitConn     *amqp.Connection
	redisClient    *goredis.Client
	serviceURL     string
	testServer     *httptest.Server
	taskMessages   chan amqp.Delivery
	stopConsumer   chan struct{}
	consumerReady  chan struct{}
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.taskMessages = make(chan amqp.Delivery, 20)
	s.stopConsumer = make(chan struct{})
	s.consumerReady = make(chan struct{})

	// --- Запуск Postgres ---
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err)
	s.pgContainer = pgContainer
	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	// --- Запуск RabbitMQ ---
	rmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete"),
		),
	)
	require.NoError(s.T(), err)
	s.rmqContainer = rmqContainer
	rmqConnStr, err := rmqContainer.AmqpURL(ctx)
	require.NoError(s.T(), err)

	// --- Запуск Redis ---
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(s.T(), err)
	s.redisContainer = redisContainer
	redisConnStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(s.T(), err)
	redisOpts, err := goredis.ParseURL(redisConnStr)
	require.NoError(s.T(), err)
	s.redisClient = goredis.NewClient(redisOpts)

	// --- Подключение к БД и миграции ---
	dbPool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(s.T(), err)
	s.dbPool = dbPool

	nopLogger := zap.NewNop()
	require.NoError(s.T(), database.ApplyMigrations(dbPool, nopLogger))

	// --- Подключение к RabbitMQ ---
	rabbitConn, err := amqp.Dial(rmqConnStr)
	require.NoError(s.T(), err)
	s.rabbitConn = rabbitConn

	// --- Тестовый консьюмер очереди задач ---
	go s.runTestTaskConsumer(rmqConnStr, messaging.GenerationTaskQueue)
	select {
	case <-s.consumerReady:
	case <-time.After(15 * time.Second):
		s.T().Fatal("тестовый консьюмер очереди задач не запустился")
	}

	// --- Сборка приложения на реальных зависимостях ---
	creationRepo := repository.NewPgCreationRepository(dbPool, nopLogger)
	profileRepo := repository.NewPgProfileRepository(dbPool, nopLogger)
	downloadCache := repository.NewRedisDownloadCache(s.redisClient, nopLogger)

	taskPub, err := messaging.NewRabbitMQTaskPublisher(rabbitConn, nopLogger)
	require.NoError(s.T(), err)

	creationSvc := service.NewCreationService(
		creationRepo, profileRepo, downloadCache, taskPub,
		testShareOrigin, true, nopLogger,
	)

	verifier, err := middleware.NewJWTVerifier(jwtTestSecret)
	require.NoError(s.T(), err)

	hub := websocket.NewHub(nopLogger)
	wsHandler := websocket.NewHandler(hub, verifier, nopLogger)

	gin.SetMode(gin.TestMode)
	app := gin.New()
	app.Use(middleware.Recovery(nopLogger))
	handler.NewCreationHandler(creationSvc, nopLogger).RegisterRoutes(app, verifier, wsHandler)

	s.testServer = httptest.NewServer(app)
	s.serviceURL = s.testServer.URL
	log.Printf("Test server running at: %s", s.serviceURL)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.stopConsumer != nil {
		close(s.stopConsumer)
	}
	ctx := context.Background()
	if s.testServer != nil {
		s.testServer.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.rabbitConn != nil {
		s.rabbitConn.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	for _, c := range []testcontainers.Container{s.pgContainer, s.rmqContainer, s.redisContainer} {
		if c != nil {
			require.NoError(s.T(), c.Terminate(ctx))
		}
	}
}

// runTestTaskConsumer слушает очередь задач генерации и пересылает сообщения
// в канал taskMessages. Отдельное соединение, чтобы не зависеть от основного.
func (s *IntegrationTestSuite) runTestTaskConsumer(amqpURL, queueName string) {
	defer close(s.consumerReady)

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Printf("!!! Test Consumer Error: failed to connect to RabbitMQ: %v", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("!!! Test Consumer Error: failed to open channel: %v", err)
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		log.Printf("!!! Test Consumer Error: failed to declare queue '%s': %v", queueName, err)
		return
	}

	msgs, err := ch.Consume(q.Name, "test-consumer", true, false, false, false, nil)
	if err != nil {
		log.Printf("!!! Test Consumer Error: failed to register consumer: %v", err)
		return
	}
	s.consumerReady <- struct{}{}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.taskMessages <- msg
		case <-s.stopConsumer:
			return
		}
	}
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode.")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

// --- Вспомогательные функции ---

func createTestJWT(s *IntegrationTestSuite, userID string) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(s.T(), err)
	return token
}

func (s *IntegrationTestSuite) doJSON(method, path, token string, body any) *http.Response {
	s.T().Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.serviceURL+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func decodeBody[T any](s *IntegrationTestSuite, resp *http.Response) T {
	s.T().Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func buildContent(s *IntegrationTestSuite, prompt string, typ models.CreationType) string {
	s.T().Helper()
	draft, err := generation.BuildDraft(prompt, typ, nil)
	require.NoError(s.T(), err)
	raw, err := json.Marshal(draft)
	require.NoError(s.T(), err)
	return string(raw)
}

// --- Тесты API ---

func (s *IntegrationTestSuite) TestGenerate_Integration() {
	token := createTestJWT(s, "integration-user-1")
	prompt := "Интеграционная игра про платформер"

	resp := s.doJSON(http.MethodPost, "/api/generate", token, map[string]string{
		"prompt": prompt,
		"type":   "game",
	})
	require.Equal(s.T(), http.StatusAccepted, resp.StatusCode)

	task := decodeBody[service.GenerationTask](s, resp)
	assert.NotEmpty(s.T(), task.TaskID)
	assert.NotEmpty(s.T(), task.CreationID)
	assert.Equal(s.T(), models.GenerationStatusProcessing, task.Status)

	// Задача должна оказаться в очереди RabbitMQ.
	select {
	case msg := <-s.taskMessages:
		var payload messaging.GenerationTaskPayload
		require.NoError(s.T(), json.Unmarshal(msg.Body, &payload))
		assert.Equal(s.T(), task.TaskID, payload.TaskID)
		assert.Equal(s.T(), task.CreationID, payload.CreationID)
		assert.Equal(s.T(), "integration-user-1", payload.UserID)
		assert.Equal(s.T(), models.CreationTypeGame, payload.Type)
		assert.Equal(s.T(), prompt, payload.Prompt)
	case <-time.After(10 * time.Second):
		s.T().Fatal("задача генерации не появилась в очереди")
	}
}

func (s *IntegrationTestSuite) TestCreationLifecycle_Integration() {
	token := createTestJWT(s, "integration-user-2")
	content := buildContent(s, "сайт-портфолио фотографа", models.CreationTypeWebsite)

	// Создание
	resp := s.doJSON(http.MethodPost, "/api/creations", token, map[string]string{"content": content})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Item](s, resp)
	require.NotEmpty(s.T(), created.ID)
	assert.Equal(s.T(), "integration-user-2", created.Owner)
	assert.False(s.T(), created.IsShared)

	// Чтение
	resp = s.doJSON(http.MethodGet, "/api/creations/"+created.ID, token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	got := decodeBody[models.Item](s, resp)
	assert.Equal(s.T(), content, got.Content)

	// Чужой пользователь не видит запись
	intruderToken := createTestJWT(s, "integration-intruder")
	resp = s.doJSON(http.MethodGet, "/api/creations/"+created.ID, intruderToken, nil)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	// Список владельца
	resp = s.doJSON(http.MethodGet, "/api/creations", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	list := decodeBody[[]models.Item](s, resp)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), created.ID, list[0].ID)

	// Шаринг и публичное чтение без токена
	resp = s.doJSON(http.MethodPost, "/api/creations/"+created.ID+"/share", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	share := decodeBody[map[string]string](s, resp)
	assert.Equal(s.T(), fmt.Sprintf("%s/#/shared/%s", testShareOrigin, created.ID), share["url"])

	resp = s.doJSON(http.MethodGet, "/shared/"+created.ID, "", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	shared := decodeBody[models.Item](s, resp)
	assert.True(s.T(), shared.IsShared)
	assert.Equal(s.T(), content, shared.Content)

	// Отзыв шаринга закрывает публичный доступ
	resp = s.doJSON(http.MethodDelete, "/api/creations/"+created.ID+"/share", token, nil)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodGet, "/shared/"+created.ID, "", nil)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	// Удаление
	resp = s.doJSON(http.MethodDelete, "/api/creations/"+created.ID, token, nil)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)

	resp = s.doJSON(http.MethodGet, "/api/creations/"+created.ID, token, nil)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestDownload_Integration() {
	token := createTestJWT(s, "integration-user-3")
	content := buildContent(s, "чат-бот поддержки", models.CreationTypeChatbot)

	resp := s.doJSON(http.MethodPost, "/api/creations", token, map[string]string{"content": content})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Item](s, resp)

	// Выгрузка HTML
	resp = s.doJSON(http.MethodGet, "/api/creations/"+created.ID+"/download?format=html", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(s.T(), resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(s.T(), resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(s.T(), err)
	assert.Contains(s.T(), string(body), "<!DOCTYPE html>")

	// Последняя выгрузка должна быть закеширована в Redis
	resp = s.doJSON(http.MethodGet, "/api/downloads/last", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	last := decodeBody[models.LastDownload](s, resp)
	assert.Equal(s.T(), "html", last.Format)
	assert.Contains(s.T(), last.Filename, ".html")
	assert.Contains(s.T(), last.Content, "<!DOCTYPE html>")
}

func (s *IntegrationTestSuite) TestProfile_Integration() {
	token := createTestJWT(s, "integration-user-4")

	// Профиля еще нет
	resp := s.doJSON(http.MethodGet, "/api/profile", token, nil)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	// Сохранение и чтение
	resp = s.doJSON(http.MethodPut, "/api/profile", token, map[string]string{"name": "Интеграционный Пользователь"})
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodGet, "/api/profile", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	profile := decodeBody[models.UserProfile](s, resp)
	assert.Equal(s.T(), "integration-user-4", profile.Principal)
	assert.Equal(s.T(), "Интеграционный Пользователь", profile.Name)
}
