// Package handler содержит HTTP API creation-server поверх gin.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"creation-server/internal/export"
	"creation-server/internal/middleware"
	"creation-server/internal/models"
	"creation-server/internal/service"
	"creation-server/internal/websocket"
)

// APIError - стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// CreationHandler обрабатывает HTTP-запросы к creations.
type CreationHandler struct {
	service service.CreationService
	logger  *zap.Logger
}

// NewCreationHandler создает CreationHandler.
func NewCreationHandler(s service.CreationService, logger *zap.Logger) *CreationHandler {
	return &CreationHandler{
		service: s,
		logger:  logger.Named("CreationHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API.
func (h *CreationHandler) RegisterRoutes(r *gin.Engine, verifier *middleware.JWTVerifier, wsHandler *websocket.Handler) {
	requireAuth := middleware.RequireAuth(verifier, h.logger)
	optionalAuth := middleware.OptionalAuth(verifier, h.logger)

	api := r.Group("/api")
	{
		api.POST("/generate", requireAuth, h.generate)
		api.POST("/preview", optionalAuth, h.preview)

		api.GET("/creations", optionalAuth, h.list)
		api.POST("/creations", requireAuth, h.create)
		api.GET("/creations/:id", optionalAuth, h.get)
		api.PUT("/creations/:id", requireAuth, h.update)
		api.DELETE("/creations/:id", requireAuth, h.delete)

		api.POST("/creations/:id/share", requireAuth, h.share)
		api.DELETE("/creations/:id/share", requireAuth, h.unshare)
		api.GET("/creations/:id/download", requireAuth, h.download)
		api.GET("/downloads/last", optionalAuth, h.lastDownload)

		api.GET("/profile", optionalAuth, h.profile)
		api.PUT("/profile", requireAuth, h.saveProfile)
	}

	// Публичный просмотр расшаренной creation, авторизация не нужна.
	r.GET("/shared/:id", h.getShared)

	r.GET("/ws", gin.WrapF(wsHandler.ServeWS))
}

// generate ставит задачу генерации в очередь.
func (h *CreationHandler) generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
		return
	}

	task, err := h.service.EnqueueGeneration(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, task)
}

// preview синхронно собирает standalone HTML по переданному драфту, не
// сохраняя его. Паники отрисовки перехватывает recovery-граница.
func (h *CreationHandler) preview(c *gin.Context) {
	var draft models.CreationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
		return
	}

	html, err := export.ExportHTML(draft)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *CreationHandler) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

type createRequest struct {
	Content string `json:"content"`
}

func (h *CreationHandler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
		return
	}

	item, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CreationHandler) get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	// Анонимный запрос: null вместо ошибки, фронтенд показывает login-гейт.
	c.JSON(http.StatusOK, item)
}

func (h *CreationHandler) update(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
		return
	}

	item, err := h.service.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CreationHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CreationHandler) share(c *gin.Context) {
	url, err := h.service.Share(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *CreationHandler) unshare(c *gin.Context) {
	if err := h.service.Unshare(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CreationHandler) getShared(c *gin.Context) {
	item, err := h.service.GetShared(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// download отдает артефакт выгрузки как attachment.
func (h *CreationHandler) download(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatHTML)))
	if !format.IsValid() {
		c.JSON(http.StatusBadRequest, APIError{Message: "Unknown download format"})
		return
	}
	download, err := h.service.Download(c.Request.Context(), middleware.UserID(c), c.Param("id"), format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Data(http.StatusOK, format.ContentType(), []byte(download.Content))
}

func (h *CreationHandler) lastDownload(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, nil)
		return
	}
	download, err := h.service.LastDownload(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, download)
}

func (h *CreationHandler) profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileRequest struct {
	Name string `json:"name"`
}

func (h *CreationHandler) saveProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
		return
	}

	profile, err := h.service.SaveProfile(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// handleServiceError маппит доменные ошибки на HTTP-статусы с коротким
// нормализованным сообщением.
func (h *CreationHandler) handleServiceError(c *gin.Context, err error) {
	var status int
	var apiErr APIError

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
		apiErr = APIError{Message: "Please sign in to continue"}
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		apiErr = APIError{Message: "Creation not found or access denied"}
	case errors.Is(err, models.ErrProfileMissing):
		status = http.StatusNotFound
		apiErr = APIError{Message: "Profile not found"}
	case errors.Is(err, models.ErrCorruptedData):
		status = http.StatusUnprocessableEntity
		apiErr = APIError{Message: "This creation's data is corrupted and cannot be opened"}
	case errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrUnknownType),
		errors.Is(err, service.ErrEmptyPrompt):
		status = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrAlreadyExists):
		status = http.StatusConflict
		apiErr = APIError{Message: "Creation already exists"}
	default:
		h.logger.Error("Внутренняя ошибка обработчика", zap.String("path", c.FullPath()), zap.Error(err))
		status = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	c.AbortWithStatusJSON(status, apiErr)
}
