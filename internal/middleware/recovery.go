package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery перехватывает паники обработчиков и подменяет ответ
// восстановительным сообщением. Одна упавшая отрисовка не должна ронять
// процесс: клиент получает предложение вернуться в безопасное состояние.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("Recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Паника в обработчике",
					zap.String("path", c.FullPath()),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message":   "Something went wrong. Return to your creations or reload the page.",
					"recovered": true,
				})
			}
		}()
		c.Next()
	}
}
