// Package middleware содержит gin-middleware: аутентификацию и границу
// восстановления после паник.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserIDKey - ключ принципала пользователя в gin-контексте.
const UserIDKey = "user_id"

// JWTVerifier проверяет пользовательские HMAC-токены.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier создает верификатор с заданным секретом.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT секрет не задан")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// VerifyToken проверяет подпись и срок токена, возвращает принципала из sub.
func (v *JWTVerifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("ошибка разбора токена: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("невалидный токен")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("в токене отсутствует sub")
	}
	return sub, nil
}

// RequireAuth пропускает только запросы с валидным bearer-токеном и кладет
// принципала в контекст.
func RequireAuth(verifier *JWTVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := principalFromHeader(c, verifier)
		if err != nil {
			logger.Warn("Отказ в доступе", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth кладет принципала в контекст, если токен есть и валиден.
// Запрос без токена проходит как анонимный: read-эндпоинты отвечают на него
// пустым результатом, а не ошибкой.
func OptionalAuth(verifier *JWTVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(UserIDKey, "")
			c.Next()
			return
		}
		userID, err := principalFromHeader(c, verifier)
		if err != nil {
			logger.Debug("Токен не прошел проверку, запрос анонимный", zap.Error(err))
			userID = ""
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func principalFromHeader(c *gin.Context, verifier *JWTVerifier) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("отсутствует заголовок Authorization")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("некорректный формат заголовка Authorization")
	}
	return verifier.VerifyToken(parts[1])
}

// UserID извлекает принципала из gin-контекста. Пустая строка - аноним.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
