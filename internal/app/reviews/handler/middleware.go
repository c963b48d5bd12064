package handler

import (
	"net/http"
	"strconv"
	"strings"

	"meadowberries/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const defaultStoreID = int64(1)

// JWTClaims структура claims для JWT токена
// Токены выпускает Auth Service; is_customer отличает покупателя от служебных учёток
type JWTClaims struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	IsCustomer bool   `json:"is_customer"`
	StoreID    int64  `json:"store_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware разбирает JWT токен и кладёт сессию в контекст Gin
type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Session строит сессию запроса из JWT токена
// Запрос без заголовка Authorization проходит дальше с гостевой сессией:
// проверку авторизации выполняет сам use case, чтобы отдать клиенту
// доменную ошибку, а не транспортную. Невалидный токен отклоняется здесь
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("session", guestSession(c))
			c.Next()
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		storeID := claims.StoreID
		if storeID == 0 {
			storeID = defaultStoreID
		}

		session := &entity.Session{
			IsCustomer: claims.IsCustomer,
			StoreID:    storeID,
		}
		if claims.IsCustomer {
			customerID := claims.CustomerID
			session.CustomerID = &customerID
		}

		c.Set("session", session)
		c.Next()
	}
}

// guestSession сессия неаутентифицированного запроса
// Витрина берётся из заголовка X-Store-Id, иначе витрина по умолчанию
func guestSession(c *gin.Context) *entity.Session {
	storeID := defaultStoreID
	if header := c.GetHeader("X-Store-Id"); header != "" {
		if parsed, err := strconv.ParseInt(header, 10, 64); err == nil && parsed > 0 {
			storeID = parsed
		}
	}

	return &entity.Session{
		IsCustomer: false,
		StoreID:    storeID,
	}
}
