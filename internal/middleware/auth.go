package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

const (
	ContextUserID       = "userID"
	ContextBarbershopID = "barbershopID"
	ContextUserRole     = "userRole"
	ContextToken        = "token"
)

// AuthMiddleware valida o JWT emitido pela plataforma. O claim shopId é
// opcional: dono recém-cadastrado ainda não tem shop.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// navegador não manda header no upgrade de websocket
		if authHeader == "" && strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			if t := c.Query("access_token"); t != "" {
				authHeader = "Bearer " + t
			}
		}
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_payload"})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)
		c.Set(ContextToken, tokenString)
		if shopID, ok := claims["shopId"].(float64); ok && shopID > 0 {
			c.Set(ContextBarbershopID, uint(shopID))
		}

		c.Next()
	}
}

func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func Roles(c *gin.Context) barbershop.RoleSet {
	return barbershop.ParseRoles(c.GetString(ContextUserRole))
}

// BarbershopID devolve o shop do token, se houver.
func BarbershopID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextBarbershopID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func Token(c *gin.Context) string {
	return c.GetString(ContextToken)
}
