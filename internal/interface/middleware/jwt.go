package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/captionly/captionly/pkg/helpers"
	"github.com/captionly/captionly/pkg/response"
)

const CtxUserIDKey = "userID"

// JWTAuth gates protected routes behind a bearer token. The token is read
// from the Authorization header, verified, and the embedded user id is
// injected into the Gin context. Every verification failure collapses into
// the same unauthorized response; the reason is not surfaced to the client.
func JWTAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, no token", nil)
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, token failed", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
