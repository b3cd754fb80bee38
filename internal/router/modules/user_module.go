package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/captionly/captionly/internal/container"
	handlers "github.com/captionly/captionly/internal/interface/http"
	"github.com/captionly/captionly/internal/interface/middleware"
	"github.com/captionly/captionly/pkg/helpers"
)

// UserModule registers the authenticated profile endpoints.
// Protected: GET /api/profile, PUT /api/profile, POST /api/profile/avatar

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
