package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/captionly/captionly/internal/container"
	handlers "github.com/captionly/captionly/internal/interface/http"
	"github.com/captionly/captionly/internal/interface/middleware"
	"github.com/captionly/captionly/pkg/helpers"
)

// CaptionModule registers the authenticated caption endpoints.
// Protected: POST /api/captions/generate, GET /api/captions,
// GET /api/captions/search, DELETE /api/captions/:id

type CaptionModule struct {
	Handler *handlers.CaptionHandler
	JWT     *helpers.JWTManager
}

func NewCaptionModule(h *handlers.CaptionHandler, jwt *helpers.JWTManager) *CaptionModule {
	return &CaptionModule{Handler: h, JWT: jwt}
}

func (m *CaptionModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)

	// Generation hits the upstream model, keep a tighter per-user limit on it
	generateLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.POST("/captions/generate", generateLimiter, m.Handler.Generate)
		auth.GET("/captions", m.Handler.List)
		auth.GET("/captions/search", m.Handler.Search)
		auth.GET("/captions/:id", m.Handler.Get)
		auth.DELETE("/captions/:id", m.Handler.Delete)
	}
}
