package router

import (
	"github.com/captionly/captionly/internal/application"
	"github.com/captionly/captionly/internal/container"
	pginfra "github.com/captionly/captionly/internal/infrastructure/postgres"
	handlers "github.com/captionly/captionly/internal/interface/http"
	"github.com/captionly/captionly/internal/router/modules"
)

func buildUserService() *application.UserService {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	cfg := container.GetConfig()

	return application.NewUserService(
		repo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
		container.GetLogger(),
	)
}

func buildCaptionService() *application.CaptionService {
	repo := pginfra.NewCaptionRepository(container.GetPGPool())
	cfg := container.GetConfig()

	return application.NewCaptionService(
		repo,
		container.GetGemini(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESCaptionsIndex,
	)
}

// InitModules builds all application modules and registers them with the router registry.
// Call once during startup after the container singletons are set.
func InitModules(r *Registry) {
	userSvc := buildUserService()
	captionSvc := buildCaptionService()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	authHandler := handlers.NewAuthHandler(userSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	captionHandler := handlers.NewCaptionHandler(captionSvc, logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewCaptionModule(captionHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
