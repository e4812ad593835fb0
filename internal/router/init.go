package router

import (
	"github.com/oksasatya/go-social-users/internal/application"
	"github.com/oksasatya/go-social-users/internal/container"
	pginfra "github.com/oksasatya/go-social-users/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-social-users/internal/interface/http"
	"github.com/oksasatya/go-social-users/internal/router/modules"
	"github.com/oksasatya/go-social-users/pkg/helpers"
)

// BuildService assembles the user service from the container singletons.
// Optional integrations left unset in the container stay disabled.
func BuildService() *application.Service {
	cfg := container.GetConfig()
	d := application.Deps{
		Repo:         pginfra.NewUserRepository(container.GetPGPool()),
		EmailPolicy:  application.NewEmailPolicy(cfg.AcceptedEmailResults()...),
		JWT:          container.GetJWT(),
		Redis:        container.GetRedis(),
		Logger:       container.GetLogger(),
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
		ES:           container.GetES(),
		ESUsersIndex: cfg.ESUsersIndex,
		Welcome: application.WelcomeEmail{
			Enabled:     cfg.MailSendEnabled && cfg.WelcomeEmailEnabled,
			CompanyName: cfg.CompanyName,
			LoginURL:    cfg.LoginURL,
		},
	}
	// typed nils must not leak into the interfaces
	if v := container.GetVerifier(); v != nil {
		d.Verifier = v
	}
	if e := container.GetEnricher(); e != nil {
		d.Enricher = e
	}
	if p := container.GetRabbitPub(); p != nil {
		d.Jobs = p
	}
	return application.NewService(d)
}

// InitModules wires handlers and registers every module. Call once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := BuildService()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	r.Add(modules.NewSessionModule(
		handlers.NewSessionHandler(svc, logger, helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)),
		rdb, jwt,
	))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger), rdb, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
