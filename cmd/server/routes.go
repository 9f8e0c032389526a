package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/athan/internal/config"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/athan/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/athan/internal/http/api/admin/control/endpoints"
	clientapi "github.com/Nixie-Tech-LLC/athan/internal/http/api/tv/endpoints"
	"github.com/Nixie-Tech-LLC/athan/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/athan/internal/metrics"
	"github.com/Nixie-Tech-LLC/athan/internal/storage"
	"github.com/Nixie-Tech-LLC/athan/internal/tracker"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, storageSystem storage.Storage, t *tracker.Tracker, m *metrics.Metrics, tmpl *template.Template) error {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	r.Use(middleware.Metrics(m))

	if err := api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, cfg.AdminPasswordHash),
	); err != nil {
		return err
	}

	if err := api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		adminapi.TimetableModule(cfg.Athan.City, store, storageSystem, t, m),
	); err != nil {
		return err
	}

	if err := api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.IntegrationsModule(t),
	); err != nil {
		return err
	}

	r.GET("/metrics", gin.WrapH(m.Handler()))
	return nil
}
