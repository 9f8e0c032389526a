package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/http/middleware"
)

// Module is a pluggable feature that attaches its endpoints to a Controller (a gin group).
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets you define a Module with a simple function.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig tells the api package how to mount a group.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string            // required if Auth == true
	Middleware []gin.HandlerFunc // optional additional middleware
}

// Router is satisfied by *gin.Engine and *gin.RouterGroup.
type Router interface {
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

var ErrMissingSecret = errors.New("api: auth enabled but SecretKey is empty")

// MountGroup mounts one or more Modules under a prefix with optional auth.
func MountGroup(parent Router, cfg GroupConfig, modules ...Module) error {
	if cfg.Auth && cfg.SecretKey == "" {
		return ErrMissingSecret
	}

	grp := parent.Group(cfg.Prefix)

	// middleware first, then auth, so metrics also see rejected requests
	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey))
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
	log.Debug().Str("prefix", cfg.Prefix).Bool("auth", cfg.Auth).Int("modules", len(modules)).Msg("api group mounted")
	return nil
}
