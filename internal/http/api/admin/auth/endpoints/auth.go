package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/http/api"
	"github.com/Nixie-Tech-LLC/athan/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/athan/internal/http/middleware"
)

// AuthPublicModule mounts the public login endpoint (/auth/login)
func AuthPublicModule(jwtSecret, passwordHash string) api.Module {
	ctl := newAccountManager(jwtSecret, passwordHash)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

type AccountManager struct {
	jwtSecret    string
	passwordHash string
}

func newAccountManager(secret, passwordHash string) *AccountManager {
	return &AccountManager{jwtSecret: secret, passwordHash: passwordHash}
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.Error) {
	if a.passwordHash == "" {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "admin login is disabled"}
	}

	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if !middleware.CheckPassword(a.passwordHash, request.Password) {
		log.Warn().Str("ip", ctx.ClientIP()).Msg("admin login rejected")
		return nil, &api.Error{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	subject := request.Subject
	if subject == "" {
		subject = "admin"
	}
	token, err := middleware.GenerateJWT(subject, a.jwtSecret)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.LoginResponse{Token: token}, nil
}
