package handler

import (
	"net/http"

	"hotelbook/pkg/auth"
	httputil "hotelbook/pkg/http"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type AuthHandler struct {
	gate auth.Authenticator
	log  *logger.Logger
}

func NewAuthHandler(gate auth.Authenticator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, log: log}
}

// Me describes the caller behind the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, principal auth.Principal) {
	if err := httputil.WriteOK(w, MeResponse{
		Username: principal.Subject,
		Role:     principal.Role.String(),
		Email:    principal.Email,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteOK", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/auth/me", middleware.Authenticated(h.gate, h.log)(h.Me))
}
