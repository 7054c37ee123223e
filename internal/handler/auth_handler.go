package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/middleware"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/response"
	"github.com/stemsi/campusboard/internal/service"
	"github.com/stemsi/campusboard/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/auth/login
// Validates role + role-scoped id + password and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if berr := validator.Bind(c, &req); berr != nil {
		failBind(c, berr)
		return
	}

	acc, err := req.Account()
	if err != nil {
		field := model.Role(req.Role).LoginField()
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			field: field + " is required",
		})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), acc, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Me godoc
// GET /api/auth/me
// Returns the identity resolved from the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": identity})
}
