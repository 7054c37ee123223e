package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/response"
	"github.com/stemsi/campusboard/internal/service"
)

// contextKeyIdentity is the Gin context key for the resolved identity.
const contextKeyIdentity = "identity"

// RequireAuth resolves the bearer token in the Authorization header to an
// existing user. Missing headers, bad tokens and vanished users all get the
// same 401 body.
func RequireAuth(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, authService, log, bearerToken(c))
	}
}

// RequireAuthWS is RequireAuth for WebSocket upgrades, which cannot carry
// custom headers from a browser. The ?token= query parameter is accepted
// when no Authorization header is present.
func RequireAuthWS(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && c.GetHeader("Authorization") == "" {
			token = c.Query("token")
		}
		authenticate(c, authService, log, token)
	}
}

func authenticate(c *gin.Context, authService *service.AuthService, log zerolog.Logger, token string) {
	if token == "" {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
		return
	}

	identity, err := authService.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) || errors.Is(err, service.ErrUnauthenticated) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
			return
		}
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Identity lookup failed")
		response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	SetIdentity(c, identity)
	c.Next()
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns an empty string for a missing or malformed header.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SetIdentity attaches the resolved identity to the request.
func SetIdentity(c *gin.Context, identity *model.Identity) {
	c.Set(contextKeyIdentity, identity)
}

// GetIdentity retrieves the resolved identity from the Gin context.
func GetIdentity(c *gin.Context) *model.Identity {
	val, exists := c.Get(contextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := val.(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}
