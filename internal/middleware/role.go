package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/response"
)

// RequireRole rejects requests whose identity does not hold role. It must run
// after RequireAuth; without an identity the request is treated as
// unauthenticated (401), with the wrong role as forbidden (403).
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
			return
		}

		if identity.Role != role {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}

		c.Next()
	}
}
