package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/campusboard/internal/response"
)

// SystemHandler serves process-level endpoints.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health godoc
// GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"ok": true})
}
