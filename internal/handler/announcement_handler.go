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

// AnnouncementHandler handles announcement endpoints.
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	log                 zerolog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(announcementService *service.AnnouncementService, log zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		log:                 log.With().Str("component", "announcement_handler").Logger(),
	}
}

// List godoc
// GET /api/announcements
// Returns up to 200 announcements, newest first.
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.announcementService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("List announcements failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"announcements": items})
}

// Create godoc
// POST /api/announcements
// Creates an announcement authored by the calling teacher.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req model.CreateAnnouncementRequest
	if berr := validator.Bind(c, &req); berr != nil {
		failBind(c, berr)
		return
	}

	a, err := h.announcementService.Create(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields)
		case errors.Is(err, service.ErrUnauthenticated):
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
		case errors.Is(err, service.ErrForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Create announcement failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"announcement": a})
}
