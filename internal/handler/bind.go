package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/campusboard/internal/response"
	"github.com/stemsi/campusboard/internal/validator"
)

// failBind writes the 400 for a rejected request body. A body that is not
// JSON at all is INVALID_PAYLOAD; field-level problems are VALIDATION_ERROR.
func failBind(c *gin.Context, err *validator.BindError) {
	code := response.ErrValidation
	if err.Malformed {
		code = response.ErrInvalidPayload
	}
	response.FailWithFields(c, http.StatusBadRequest, code, err.Fields)
}
