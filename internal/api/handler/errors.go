package handler

import (
	"errors"
	"net/http"

	"grievanceportal/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Type   apperr.ErrorType    `json:"type,omitempty"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func statusOf(t apperr.ErrorType) int {
	switch t {
	case apperr.TypeValidation:
		return http.StatusBadRequest
	case apperr.TypeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.TypeForbidden:
		return http.StatusForbidden
	case apperr.TypeNotFound:
		return http.StatusNotFound
	case apperr.TypeConflict:
		return http.StatusConflict
	case apperr.TypePersistence:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError renders err and aborts the request. Errors outside the
// apperr taxonomy are logged and hidden behind a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(statusOf(appErr.Type), errorResponse{
		Error:  appErr.Message,
		Type:   appErr.Type,
		Fields: appErr.Fields,
	})
}

// bindJSON decodes the request body into v or renders a validation error.
func (h *Handler) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}
