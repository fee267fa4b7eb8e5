package handlers

import (
	"errors"
	"net/http"

	"horizontravels/internal/domain"
	"horizontravels/internal/http/middleware"
	"horizontravels/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		ve  domain.ValidationError
		ce  domain.ConflictError
		ie  domain.IntegrityError
		nfe domain.NoFareError
	)
	switch {
	case errors.As(err, &ve):
		var details any
		if ve.Field != "" {
			details = gin.H{"field": ve.Field}
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNoRoute(err):
		respondError(c, http.StatusNotFound, "no_route", err.Error(), nil)
	case errors.As(err, &nfe):
		respondError(c, http.StatusNotFound, "no_fare", err.Error(), gin.H{"travel_detail_ids": nfe.TravelDetailIDs})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &ce):
		code := ce.Code
		if code == "" {
			code = "conflict"
		}
		respondError(c, http.StatusConflict, code, err.Error(), nil)
	case errors.As(err, &ie):
		if ie.Kind == domain.IntegrityInvalidRef {
			respondError(c, http.StatusBadRequest, "invalid_reference", err.Error(), nil)
			return
		}
		respondError(c, http.StatusConflict, "integrity_error", err.Error(), nil)
	default:
		utils.LogWarn(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
