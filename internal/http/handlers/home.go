package handlers

import (
	"net/http"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/home
func (h *Handler) Home(c *gin.Context) {
	data, err := h.catalog(c).Home(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GET /api/records/:travel_type/:departure/:arrival
func (h *Handler) Records(c *gin.Context) {
	q := models.RouteQuery{
		TravelType: c.Param("travel_type"),
		Departure:  c.Param("departure"),
		Arrival:    c.Param("arrival"),
	}
	fares, err := h.fares(c).ResolveFares(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewPage(fares, domain.Pagination{}, len(fares)))
}
