package handlers

import (
	"context"
	"net/http"

	"horizontravels/internal/domain"

	"github.com/gin-gonic/gin"
)

func listResource[T any](c *gin.Context, fn func(context.Context, domain.Pagination) (domain.Page[T], error)) {
	p, ok := pagination(c)
	if !ok {
		return
	}
	page, err := fn(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func getResource[T any](c *gin.Context, fn func(context.Context, int64) (T, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := fn(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func createResource[In, T any](c *gin.Context, fn func(context.Context, In) (T, error)) {
	var in In
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := fn(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func updateResource[In, T any](c *gin.Context, fn func(context.Context, int64, In) (T, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in In
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := fn(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func deleteResource(c *gin.Context, resource string, fn func(context.Context, int64) error) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resource + " deleted", "id": id})
}

// CRUD is the handler set mounted for one admin resource.
type CRUD struct {
	List, Get, Create, Update, Delete gin.HandlerFunc
}

func (h *Handler) Locations() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.catalog(c).ListLocations) },
		Get:    func(c *gin.Context) { getResource(c, h.catalog(c).GetLocation) },
		Create: func(c *gin.Context) { createResource(c, h.catalog(c).CreateLocation) },
		Update: func(c *gin.Context) { updateResource(c, h.catalog(c).UpdateLocation) },
		Delete: func(c *gin.Context) { deleteResource(c, "location", h.catalog(c).DeleteLocation) },
	}
}

func (h *Handler) TravelTypes() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.catalog(c).ListTravelTypes) },
		Get:    func(c *gin.Context) { getResource(c, h.catalog(c).GetTravelType) },
		Create: func(c *gin.Context) { createResource(c, h.catalog(c).CreateTravelType) },
		Update: func(c *gin.Context) { updateResource(c, h.catalog(c).RenameTravelType) },
		Delete: func(c *gin.Context) { deleteResource(c, "travel type", h.catalog(c).DeleteTravelType) },
	}
}

func (h *Handler) PriceCategories() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.catalog(c).ListPriceCategories) },
		Get:    func(c *gin.Context) { getResource(c, h.catalog(c).GetPriceCategory) },
		Create: func(c *gin.Context) { createResource(c, h.catalog(c).CreatePriceCategory) },
		Update: func(c *gin.Context) { updateResource(c, h.catalog(c).RenamePriceCategory) },
		Delete: func(c *gin.Context) { deleteResource(c, "price category", h.catalog(c).DeletePriceCategory) },
	}
}

func (h *Handler) MaxSeats() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.catalog(c).ListMaxSeats) },
		Get:    func(c *gin.Context) { getResource(c, h.catalog(c).GetMaxSeat) },
		Create: func(c *gin.Context) { createResource(c, h.catalog(c).CreateMaxSeat) },
		Update: func(c *gin.Context) { updateResource(c, h.catalog(c).UpdateMaxSeat) },
		Delete: func(c *gin.Context) { deleteResource(c, "max seat", h.catalog(c).DeleteMaxSeat) },
	}
}

func (h *Handler) TravelDetails() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.travel(c).ListTravelDetails) },
		Get:    func(c *gin.Context) { getResource(c, h.travel(c).GetTravelDetail) },
		Create: func(c *gin.Context) { createResource(c, h.travel(c).CreateTravelDetail) },
		Update: func(c *gin.Context) { updateResource(c, h.travel(c).UpdateTravelDetail) },
		Delete: func(c *gin.Context) { deleteResource(c, "travel detail", h.travel(c).DeleteTravelDetail) },
	}
}

func (h *Handler) Expenses() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.travel(c).ListExpenses) },
		Get:    func(c *gin.Context) { getResource(c, h.travel(c).GetExpense) },
		Create: func(c *gin.Context) { createResource(c, h.travel(c).CreateExpense) },
		Update: func(c *gin.Context) { updateResource(c, h.travel(c).UpdateExpense) },
		Delete: func(c *gin.Context) { deleteResource(c, "expense", h.travel(c).DeleteExpense) },
	}
}

func (h *Handler) Users() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.users(c).List) },
		Get:    func(c *gin.Context) { getResource(c, h.users(c).Get) },
		Create: func(c *gin.Context) { createResource(c, h.users(c).Create) },
		Update: func(c *gin.Context) { updateResource(c, h.users(c).Patch) },
		Delete: func(c *gin.Context) { deleteResource(c, "user", h.users(c).Delete) },
	}
}

func (h *Handler) Roles() CRUD {
	return CRUD{
		List:   func(c *gin.Context) { listResource(c, h.roles().List) },
		Get:    func(c *gin.Context) { getResource(c, h.roles().Get) },
		Create: func(c *gin.Context) { createResource(c, h.roles().Create) },
		Update: func(c *gin.Context) { updateResource(c, h.roles().Update) },
		Delete: func(c *gin.Context) { deleteResource(c, "role", h.roles().Delete) },
	}
}
