package handlers

import (
	"net/http"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var in models.CreateBookingInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.UserID = callerID(c)
	b, err := h.bookings(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// POST /api/bookings/by-route
func (h *Handler) CreateBookingByRoute(c *gin.Context) {
	var in models.RouteBookingInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.UserID = callerID(c)
	b, err := h.bookings(c).CreateByRoute(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rc, _ := caller(c)
	b, err := h.bookings(c).Get(c.Request.Context(), id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rc, _ := caller(c)
	b, err := h.bookings(c).Cancel(c.Request.Context(), id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/:id/receipt
func (h *Handler) BookingReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rc, _ := caller(c)
	pdfBytes, filename, err := h.docs(c).GenerateReceipt(c.Request.Context(), id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/bookings (admin)
func (h *Handler) ListBookings(c *gin.Context) {
	p, ok := pagination(c)
	if !ok {
		return
	}
	page, err := h.bookings(c).List(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PUT /api/bookings/:id (admin)
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p models.BookingPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	b, err := h.bookings(c).Patch(c.Request.Context(), id, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/bookings/:id (admin)
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted", "id": id})
}

// GET /api/dashboard/me
func (h *Handler) MyDashboard(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{Msg: "login required"})
		return
	}
	h.userDashboard(c, rc.UserID)
}

// GET /api/dashboard/users/:id (admin)
func (h *Handler) UserDashboard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.userDashboard(c, id)
}

func (h *Handler) userDashboard(c *gin.Context, userID int64) {
	views, err := h.dashboard().UserDashboard(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "bookings": views})
}

// GET /api/dashboard/admin
func (h *Handler) AdminDashboard(c *gin.Context) {
	out, err := h.dashboard().AdminDashboard(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
