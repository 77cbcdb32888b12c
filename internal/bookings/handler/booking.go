package handler

import (
	"net/http"

	"hotelbook/internal/bookings/service"
	"hotelbook/pkg/auth"
	httputil "hotelbook/pkg/http"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/middleware"
	"hotelbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const bookingsPath = "/api/hotels/:hotelId/bookings"

type BookingHandler struct {
	service service.BookingService
	gate    auth.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, gate auth.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

// Create books a stay on behalf of the authenticated staff member.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params, principal auth.Principal) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, h.log, err)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), ps.ByName("hotelId"), principal.Subject, &req)
	if err != nil {
		httputil.WriteError(w, r, h.log, err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetBookings(r.Context(), ps.ByName("hotelId"))
	if err != nil {
		httputil.WriteError(w, r, h.log, err)
		return
	}

	if err := httputil.WriteOK(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	staffOnly := middleware.Authenticated(h.gate, h.log, auth.RoleStaff, auth.RoleReception)

	router.GET(bookingsPath, h.List)
	router.POST(bookingsPath, staffOnly(h.Create))
}
