package handlers

import (
	"errors"
	"net/http"

	"github.com/lanoooo/padel-club/middleware"
	"github.com/lanoooo/padel-club/services"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

type reserveInput struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ListAvailability обрабатывает GET /availability?date=YYYY-MM-DD.
// Дата обязана попадать в окно бронирования.
func (h *BookingHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		badRequestResponse(w, r, errors.New("date query parameter is required"))
		return
	}

	times, err := h.bookingService.ListAvailableTimes(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"date":  date,
		"times": times,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reserve обрабатывает POST /reservations
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input reserveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reservation, err := h.bookingService.Reserve(r.Context(), userID, input.Date, input.Time)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"reservation": reservation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Cancel обрабатывает DELETE /reservations/{reservationID}.
// Админ отменяет любую будущую бронь, игрок только свою.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	reservationID, err := getIDFromURL(r, "reservationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	isAdmin := middleware.IsAdminFromContext(r.Context())
	if err := h.bookingService.Cancel(r.Context(), reservationID, userID, isAdmin); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListReservations обрабатывает GET /reservations
func (h *BookingHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	isAdmin := middleware.IsAdminFromContext(r.Context())
	reservations, err := h.bookingService.ListReservations(r.Context(), userID, isAdmin)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"reservations": reservations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
