package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanoooo/padel-club/services"
)

func TestServerErrorResponseUsesInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer SetLogger(slog.Default())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/reservations", nil)

	mapServiceErrorToHTTP(w, r, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "could not process your request")
	assert.Contains(t, buf.String(), "internal server error")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: services.ErrReservationNotFound, status: http.StatusNotFound},
		{name: "conflict", err: services.ErrTournamentFull, status: http.StatusConflict},
		{name: "bad request", err: services.ErrOutOfHorizon, status: http.StatusBadRequest},
		{name: "forbidden", err: services.ErrRegistrationClosed, status: http.StatusForbidden},
		{name: "unauthorized", err: services.ErrAuthInvalidCredentials, status: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(w, r, tc.err)
			require.Equal(t, tc.status, w.Code)
		})
	}
}
