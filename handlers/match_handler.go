package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lanoooo/padel-club/services"
)

type MatchHandler struct {
	fixtureService services.FixtureService
}

func NewMatchHandler(fs services.FixtureService) *MatchHandler {
	return &MatchHandler{fixtureService: fs}
}

type recordScoreInput struct {
	Score string `json:"score"`
}

// GenerateFixture обрабатывает POST /tournaments/{tournamentID}/fixture (только админ).
func (h *MatchHandler) GenerateFixture(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchCount, err := h.fixtureService.GenerateFixture(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match_count": matchCount}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches обрабатывает GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.fixtureService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordScore обрабатывает PUT /tournaments/{tournamentID}/matches/{matchID}/score (только админ).
func (h *MatchHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Score) == "" {
		badRequestResponse(w, r, errors.New("score must not be empty"))
		return
	}

	if err := h.fixtureService.RecordScore(r.Context(), matchID, tournamentID, input.Score); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
