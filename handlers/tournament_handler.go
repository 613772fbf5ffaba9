package handlers

import (
	"errors"
	"net/http"

	"github.com/lanoooo/padel-club/middleware"
	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/services"
)

const maxPosterSize = 10 << 20 // 10MB

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// Open обрабатывает POST /tournaments (только админ).
func (h *TournamentHandler) Open(w http.ResponseWriter, r *http.Request) {
	var input services.OpenTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.OpenTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List обрабатывает GET /tournaments?status=open|in_progress|finished
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.TournamentStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		s := models.TournamentStatus(statusStr)
		switch s {
		case models.StatusOpen, models.StatusInProgress, models.StatusFinished:
			status = &s
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID обрабатывает GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete обрабатывает DELETE /tournaments/{tournamentID} (только админ).
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterTeam обрабатывает POST /tournaments/{tournamentID}/teams
func (h *TournamentHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.tournamentService.RegisterTeam(r.Context(), tournamentID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams обрабатывает GET /tournaments/{tournamentID}/teams
func (h *TournamentHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.tournamentService.ListTeams(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam обрабатывает DELETE /tournaments/{tournamentID}/teams/{teamID} (только админ).
func (h *TournamentHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTeam(r.Context(), teamID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadPoster обрабатывает POST /tournaments/{tournamentID}/poster (только админ).
// Принимает multipart/form-data с полем poster.
func (h *TournamentHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxPosterSize); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form, file may be too large"))
		return
	}

	file, header, err := r.FormFile("poster")
	if err != nil {
		badRequestResponse(w, r, errors.New("poster file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := h.tournamentService.UploadPoster(r.Context(), tournamentID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"poster_url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListSaturdays обрабатывает GET /tournaments/saturdays
func (h *TournamentHandler) ListSaturdays(w http.ResponseWriter, r *http.Request) {
	dates := h.tournamentService.UpcomingSaturdays()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"dates": dates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
