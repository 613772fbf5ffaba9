package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lanoooo/padel-club/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене сюда ставится проверка Origin по списку доменов.
		return true
	},
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type WebSocketHandler struct {
	hub    *events.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *events.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeAvailability подписывает клиента на изменения сетки кортов за день.
// Подключение: /ws/availability/{date}, date в формате YYYY-MM-DD.
func (h *WebSocketHandler) ServeAvailability(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !datePattern.MatchString(date) {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	h.serve(w, r, "availability:"+date)
}

// ServeTournament подписывает клиента на обновления расписания турнира.
// Подключение: /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	if _, err := getIDFromURL(r, "tournamentID"); err != nil {
		http.Error(w, "invalid tournamentID", http.StatusBadRequest)
		return
	}
	h.serve(w, r, "tournament:"+chi.URLParam(r, "tournamentID"))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой, здесь только лог.
		h.logger.Warn("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}
	h.hub.NewClient(conn, room)
}
