package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/service"
)

type roomLister interface {
	OpenRooms() []int
	Rooms() []service.RoomInfo
}

type clientCounter interface {
	Count() int
}

type statsReader interface {
	GetStats(ctx context.Context) (*entity.Stats, error)
}

type handlers struct {
	logger *slog.Logger

	rooms   roomLister
	clients clientCounter
	stats   statsReader
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// RoomsHandler - lists open room ids and, with ?details=true, every room and the number of connected clients.
func (that *handlers) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	response := struct {
		OpenRooms []int              `json:"open_rooms"`
		Rooms     []service.RoomInfo `json:"rooms,omitempty"`
		Clients   *int               `json:"clients,omitempty"`
	}{
		OpenRooms: that.rooms.OpenRooms(),
	}

	if r.URL.Query().Get("details") == "true" {
		clients := that.clients.Count()
		response.Rooms = that.rooms.Rooms()
		response.Clients = &clients
	}

	that.writeJSON(w, http.StatusOK, response)
}

func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := that.stats.GetStats(r.Context())
	if err != nil {
		that.logger.Error("failed to get stats", "method", "StatsHandler", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "method", "writeJSON", "error", err)
	}
}
