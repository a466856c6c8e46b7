package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/service"
)

type mockRooms struct {
	mock.Mock
}

func (that *mockRooms) OpenRooms() []int {
	return that.Called().Get(0).([]int)
}

func (that *mockRooms) Rooms() []service.RoomInfo {
	return that.Called().Get(0).([]service.RoomInfo)
}

type mockClients struct {
	mock.Mock
}

func (that *mockClients) Count() int {
	return that.Called().Int(0)
}

type mockStats struct {
	mock.Mock
}

func (that *mockStats) GetStats(ctx context.Context) (*entity.Stats, error) {
	args := that.Called(ctx)
	stats, _ := args.Get(0).(*entity.Stats)
	return stats, args.Error(1)
}

func newTestServer(t *testing.T) (*httptest.Server, *mockRooms, *mockStats) {
	t.Helper()

	httpServer, rooms, _, stats := newTestServerWithClients(t)

	return httpServer, rooms, stats
}

func newTestServerWithClients(t *testing.T) (*httptest.Server, *mockRooms, *mockClients, *mockStats) {
	t.Helper()

	rooms, clients, stats := &mockRooms{}, &mockClients{}, &mockStats{}
	t.Cleanup(func() {
		rooms.AssertExpectations(t)
		clients.AssertExpectations(t)
		stats.AssertExpectations(t)
	})

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), rooms, clients, stats)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return httpServer, rooms, clients, stats
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestPing(t *testing.T) {
	httpServer, _, _ := newTestServer(t)

	status, body := get(t, httpServer.URL+"/ping")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", body)
}

func TestRooms(t *testing.T) {
	t.Run("Lists open rooms", func(t *testing.T) {
		// Given: Two open rooms
		httpServer, rooms, _ := newTestServer(t)
		rooms.On("OpenRooms").Return([]int{3, 17}).Once()

		// When: Requesting the list
		status, body := get(t, httpServer.URL+"/rooms")

		// Then: Only ids are returned
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"open_rooms":[3,17]}`, body)
	})

	t.Run("Details include every room", func(t *testing.T) {
		httpServer, rooms, clients, _ := newTestServerWithClients(t)
		rooms.On("OpenRooms").Return([]int{}).Once()
		clients.On("Count").Return(3).Once()
		rooms.On("Rooms").Return([]service.RoomInfo{{
			ID:    5,
			Phase: entity.PhaseInProgress,
			X:     "alice",
			O:     "bob",
			Round: 2,
			Score: entity.Score{X: 1},
			Turn:  entity.SignO,
			Board: entity.NewBoard(),
		}}).Once()

		status, body := get(t, httpServer.URL+"/rooms?details=true")

		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{
			"open_rooms": [],
			"rooms": [{
				"id": 5, "phase": "in-progress", "x": "alice", "o": "bob", "round": 2,
				"scores": {"x": 1, "o": 0, "draws": 0}, "turn": "o",
				"board": [["*","*","*"],["*","*","*"],["*","*","*"]]
			}],
			"clients": 3
		}`, body)
	})

	t.Run("Details with nobody connected", func(t *testing.T) {
		httpServer, rooms, clients, _ := newTestServerWithClients(t)
		rooms.On("OpenRooms").Return([]int{}).Once()
		rooms.On("Rooms").Return([]service.RoomInfo{}).Once()
		clients.On("Count").Return(0).Once()

		status, body := get(t, httpServer.URL+"/rooms?details=true")

		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"open_rooms":[],"clients":0}`, body)
	})
}

func TestStats(t *testing.T) {
	t.Run("Returns aggregate stats", func(t *testing.T) {
		httpServer, _, stats := newTestServer(t)
		stats.On("GetStats", mock.Anything).Return(&entity.Stats{XWins: 2, Draws: 1, Rounds: 3, Recent: []entity.RoundResult{}}, nil).Once()

		status, body := get(t, httpServer.URL+"/stats")

		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"x_wins":2,"o_wins":0,"draws":1,"rounds":3,"recent":[]}`, body)
	})

	t.Run("Storage failure", func(t *testing.T) {
		httpServer, _, stats := newTestServer(t)
		stats.On("GetStats", mock.Anything).Return(nil, errors.New("redis down")).Once()

		status, _ := get(t, httpServer.URL+"/stats")

		assert.Equal(t, http.StatusInternalServerError, status)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	httpServer, _, _ := newTestServer(t)

	resp, err := http.Post(httpServer.URL+"/rooms", "application/json", nil) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
