package service

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-server/internal/tictactoe"
)

const maxRoomIDAttempts = 64

type RoomDirectory interface {
	CreateRoom(client *entity.Client) (Created, error)
	JoinRoom(client *entity.Client, roomID int) (Joined, error)
	LeaveRoom(client *entity.Client) Departure
	Play(client *entity.Client, roomID int, sign entity.Sign, cell int) (Played, error)

	OpenRooms() []int
	Rooms() []RoomInfo
}

// Departure describes a client vacating its slot. Left is false when the client was in no room.
type Departure struct {
	Left   bool
	RoomID int
	Sign   entity.Sign
	// Opponent is the remaining occupant, nil if the room was deleted.
	Opponent *entity.Client
	Deleted  bool
}

type Created struct {
	RoomID    int
	Departure Departure
}

type Joined struct {
	RoomID    int
	Sign      entity.Sign
	X         *entity.Client
	O         *entity.Client
	Round     int
	Departure Departure
}

type Played struct {
	Outcome tictactoe.Outcome
	Sign    entity.Sign
	X       *entity.Client
	O       *entity.Client
}

// RoomInfo is a read-only view of a room.
type RoomInfo struct {
	ID    int          `json:"id"`
	Phase string       `json:"phase"`
	X     string       `json:"x,omitempty"`
	O     string       `json:"o,omitempty"`
	Round int          `json:"round"`
	Score entity.Score `json:"scores"`
	Turn  entity.Sign  `json:"turn"`
	Board entity.Board `json:"board"`
}

type roomDirectory struct {
	logger *slog.Logger

	generateID func() (int, error)

	roomsMutex sync.RWMutex
	rooms      map[int]*entity.Room
}

func NewRoomDirectory(logger *slog.Logger) RoomDirectory {
	return newRoomDirectory(logger, pkg.GenerateRoomID)
}

func newRoomDirectory(logger *slog.Logger, generateID func() (int, error)) *roomDirectory {
	return &roomDirectory{
		logger:     logger,
		generateID: generateID,
		rooms:      make(map[int]*entity.Room),
	}
}

// CreateRoom - creates a room with the client in the x slot.
// A client already seated elsewhere leaves that room first.
func (that *roomDirectory) CreateRoom(client *entity.Client) (Created, error) {
	log := that.logger.With("method", "CreateRoom", "client_id", client.ID)

	that.roomsMutex.Lock()

	roomID, err := that.freeRoomIDLocked()
	if err != nil {
		that.roomsMutex.Unlock()
		return Created{}, fmt.Errorf("failed to create room: %w", err)
	}

	departure := that.leaveLocked(client)

	room := entity.NewRoom(roomID)
	room.SetSlot(entity.SignX, client)
	that.rooms[roomID] = room
	client.AttachRoom(roomID)

	that.roomsMutex.Unlock()

	that.logDeparture(log, departure)
	log.Info("room created", "room_id", roomID)

	return Created{RoomID: roomID, Departure: departure}, nil
}

// JoinRoom - seats the client in the free slot of an open room.
// On error the client keeps whatever seat it had.
func (that *roomDirectory) JoinRoom(client *entity.Client, roomID int) (Joined, error) {
	log := that.logger.With("method", "JoinRoom", "client_id", client.ID, "room_id", roomID)

	that.roomsMutex.Lock()

	room, ok := that.rooms[roomID]
	if !ok {
		that.roomsMutex.Unlock()
		return Joined{}, apperror.ErrRoomNotFound
	}

	if _, seated := room.SignOf(client); seated {
		that.roomsMutex.Unlock()
		return Joined{}, apperror.ErrAlreadyInRoom
	}

	if room.IsReady() {
		that.roomsMutex.Unlock()
		return Joined{}, apperror.ErrRoomFull
	}

	departure := that.leaveLocked(client)

	sign := entity.SignX
	if room.X != nil {
		sign = entity.SignO
	}

	room.SetSlot(sign, client)
	client.AttachRoom(roomID)
	room.ResetMatch()

	joined := Joined{
		RoomID:    roomID,
		Sign:      sign,
		X:         room.X,
		O:         room.O,
		Round:     room.CurrentRound(),
		Departure: departure,
	}

	that.roomsMutex.Unlock()

	that.logDeparture(log, departure)
	log.Info("client joined room", "sign", sign)

	return joined, nil
}

// LeaveRoom - vacates the client's slot. An emptied room is deleted, a half-empty one
// returns to waiting with its match reset.
func (that *roomDirectory) LeaveRoom(client *entity.Client) Departure {
	that.roomsMutex.Lock()
	departure := that.leaveLocked(client)
	that.roomsMutex.Unlock()

	that.logDeparture(that.logger.With("method", "LeaveRoom", "client_id", client.ID), departure)

	return departure
}

// Play - applies a move on behalf of the client and returns the outcome together with both players.
func (that *roomDirectory) Play(client *entity.Client, roomID int, sign entity.Sign, cell int) (Played, error) {
	that.roomsMutex.Lock()
	defer that.roomsMutex.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return Played{}, apperror.ErrRoomNotFound
	}

	seat, ok := room.SignOf(client)
	if !ok {
		return Played{}, apperror.ErrNotInRoom
	}

	if seat != sign {
		return Played{}, apperror.ErrWrongSign
	}

	outcome, err := tictactoe.Play(room, sign, cell)
	if err != nil {
		return Played{}, fmt.Errorf("failed to play in room %d: %w", roomID, err)
	}

	return Played{Outcome: outcome, Sign: sign, X: room.X, O: room.O}, nil
}

// OpenRooms - returns the ids of rooms waiting for an opponent, in ascending order.
func (that *roomDirectory) OpenRooms() []int {
	that.roomsMutex.RLock()
	ids := make([]int, 0, len(that.rooms))
	for id, room := range that.rooms {
		if room.IsOpen() {
			ids = append(ids, id)
		}
	}
	that.roomsMutex.RUnlock()

	slices.Sort(ids)

	return ids
}

func (that *roomDirectory) Rooms() []RoomInfo {
	that.roomsMutex.RLock()
	rooms := make([]RoomInfo, 0, len(that.rooms))
	for _, room := range that.rooms {
		info := RoomInfo{
			ID:    room.ID,
			Phase: room.Phase(),
			Round: room.CurrentRound(),
			Score: room.Score,
			Turn:  room.Turn,
			Board: room.Board,
		}
		if room.X != nil {
			info.X = room.X.Name
		}
		if room.O != nil {
			info.O = room.O.Name
		}
		rooms = append(rooms, info)
	}
	that.roomsMutex.RUnlock()

	slices.SortFunc(rooms, func(a, b RoomInfo) int { return a.ID - b.ID })

	return rooms
}

func (that *roomDirectory) freeRoomIDLocked() (int, error) {
	for range maxRoomIDAttempts {
		id, err := that.generateID()
		if err != nil {
			return 0, err
		}

		if _, taken := that.rooms[id]; !taken {
			return id, nil
		}
	}

	return 0, fmt.Errorf("no free room id after %d attempts", maxRoomIDAttempts)
}

func (that *roomDirectory) findRoomLocked(client *entity.Client) (*entity.Room, entity.Sign, bool) {
	if id, ok := client.RoomID(); ok {
		if room, ok := that.rooms[id]; ok {
			if sign, ok := room.SignOf(client); ok {
				return room, sign, true
			}
		}
	}

	for _, room := range that.rooms {
		if sign, ok := room.SignOf(client); ok {
			return room, sign, true
		}
	}

	return nil, "", false
}

func (that *roomDirectory) leaveLocked(client *entity.Client) Departure {
	room, sign, ok := that.findRoomLocked(client)
	client.DetachRoom()
	if !ok {
		return Departure{}
	}

	room.SetSlot(sign, nil)

	departure := Departure{Left: true, RoomID: room.ID, Sign: sign}

	if room.IsEmpty() {
		delete(that.rooms, room.ID)
		departure.Deleted = true
		return departure
	}

	room.ResetMatch()
	departure.Opponent = room.Slot(sign.Opponent())

	return departure
}

func (that *roomDirectory) logDeparture(log *slog.Logger, departure Departure) {
	if !departure.Left {
		return
	}

	log.Info("client left room", "room_id", departure.RoomID, "sign", departure.Sign, "room_deleted", departure.Deleted)
}
