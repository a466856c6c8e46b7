package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const (
	TypeCreateRoom         = "create_room"
	TypeJoinRoom           = "join_room"
	TypeJoinRoomError      = "join_room_error"
	TypeLeaveRoom          = "leave_room"
	TypeMove               = "move"
	TypeGetOpenRooms       = "get_open_rooms"
	TypeUpdateOpenRooms    = "update_open_rooms"
	TypeStartGame          = "start_game"
	TypeUpdateBoard        = "update_board"
	TypeWin                = "win"
	TypeDrawRound          = "draw_round"
	TypePlayerDisconnected = "player_disconnected"
	TypeDenied             = "denied"
)

// Request is one decoded client message: CreateRoom, JoinRoom, LeaveRoom, Move or GetOpenRooms.
type Request interface {
	Type() string
}

type CreateRoom struct{}

type JoinRoom struct {
	RoomID int
}

type LeaveRoom struct{}

type Move struct {
	RoomID int
	Sign   entity.Sign
	Cell   int
}

type GetOpenRooms struct{}

func (CreateRoom) Type() string   { return TypeCreateRoom }
func (JoinRoom) Type() string     { return TypeJoinRoom }
func (LeaveRoom) Type() string    { return TypeLeaveRoom }
func (Move) Type() string         { return TypeMove }
func (GetOpenRooms) Type() string { return TypeGetOpenRooms }

type envelope struct {
	Type string `json:"type"`
}

type joinRoomFields struct {
	RoomID *int `json:"room_id"`
}

type moveFields struct {
	RoomID *int    `json:"room_id"`
	Sign   *string `json:"sign"`
	Cell   *int    `json:"cell"`
}

// Decode - parses an inbound frame into a Request.
// Unparseable frames and missing fields yield ErrMalformedMessage, unknown types ErrUnknownMessageType.
func Decode(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	switch env.Type {
	case TypeCreateRoom:
		return CreateRoom{}, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	case TypeGetOpenRooms:
		return GetOpenRooms{}, nil
	case TypeJoinRoom:
		var fields joinRoomFields
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
		}
		if fields.RoomID == nil {
			return nil, fmt.Errorf("%w: join_room without room_id", apperror.ErrMalformedMessage)
		}
		return JoinRoom{RoomID: *fields.RoomID}, nil
	case TypeMove:
		var fields moveFields
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
		}
		if fields.RoomID == nil || fields.Sign == nil || fields.Cell == nil {
			return nil, fmt.Errorf("%w: move requires room_id, sign and cell", apperror.ErrMalformedMessage)
		}
		sign, err := entity.ParseSign(*fields.Sign)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
		}
		return Move{RoomID: *fields.RoomID, Sign: sign, Cell: *fields.Cell}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", apperror.ErrMalformedMessage)
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMessageType, env.Type)
	}
}

// Encode - serializes an outbound message.
func Encode(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}
