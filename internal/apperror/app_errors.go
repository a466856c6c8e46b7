package apperror

import "errors"

// room directory
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("client is already in this room")
	ErrNotInRoom     = errors.New("client is not in this room")
)

// game engine
var (
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidSign      = errors.New("invalid sign")
	ErrWrongSign        = errors.New("sign does not belong to client")
)

// protocol and delivery
var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrConnectionClosed   = errors.New("connection is closed")
	ErrSendBufferFull     = errors.New("send buffer is full")
)
