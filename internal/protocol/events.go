package protocol

import "github.com/rocketscienceinc/tictactoe-server/internal/entity"

// RoomAssigned confirms create_room and join_room.
type RoomAssigned struct {
	Type   string      `json:"type"`
	RoomID int         `json:"room_id"`
	Sign   entity.Sign `json:"sign"`
	Name   string      `json:"name"`
}

type JoinRoomError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type OpenRooms struct {
	Type      string `json:"type"`
	OpenRooms []int  `json:"open_rooms"`
}

type StartGame struct {
	Type     string `json:"type"`
	Round    int    `json:"round"`
	Opponent string `json:"opponent,omitempty"`
}

type UpdateBoard struct {
	Type  string       `json:"type"`
	Board entity.Board `json:"board"`
}

type Win struct {
	Type   string       `json:"type"`
	Sign   entity.Sign  `json:"sign"`
	Cells  []int        `json:"cells"`
	Scores entity.Score `json:"scores"`
}

type DrawRound struct {
	Type   string       `json:"type"`
	Scores entity.Score `json:"scores"`
}

// Notice is a message that carries nothing but its type: player_disconnected and the leave_room acknowledgement.
type Notice struct {
	Type string `json:"type"`
}

type Denied struct {
	Type    string      `json:"type"`
	Player  entity.Sign `json:"player,omitempty"`
	Message string      `json:"message"`
}

func NewCreated(roomID int, sign entity.Sign, name string) RoomAssigned {
	return RoomAssigned{Type: TypeCreateRoom, RoomID: roomID, Sign: sign, Name: name}
}

func NewJoined(roomID int, sign entity.Sign, name string) RoomAssigned {
	return RoomAssigned{Type: TypeJoinRoom, RoomID: roomID, Sign: sign, Name: name}
}

func NewJoinRoomError(message string) JoinRoomError {
	return JoinRoomError{Type: TypeJoinRoomError, Message: message}
}

func NewOpenRooms(ids []int) OpenRooms {
	if ids == nil {
		ids = []int{}
	}
	return OpenRooms{Type: TypeUpdateOpenRooms, OpenRooms: ids}
}

func NewStartGame(round int, opponent string) StartGame {
	return StartGame{Type: TypeStartGame, Round: round, Opponent: opponent}
}

func NewUpdateBoard(board entity.Board) UpdateBoard {
	return UpdateBoard{Type: TypeUpdateBoard, Board: board}
}

func NewWin(sign entity.Sign, cells [3]int, scores entity.Score) Win {
	return Win{Type: TypeWin, Sign: sign, Cells: cells[:], Scores: scores}
}

func NewDrawRound(scores entity.Score) DrawRound {
	return DrawRound{Type: TypeDrawRound, Scores: scores}
}

func NewPlayerDisconnected() Notice {
	return Notice{Type: TypePlayerDisconnected}
}

func NewLeftRoom() Notice {
	return Notice{Type: TypeLeaveRoom}
}

func NewDenied(player entity.Sign, message string) Denied {
	return Denied{Type: TypeDenied, Player: player, Message: message}
}
