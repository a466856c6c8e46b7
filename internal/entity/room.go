package entity

import "time"

const (
	PhaseWaiting    = "waiting-for-opponent"
	PhaseInProgress = "in-progress"
)

// Score is the cumulative result of every round played by the current pair of occupants.
type Score struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

func (that *Score) AddWin(sign Sign) {
	switch sign {
	case SignX:
		that.X++
	case SignO:
		that.O++
	}
}

// Room is a match container with two slots keyed by sign.
type Room struct {
	ID int

	X *Client
	O *Client

	Board Board
	Turn  Sign
	Score Score
	// Rounds counts finished rounds.
	Rounds int
}

func NewRoom(id int) *Room {
	room := &Room{ID: id}
	room.ResetMatch()

	return room
}

// ResetMatch - clears the board, the turn, and the score, as for a fresh pair of players.
func (that *Room) ResetMatch() {
	that.Board = NewBoard()
	that.Turn = SignX
	that.Score = Score{}
	that.Rounds = 0
}

func (that *Room) Slot(sign Sign) *Client {
	switch sign {
	case SignX:
		return that.X
	case SignO:
		return that.O
	default:
		return nil
	}
}

func (that *Room) SetSlot(sign Sign, client *Client) {
	switch sign {
	case SignX:
		that.X = client
	case SignO:
		that.O = client
	}
}

// SignOf - returns the slot the client occupies in this room.
func (that *Room) SignOf(client *Client) (Sign, bool) {
	switch {
	case client == nil:
		return "", false
	case that.X == client:
		return SignX, true
	case that.O == client:
		return SignO, true
	default:
		return "", false
	}
}

func (that *Room) Occupants() int {
	count := 0
	if that.X != nil {
		count++
	}
	if that.O != nil {
		count++
	}
	return count
}

// IsOpen - reports whether exactly one slot is occupied.
func (that *Room) IsOpen() bool {
	return that.Occupants() == 1
}

func (that *Room) IsEmpty() bool {
	return that.Occupants() == 0
}

func (that *Room) IsReady() bool {
	return that.Occupants() == 2
}

func (that *Room) Phase() string {
	if that.IsReady() {
		return PhaseInProgress
	}
	return PhaseWaiting
}

// CurrentRound - returns the 1-based number of the round being played.
func (that *Room) CurrentRound() int {
	return that.Rounds + 1
}

// RoundResult describes one finished round. Winner is empty for a draw.
type RoundResult struct {
	RoomID     int       `json:"room_id"`
	Round      int       `json:"round"`
	Winner     Sign      `json:"winner,omitempty"`
	Cells      []int     `json:"cells,omitempty"`
	Score      Score     `json:"scores"`
	FinishedAt time.Time `json:"finished_at"`
}

func (that *RoundResult) IsDraw() bool {
	return that.Winner == ""
}

// Stats aggregates finished rounds across all rooms.
type Stats struct {
	XWins  int64         `json:"x_wins"`
	OWins  int64         `json:"o_wins"`
	Draws  int64         `json:"draws"`
	Rounds int64         `json:"rounds"`
	Recent []RoundResult `json:"recent"`
}
