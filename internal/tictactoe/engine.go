package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// winLines are checked in this order: rows top to bottom, columns left to right,
// main diagonal, anti-diagonal. The first complete line wins.
var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Win
	Draw
)

// Line is a completed line: the sign holding it and its linear cell indices.
type Line struct {
	Sign  entity.Sign
	Cells [3]int
}

// Outcome describes the result of one accepted move.
type Outcome struct {
	Kind OutcomeKind
	// Board is the board right after the move, before a finished round is reset.
	Board entity.Board
	Line  Line
	// Round is the number of the round the move was played in.
	Round int
	Score entity.Score
}

func (that *Outcome) IsTerminal() bool {
	return that.Kind == Win || that.Kind == Draw
}

// CheckWin - returns the first complete line on the board.
func CheckWin(board entity.Board) (Line, bool) {
	for _, cells := range winLines {
		a, b, c := board.Cell(cells[0]), board.Cell(cells[1]), board.Cell(cells[2])
		if a.IsPlayer() && a == b && b == c {
			return Line{Sign: a, Cells: cells}, true
		}
	}

	return Line{}, false
}

// CheckDraw - reports whether the board is full with no complete line.
func CheckDraw(board entity.Board) bool {
	if !board.IsFull() {
		return false
	}

	_, won := CheckWin(board)
	return !won
}

// ApplyMove - validates the move against the sign allowed to move and writes it to the board.
// The board is left untouched when the move is rejected.
func ApplyMove(board *entity.Board, toMove, sign entity.Sign, cell int) error {
	if !entity.ValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if sign != toMove {
		return apperror.ErrNotYourTurn
	}

	if !board.IsEmptyCell(cell) {
		return apperror.ErrCellOccupied
	}

	board.Set(cell, sign)

	return nil
}

// Play - applies a move to the room, evaluates the round and keeps the score.
// A finished round immediately starts the next one, so the room is always ready for a move.
func Play(room *entity.Room, sign entity.Sign, cell int) (Outcome, error) {
	if !room.IsReady() {
		return Outcome{}, apperror.ErrGameIsNotStarted
	}

	if err := ApplyMove(&room.Board, room.Turn, sign, cell); err != nil {
		return Outcome{}, fmt.Errorf("invalid turn: %w", err)
	}

	outcome := Outcome{
		Kind:  Continue,
		Board: room.Board,
		Round: room.CurrentRound(),
	}

	if line, ok := CheckWin(room.Board); ok {
		outcome.Kind = Win
		outcome.Line = line
		room.Score.AddWin(line.Sign)
		NewRound(room)
	} else if CheckDraw(room.Board) {
		outcome.Kind = Draw
		room.Score.Draws++
		NewRound(room)
	} else {
		room.Turn = room.Turn.Opponent()
	}

	outcome.Score = room.Score

	return outcome, nil
}

// NewRound - counts the finished round and resets the board; the score is kept.
func NewRound(room *entity.Room) {
	room.Rounds++
	room.Board = entity.NewBoard()
	room.Turn = entity.SignX
}
