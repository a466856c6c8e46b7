package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
)

type Sign string

const (
	SignX     Sign = "x"
	SignO     Sign = "o"
	EmptyCell Sign = "*"
)

const (
	BoardSize = 3
	CellCount = BoardSize * BoardSize
)

// ParseSign - converts a wire value into a player sign.
func ParseSign(value string) (Sign, error) {
	switch sign := Sign(value); sign {
	case SignX, SignO:
		return sign, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidSign, value)
	}
}

func (that Sign) IsPlayer() bool {
	return that == SignX || that == SignO
}

// Opponent - returns the sign that moves after this one.
func (that Sign) Opponent() Sign {
	if that == SignX {
		return SignO
	}
	return SignX
}

// Board is a 3x3 grid, addressed either by (row, col) or by the linear index row*3+col.
type Board [BoardSize][BoardSize]Sign

func NewBoard() Board {
	var board Board
	for row := range board {
		for col := range board[row] {
			board[row][col] = EmptyCell
		}
	}
	return board
}

// ValidCell - reports whether the linear index addresses a cell of the board.
func ValidCell(cell int) bool {
	return cell >= 0 && cell < CellCount
}

func (that *Board) Cell(cell int) Sign {
	return that[cell/BoardSize][cell%BoardSize]
}

func (that *Board) Set(cell int, sign Sign) {
	that[cell/BoardSize][cell%BoardSize] = sign
}

func (that *Board) IsEmptyCell(cell int) bool {
	return !that.Cell(cell).IsPlayer()
}

func (that *Board) IsFull() bool {
	for cell := range CellCount {
		if that.IsEmptyCell(cell) {
			return false
		}
	}
	return true
}
