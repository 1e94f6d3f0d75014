// Package tictactoe implements an optimal tic-tac-toe player using
// depth-unlimited minimax with alpha-beta pruning. Boards are small value
// types; applying a move copies the board, so search needs no undo.
package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

// Board is a 3x3 grid. The zero value is the starting position.
type Board [3][3]Mark

type Move struct {
	Row int
	Col int
}

func (m Move) String() string {
	return fmt.Sprintf("%c%d", 'A'+m.Col, m.Row+1)
}

// ParseMove reads coordinates like "B2": column letter, then 1-based row.
func ParseMove(s string) (Move, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Move{}, errors.New("move must look like B2")
	}
	col := int(s[0] - 'A')
	row := int(s[1] - '1')
	if col < 0 || col > 2 || row < 0 || row > 2 {
		return Move{}, fmt.Errorf("move %v is off the board", s)
	}
	return Move{Row: row, Col: col}, nil
}

// Player returns whose turn it is. X always moves first.
func (b Board) Player() Mark {
	xs, os := 0, 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			switch b[i][j] {
			case X:
				xs++
			case O:
				os++
			}
		}
	}
	if xs <= os {
		return X
	}
	return O
}

// Actions returns the open cells in row-major order. The fixed order keeps
// minimax's choice reproducible.
func (b Board) Actions() []Move {
	var moves []Move
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if b[i][j] == Empty {
				moves = append(moves, Move{Row: i, Col: j})
			}
		}
	}
	return moves
}

// Play returns the board after the current player moves. It errors on
// occupied or out-of-board cells.
func (b Board) Play(m Move) (Board, error) {
	if m.Row < 0 || m.Row > 2 || m.Col < 0 || m.Col > 2 {
		return b, fmt.Errorf("move %v is off the board", m)
	}
	if b[m.Row][m.Col] != Empty {
		return b, fmt.Errorf("cell %v is already taken", m)
	}
	b[m.Row][m.Col] = b.Player()
	return b, nil
}

// Winner returns the mark with three in a row, if there is one.
func (b Board) Winner() (Mark, bool) {
	for i := 0; i < 3; i++ {
		if b[i][0] != Empty && b[i][0] == b[i][1] && b[i][1] == b[i][2] {
			return b[i][0], true
		}
		if b[0][i] != Empty && b[0][i] == b[1][i] && b[1][i] == b[2][i] {
			return b[0][i], true
		}
	}
	if b[1][1] != Empty {
		if b[0][0] == b[1][1] && b[1][1] == b[2][2] {
			return b[1][1], true
		}
		if b[0][2] == b[1][1] && b[1][1] == b[2][0] {
			return b[1][1], true
		}
	}
	return Empty, false
}

// Terminal reports whether the game is over: somebody won or the board is
// full.
func (b Board) Terminal() bool {
	if _, won := b.Winner(); won {
		return true
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if b[i][j] == Empty {
				return false
			}
		}
	}
	return true
}

// Utility scores a terminal board: 1 if X won, -1 if O won, 0 otherwise.
func (b Board) Utility() int {
	w, won := b.Winner()
	if !won {
		return 0
	}
	if w == X {
		return 1
	}
	return -1
}

const infinity = 1000000

// Minimax returns the optimal move for the current player. ok is false on
// terminal boards, where no move exists.
func Minimax(b Board) (move Move, ok bool) {
	if b.Terminal() {
		return Move{}, false
	}
	if b.Player() == X {
		_, move = maxValue(b, -infinity, infinity)
	} else {
		_, move = minValue(b, -infinity, infinity)
	}
	return move, true
}

func maxValue(b Board, alpha, beta int) (int, Move) {
	if b.Terminal() {
		return b.Utility(), Move{}
	}
	v := -infinity
	var best Move
	for _, action := range b.Actions() {
		next, _ := b.Play(action)
		mv, _ := minValue(next, alpha, beta)
		if mv > v {
			v = mv
			best = action
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break
		}
	}
	return v, best
}

func minValue(b Board, alpha, beta int) (int, Move) {
	if b.Terminal() {
		return b.Utility(), Move{}
	}
	v := infinity
	var best Move
	for _, action := range b.Actions() {
		next, _ := b.Play(action)
		mv, _ := maxValue(next, alpha, beta)
		if mv < v {
			v = mv
			best = action
		}
		if v < beta {
			beta = v
		}
		if beta <= alpha {
			break
		}
	}
	return v, best
}

// ToDisplayText draws the board with the same headers the crossword
// display uses.
func (b Board) ToDisplayText() string {
	var str string
	str += "   A B C\n"
	str += "   " + strings.Repeat("-", 6) + "\n"
	for i := 0; i < 3; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < 3; j++ {
			row += b[i][j].String() + " "
		}
		str += row + "|\n"
	}
	str += "   " + strings.Repeat("-", 6) + "\n"
	return "\n" + str
}
