package minesweeper

import (
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

// A Match pairs a hidden board with an agent playing it and tracks what has
// been revealed, for text-mode play.
type Match struct {
	Game  *Game
	Agent *Agent

	revealed map[Cell]int
	Lost     bool
	LastMove Cell
}

func NewMatch(height, width, numMines int, rng *frand.RNG) *Match {
	return &Match{
		Game:     NewGame(height, width, numMines, rng),
		Agent:    NewAgent(height, width, rng),
		revealed: make(map[Cell]int),
	}
}

// Reveal opens a cell. Opening a mine loses the match; otherwise the
// nearby-mine count goes to the agent as knowledge.
func (m *Match) Reveal(c Cell) error {
	if m.Lost || m.Won() {
		return fmt.Errorf("the game is over")
	}
	if c.Row < 0 || c.Row >= m.Game.height || c.Col < 0 || c.Col >= m.Game.width {
		return fmt.Errorf("cell %v is off the board", c)
	}
	if _, ok := m.revealed[c]; ok {
		return fmt.Errorf("cell %v is already open", c)
	}
	m.LastMove = c
	if m.Game.IsMine(c) {
		m.Lost = true
		return nil
	}
	count := m.Game.NearbyMines(c)
	m.revealed[c] = count
	m.Agent.AddKnowledge(c, count)
	return nil
}

// PlayAI makes one move for the agent: a known-safe cell if it has one, a
// random guess otherwise. known reports which kind it was.
func (m *Match) PlayAI() (move Cell, known bool, err error) {
	if move, ok := m.Agent.SafeMove(); ok {
		return move, true, m.Reveal(move)
	}
	move, ok := m.Agent.RandomMove()
	if !ok {
		return Cell{}, false, fmt.Errorf("no moves left")
	}
	return move, false, m.Reveal(move)
}

// Won reports whether every non-mine cell has been opened.
func (m *Match) Won() bool {
	return !m.Lost &&
		len(m.revealed) == m.Game.height*m.Game.width-m.Game.NumMines()
}

// Done reports whether the match is over, either way.
func (m *Match) Done() bool {
	return m.Lost || m.Won()
}

// ToDisplayText draws the player's view: counts for open cells, F for
// deduced mines, * for the fatal cell, dots for the unknown.
func (m *Match) ToDisplayText() string {
	var str string
	row := "   "
	for j := 0; j < m.Game.width; j++ {
		row = row + fmt.Sprintf("%c", 'A'+j) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", m.Game.width*2) + "\n"
	for i := 0; i < m.Game.height; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < m.Game.width; j++ {
			c := Cell{Row: i, Col: j}
			switch {
			case m.Lost && c == m.LastMove:
				row += "* "
			case m.Agent.mines[c]:
				row += "F "
			default:
				if n, ok := m.revealed[c]; ok {
					row += fmt.Sprintf("%d ", n)
				} else {
					row += ". "
				}
			}
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", m.Game.width*2) + "\n"
	return "\n" + str
}
