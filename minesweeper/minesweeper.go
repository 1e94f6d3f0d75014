// Package minesweeper implements a minesweeper board and a knowledge-based
// agent that plays it. The agent stores sentences of the form "these cells
// contain exactly N mines" and grinds them to a fixpoint: counts hitting
// zero or the set size mark cells safe or mined, and subset sentences
// produce difference sentences.
package minesweeper

import (
	"fmt"
	"sort"
	"strings"

	"lukechampine.com/frand"
)

type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func sortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
}

// Game is the hidden board. Only NearbyMines and IsMine ever reveal
// anything about it.
type Game struct {
	height int
	width  int
	mines  map[Cell]bool

	flagged map[Cell]bool
}

// NewGame places the given number of mines uniformly at random.
func NewGame(height, width, numMines int, rng *frand.RNG) *Game {
	if rng == nil {
		rng = frand.New()
	}
	g := &Game{
		height:  height,
		width:   width,
		mines:   make(map[Cell]bool),
		flagged: make(map[Cell]bool),
	}
	for len(g.mines) != numMines {
		c := Cell{Row: rng.Intn(height), Col: rng.Intn(width)}
		g.mines[c] = true
	}
	return g
}

// NewGameFromMines builds a board with a fixed mine layout.
func NewGameFromMines(height, width int, mines []Cell) *Game {
	g := &Game{
		height:  height,
		width:   width,
		mines:   make(map[Cell]bool),
		flagged: make(map[Cell]bool),
	}
	for _, c := range mines {
		g.mines[c] = true
	}
	return g
}

func (g *Game) Height() int { return g.height }
func (g *Game) Width() int  { return g.width }

func (g *Game) NumMines() int {
	return len(g.mines)
}

func (g *Game) IsMine(c Cell) bool {
	return g.mines[c]
}

// NearbyMines counts the mines within one row and column of the cell, not
// counting the cell itself.
func (g *Game) NearbyMines(c Cell) int {
	count := 0
	for i := c.Row - 1; i <= c.Row+1; i++ {
		for j := c.Col - 1; j <= c.Col+1; j++ {
			if i == c.Row && j == c.Col {
				continue
			}
			if i < 0 || i >= g.height || j < 0 || j >= g.width {
				continue
			}
			if g.mines[Cell{Row: i, Col: j}] {
				count++
			}
		}
	}
	return count
}

// Flag marks a cell the player believes is a mine.
func (g *Game) Flag(c Cell) {
	g.flagged[c] = true
}

// Won reports whether the flagged cells are exactly the mines.
func (g *Game) Won() bool {
	if len(g.flagged) != len(g.mines) {
		return false
	}
	for c := range g.mines {
		if !g.flagged[c] {
			return false
		}
	}
	return true
}

// A Sentence says that exactly Count of Cells are mines. Cells shrink as
// outside knowledge arrives via MarkMine and MarkSafe.
type Sentence struct {
	cells map[Cell]struct{}
	count int
}

func NewSentence(cells []Cell, count int) *Sentence {
	s := &Sentence{cells: make(map[Cell]struct{}, len(cells)), count: count}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	return s
}

func (s *Sentence) Count() int {
	return s.count
}

// Cells returns the sentence's cells sorted by row then column.
func (s *Sentence) Cells() []Cell {
	cells := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		cells = append(cells, c)
	}
	sortCells(cells)
	return cells
}

func (s *Sentence) Equal(o *Sentence) bool {
	if s.count != o.count || len(s.cells) != len(o.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

func (s *Sentence) String() string {
	parts := make([]string, 0, len(s.cells))
	for _, c := range s.Cells() {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, " "), s.count)
}

// KnownMines returns every cell of the sentence when all of them must be
// mines, i.e. when the count equals the set size.
func (s *Sentence) KnownMines() []Cell {
	if len(s.cells) > 0 && len(s.cells) == s.count {
		return s.Cells()
	}
	return nil
}

// KnownSafes returns every cell of the sentence when none of them can be a
// mine, i.e. when the count is zero.
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return s.Cells()
	}
	return nil
}

// MarkMine removes a known mine from the sentence, decrementing the count.
func (s *Sentence) MarkMine(c Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
		s.count--
	}
}

// MarkSafe removes a known safe cell from the sentence.
func (s *Sentence) MarkSafe(c Cell) {
	delete(s.cells, c)
}

// subsetOf reports whether every cell of s appears in o.
func (s *Sentence) subsetOf(o *Sentence) bool {
	if len(s.cells) > len(o.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

// minus returns the sentence for o's cells not in s, with the leftover
// count. Caller guarantees s is a subset of o.
func (s *Sentence) minus(o *Sentence) *Sentence {
	diff := &Sentence{cells: make(map[Cell]struct{}), count: o.count - s.count}
	for c := range o.cells {
		if _, ok := s.cells[c]; !ok {
			diff.cells[c] = struct{}{}
		}
	}
	return diff
}
