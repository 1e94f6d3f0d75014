// Package crossword models a crossword grid as a constraint satisfaction
// problem. The variables are the maximal runs of fillable cells in each
// direction, and the binary constraints come from the cells where two runs
// cross.
package crossword

import (
	"fmt"
)

type Direction uint8

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Across {
		return "across"
	}
	return "down"
}

const (
	// FillableRune marks a fillable cell in a grid template. Any other
	// rune, including a missing cell on a short line, is blocked.
	FillableRune = '_'
	// BlockedRune is the canonical blocked marker in our grid files.
	BlockedRune = '#'
)

// A Variable is one slot to fill: a maximal run of at least two fillable
// cells in a single direction. Its identity is the starting cell plus the
// direction; within one grid those also determine its length.
type Variable struct {
	Row    int
	Col    int
	Dir    Direction
	Length int
}

func (v Variable) String() string {
	return fmt.Sprintf("(%d,%d %v len %d)", v.Row, v.Col, v.Dir, v.Length)
}

// Cells returns the coordinates the variable covers, in word order.
func (v Variable) Cells() [][2]int {
	cells := make([][2]int, v.Length)
	for k := 0; k < v.Length; k++ {
		if v.Dir == Across {
			cells[k] = [2]int{v.Row, v.Col + k}
		} else {
			cells[k] = [2]int{v.Row + k, v.Col}
		}
	}
	return cells
}

// A Crossword is a parsed grid plus the word list available to fill it.
// Variables, neighbors and overlaps are computed once, up front; the fill
// algorithms only read them.
type Crossword struct {
	height   int
	width    int
	fillable [][]bool

	words     []string
	variables []Variable
	overlaps  map[[2]Variable][2]int
	neighbors map[Variable][]Variable
}

// New parses grid lines and computes the variable set and overlaps. The
// variable order is fixed: across runs in row-major order first, then down
// runs column by column. Ties elsewhere break on this order, so it must not
// change.
func New(grid []string, words []string) *Crossword {
	height := len(grid)
	width := 0
	rows := make([][]rune, height)
	for i, line := range grid {
		rows[i] = []rune(line)
		if len(rows[i]) > width {
			width = len(rows[i])
		}
	}
	cw := &Crossword{height: height, width: width, words: words}
	cw.fillable = make([][]bool, height)
	for i := range cw.fillable {
		cw.fillable[i] = make([]bool, width)
		for j, r := range rows[i] {
			cw.fillable[i][j] = r == FillableRune
		}
	}
	cw.findVariables()
	cw.computeOverlaps()
	return cw
}

func (cw *Crossword) findVariables() {
	for i := 0; i < cw.height; i++ {
		for j := 0; j < cw.width; {
			if !cw.fillable[i][j] {
				j++
				continue
			}
			start := j
			for j < cw.width && cw.fillable[i][j] {
				j++
			}
			if length := j - start; length > 1 {
				cw.variables = append(cw.variables,
					Variable{Row: i, Col: start, Dir: Across, Length: length})
			}
		}
	}
	for j := 0; j < cw.width; j++ {
		for i := 0; i < cw.height; {
			if !cw.fillable[i][j] {
				i++
				continue
			}
			start := i
			for i < cw.height && cw.fillable[i][j] {
				i++
			}
			if length := i - start; length > 1 {
				cw.variables = append(cw.variables,
					Variable{Row: start, Col: j, Dir: Down, Length: length})
			}
		}
	}
}

func (cw *Crossword) computeOverlaps() {
	cw.overlaps = make(map[[2]Variable][2]int)
	cw.neighbors = make(map[Variable][]Variable)
	for _, x := range cw.variables {
		for _, y := range cw.variables {
			if x == y {
				continue
			}
			xi, yi, ok := crossing(x, y)
			if !ok {
				continue
			}
			cw.overlaps[[2]Variable{x, y}] = [2]int{xi, yi}
			cw.neighbors[x] = append(cw.neighbors[x], y)
		}
	}
}

// crossing returns the index in x and in y of the cell the two runs share.
// Maximal runs can share at most one cell.
func crossing(x, y Variable) (int, int, bool) {
	cellIndex := make(map[[2]int]int, x.Length)
	for k, c := range x.Cells() {
		cellIndex[c] = k
	}
	for k, c := range y.Cells() {
		if xi, ok := cellIndex[c]; ok {
			return xi, k, true
		}
	}
	return 0, 0, false
}

func (cw *Crossword) Height() int {
	return cw.height
}

func (cw *Crossword) Width() int {
	return cw.width
}

// Fillable tells whether the cell at (row, col) accepts a letter. Cells
// outside the grid are not fillable.
func (cw *Crossword) Fillable(row, col int) bool {
	if row < 0 || row >= cw.height || col < 0 || col >= cw.width {
		return false
	}
	return cw.fillable[row][col]
}

// Variables returns the variables in their fixed declaration order. Callers
// must not modify the returned slice.
func (cw *Crossword) Variables() []Variable {
	return cw.variables
}

// Words returns the word list this crossword was built with.
func (cw *Crossword) Words() []string {
	return cw.words
}

// Neighbors returns the variables that cross v, in declaration order.
func (cw *Crossword) Neighbors(v Variable) []Variable {
	return cw.neighbors[v]
}

// Overlap returns the index in x and the index in y of their shared cell.
// ok is false when the variables do not cross.
func (cw *Crossword) Overlap(x, y Variable) (xi, yi int, ok bool) {
	o, found := cw.overlaps[[2]Variable{x, y}]
	if !found {
		return 0, 0, false
	}
	return o[0], o[1], true
}
