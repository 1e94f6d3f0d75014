package minesweeper

import (
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// Agent accumulates knowledge about a board it cannot see. It is told the
// nearby-mine count of every cell it opens and deduces safe cells and mines
// from the sentences those counts produce.
type Agent struct {
	height int
	width  int

	movesMade map[Cell]bool
	mines     map[Cell]bool
	safes     map[Cell]bool
	knowledge []*Sentence

	rng *frand.RNG
}

func NewAgent(height, width int, rng *frand.RNG) *Agent {
	if rng == nil {
		rng = frand.New()
	}
	return &Agent{
		height:    height,
		width:     width,
		movesMade: make(map[Cell]bool),
		mines:     make(map[Cell]bool),
		safes:     make(map[Cell]bool),
		rng:       rng,
	}
}

// MarkMine records a cell as a mine and updates every sentence.
func (a *Agent) MarkMine(c Cell) {
	a.mines[c] = true
	for _, s := range a.knowledge {
		s.MarkMine(c)
	}
}

// MarkSafe records a cell as safe and updates every sentence.
func (a *Agent) MarkSafe(c Cell) {
	a.safes[c] = true
	for _, s := range a.knowledge {
		s.MarkSafe(c)
	}
}

// AddKnowledge is called when a safe cell has been opened and its
// nearby-mine count revealed. It adds the corresponding sentence and chases
// every deduction that follows from it.
func (a *Agent) AddKnowledge(cell Cell, count int) {
	a.movesMade[cell] = true
	a.MarkSafe(cell)

	var unknown []Cell
	for i := cell.Row - 1; i <= cell.Row+1; i++ {
		for j := cell.Col - 1; j <= cell.Col+1; j++ {
			if i == cell.Row && j == cell.Col {
				continue
			}
			if i < 0 || i >= a.height || j < 0 || j >= a.width {
				continue
			}
			n := Cell{Row: i, Col: j}
			switch {
			case a.mines[n]:
				count--
			case !a.safes[n]:
				unknown = append(unknown, n)
			}
		}
	}
	if len(unknown) > 0 {
		a.knowledge = append(a.knowledge, NewSentence(unknown, count))
	}

	a.updateKnowledge()
}

// updateKnowledge runs deductions to a fixpoint: mark everything the
// sentences force, drop emptied sentences, and add the difference sentence
// for every subset pair.
func (a *Agent) updateKnowledge() {
	for changed := true; changed; {
		changed = false

		var safes, mines []Cell
		for _, s := range a.knowledge {
			safes = append(safes, s.KnownSafes()...)
			mines = append(mines, s.KnownMines()...)
		}
		for _, c := range safes {
			if !a.safes[c] {
				a.MarkSafe(c)
				changed = true
			}
		}
		for _, c := range mines {
			if !a.mines[c] {
				a.MarkMine(c)
				changed = true
			}
		}

		kept := a.knowledge[:0]
		for _, s := range a.knowledge {
			if len(s.cells) > 0 {
				kept = append(kept, s)
			}
		}
		a.knowledge = kept

		var inferred []*Sentence
		for _, s1 := range a.knowledge {
			for _, s2 := range a.knowledge {
				if s1 == s2 || s1.Equal(s2) || !s1.subsetOf(s2) {
					continue
				}
				diff := s1.minus(s2)
				if !a.hasSentence(diff) && !containsSentence(inferred, diff) {
					inferred = append(inferred, diff)
				}
			}
		}
		if len(inferred) > 0 {
			a.knowledge = append(a.knowledge, inferred...)
			changed = true
		}
	}
	log.Debug().Int("sentences", len(a.knowledge)).
		Int("safes", len(a.safes)).Int("mines", len(a.mines)).
		Msg("knowledge updated")
}

func (a *Agent) hasSentence(s *Sentence) bool {
	return containsSentence(a.knowledge, s)
}

func containsSentence(list []*Sentence, s *Sentence) bool {
	for _, o := range list {
		if o.Equal(s) {
			return true
		}
	}
	return false
}

// SafeMove returns a cell known to be safe that has not been opened yet.
// Cells are scanned row-major so the choice is reproducible.
func (a *Agent) SafeMove() (Cell, bool) {
	for i := 0; i < a.height; i++ {
		for j := 0; j < a.width; j++ {
			c := Cell{Row: i, Col: j}
			if a.safes[c] && !a.movesMade[c] {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// RandomMove returns a uniformly random cell that has not been opened and
// is not a known mine. ok is false when no such cell remains.
func (a *Agent) RandomMove() (Cell, bool) {
	var choices []Cell
	for i := 0; i < a.height; i++ {
		for j := 0; j < a.width; j++ {
			c := Cell{Row: i, Col: j}
			if !a.movesMade[c] && !a.mines[c] {
				choices = append(choices, c)
			}
		}
	}
	if len(choices) == 0 {
		return Cell{}, false
	}
	return choices[a.rng.Intn(len(choices))], true
}

// KnownMines returns the cells the agent has deduced are mines, sorted.
func (a *Agent) KnownMines() []Cell {
	cells := make([]Cell, 0, len(a.mines))
	for c := range a.mines {
		cells = append(cells, c)
	}
	sortCells(cells)
	return cells
}

// KnownSafes returns the cells the agent has deduced are safe, sorted.
func (a *Agent) KnownSafes() []Cell {
	cells := make([]Cell, 0, len(a.safes))
	for c := range a.safes {
		cells = append(cells, c)
	}
	sortCells(cells)
	return cells
}

// Sentences returns the current knowledge base.
func (a *Agent) Sentences() []*Sentence {
	return a.knowledge
}
