package minesweeper

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"
)

func testRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func TestSentenceKnown(t *testing.T) {
	is := is.New(t)
	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 3)
	is.Equal(s.KnownMines(), []Cell{{0, 0}, {0, 1}, {0, 2}})
	is.Equal(len(s.KnownSafes()), 0)

	s = NewSentence([]Cell{{0, 0}, {0, 1}}, 0)
	is.Equal(s.KnownSafes(), []Cell{{0, 0}, {0, 1}})
	is.Equal(len(s.KnownMines()), 0)

	// Undetermined either way.
	s = NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	is.Equal(len(s.KnownMines()), 0)
	is.Equal(len(s.KnownSafes()), 0)
}

func TestSentenceMark(t *testing.T) {
	is := is.New(t)
	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)

	// Marking a cell the sentence doesn't mention changes nothing.
	s.MarkMine(Cell{5, 5})
	is.Equal(s.Count(), 1)
	is.Equal(len(s.Cells()), 3)

	s.MarkSafe(Cell{0, 0})
	is.Equal(s.Count(), 1)
	is.Equal(s.Cells(), []Cell{{0, 1}, {0, 2}})

	s.MarkMine(Cell{0, 1})
	is.Equal(s.Count(), 0)
	is.Equal(s.Cells(), []Cell{{0, 2}})
	is.Equal(s.KnownSafes(), []Cell{{0, 2}})
}

func TestSentenceEqual(t *testing.T) {
	is := is.New(t)
	a := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	b := NewSentence([]Cell{{0, 1}, {0, 0}}, 1)
	c := NewSentence([]Cell{{0, 0}, {0, 1}}, 2)
	is.True(a.Equal(b))
	is.True(!a.Equal(c))
}

func TestNearbyMines(t *testing.T) {
	is := is.New(t)
	g := NewGameFromMines(3, 3, []Cell{{0, 0}, {1, 1}, {2, 2}})
	is.Equal(g.NearbyMines(Cell{0, 1}), 2)
	is.Equal(g.NearbyMines(Cell{1, 1}), 2) // the cell itself doesn't count
	is.Equal(g.NearbyMines(Cell{2, 0}), 1)
	is.Equal(g.NearbyMines(Cell{0, 2}), 1)
}

func TestGameWon(t *testing.T) {
	is := is.New(t)
	g := NewGameFromMines(2, 2, []Cell{{0, 0}, {1, 1}})
	is.True(!g.Won())
	g.Flag(Cell{0, 0})
	is.True(!g.Won())
	g.Flag(Cell{1, 1})
	is.True(g.Won())
	// A wrong flag spoils it.
	g.Flag(Cell{0, 1})
	is.True(!g.Won())
}

func TestNewGameMineCount(t *testing.T) {
	is := is.New(t)
	g := NewGame(8, 8, 10, testRNG())
	is.Equal(g.NumMines(), 10)
}

func TestAddKnowledgeZeroCascade(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	a := NewAgent(8, 8, nil)
	a.AddKnowledge(Cell{0, 0}, 0)

	// A zero count makes every neighbor safe.
	is.Equal(a.KnownSafes(), []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}})

	move, ok := a.SafeMove()
	is.True(ok)
	is.Equal(move, Cell{0, 1})
}

func TestSubsetInference(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	a := NewAgent(1, 4, nil)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{0, 0}, {0, 1}}, 1),
		NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, 2),
	)
	a.updateKnowledge()

	want := NewSentence([]Cell{{0, 2}, {0, 3}}, 1)
	found := false
	for _, s := range a.knowledge {
		if s.Equal(want) {
			found = true
		}
	}
	is.True(found)
}

func TestMineDeductionCascade(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)

	// 1x5 board with a mine on (0,2). Feed the agent the counts a real
	// game would produce and watch it pin the mine down.
	a := NewAgent(1, 5, nil)
	a.AddKnowledge(Cell{0, 0}, 0)
	a.AddKnowledge(Cell{0, 1}, 1)
	is.Equal(a.KnownMines(), []Cell{{0, 2}})

	a.AddKnowledge(Cell{0, 3}, 1)
	is.Equal(a.KnownMines(), []Cell{{0, 2}})

	move, ok := a.SafeMove()
	is.True(ok)
	is.Equal(move, Cell{0, 4})
}

func TestSafeMoveNone(t *testing.T) {
	is := is.New(t)
	a := NewAgent(2, 2, nil)
	_, ok := a.SafeMove()
	is.True(!ok)
}

func TestRandomMoveAvoidsMinesAndMoves(t *testing.T) {
	is := is.New(t)
	a := NewAgent(1, 3, testRNG())
	a.MarkMine(Cell{0, 0})
	a.movesMade[Cell{0, 2}] = true
	move, ok := a.RandomMove()
	is.True(ok)
	is.Equal(move, Cell{0, 1})

	a.MarkMine(Cell{0, 1})
	_, ok = a.RandomMove()
	is.True(!ok)
}

func TestRandomMoveDeterministic(t *testing.T) {
	is := is.New(t)
	a := NewAgent(4, 4, testRNG())
	b := NewAgent(4, 4, testRNG())
	for i := 0; i < 5; i++ {
		am, aok := a.RandomMove()
		bm, bok := b.RandomMove()
		is.True(aok && bok)
		is.Equal(am, bm)
		a.movesMade[am] = true
		b.movesMade[bm] = true
	}
}

func TestMatchReveal(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	m := &Match{
		Game:     NewGameFromMines(2, 2, []Cell{{1, 1}}),
		Agent:    NewAgent(2, 2, nil),
		revealed: make(map[Cell]int),
	}
	is.NoErr(m.Reveal(Cell{0, 0}))
	is.Equal(m.revealed[Cell{0, 0}], 1)
	is.True(!m.Done())

	err := m.Reveal(Cell{0, 0})
	is.True(err != nil) // already open

	err = m.Reveal(Cell{5, 5})
	is.True(err != nil) // off the board

	is.NoErr(m.Reveal(Cell{0, 1}))
	is.NoErr(m.Reveal(Cell{1, 0}))
	is.True(m.Won())
	is.True(m.Done())

	err = m.Reveal(Cell{1, 1})
	is.True(err != nil) // the game is over
}

func TestMatchLoss(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	m := &Match{
		Game:     NewGameFromMines(2, 2, []Cell{{1, 1}}),
		Agent:    NewAgent(2, 2, nil),
		revealed: make(map[Cell]int),
	}
	is.NoErr(m.Reveal(Cell{1, 1}))
	is.True(m.Lost)
	is.True(m.Done())
	is.True(!m.Won())
	is.True(strings.Contains(m.ToDisplayText(), "*"))
}

func TestMatchPlayAIPrefersSafe(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	m := &Match{
		Game:     NewGameFromMines(3, 3, []Cell{{2, 2}}),
		Agent:    NewAgent(3, 3, nil),
		revealed: make(map[Cell]int),
	}
	// (0,0) has no mined neighbors, so the agent learns three safe cells.
	is.NoErr(m.Reveal(Cell{0, 0}))
	move, known, err := m.PlayAI()
	is.NoErr(err)
	is.True(known)
	is.Equal(move, Cell{0, 1})
}

func TestMatchDisplay(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	m := &Match{
		Game:     NewGameFromMines(2, 3, []Cell{{0, 2}}),
		Agent:    NewAgent(2, 3, nil),
		revealed: make(map[Cell]int),
	}
	is.NoErr(m.Reveal(Cell{0, 0}))
	text := m.ToDisplayText()
	is.True(strings.Contains(text, "A B C"))
	is.True(strings.Contains(text, " 1|0 "))
	is.True(strings.Contains(text, "."))
}

func TestAgentKnowledgePrunesEmpty(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	a := NewAgent(1, 5, nil)
	a.AddKnowledge(Cell{0, 0}, 0)
	a.AddKnowledge(Cell{0, 1}, 1)
	// Everything deduced so far collapses to marks; no sentences remain.
	is.Equal(len(a.Sentences()), 0)
}
