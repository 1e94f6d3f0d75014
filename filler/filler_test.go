package filler

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/castell9/gofai/crossword"
)

// crossGrid has one across variable at row 0 and one down variable at col 1,
// crossing at (0,1): index 1 of the across word, index 0 of the down word.
var crossGrid = []string{
	"___",
	"#_#",
	"#_#",
}

var crossWords = []string{"CAT", "DOG", "ACE"}

// waffleGrid is a 5x5 grid with three across and two down variables, all of
// length 5.
var waffleGrid = []string{
	"_____",
	"#_#_#",
	"_____",
	"#_#_#",
	"_____",
}

var waffleWords = []string{
	"CRANE", "MONEY", "STEED", "ROOST", "NIECE",
	"APPLE", "GRAPE", "LEMON", "BERRY", "MANGO",
	"TIGER", "SNAKE", "EAGLE", "OTTER", "ZEBRA",
}

func newTestSolver(grid, words []string) *Solver {
	return NewSolver(crossword.New(grid, words))
}

func acrossVar() crossword.Variable {
	return crossword.Variable{Row: 0, Col: 0, Dir: crossword.Across, Length: 3}
}

func downVar() crossword.Variable {
	return crossword.Variable{Row: 0, Col: 1, Dir: crossword.Down, Length: 3}
}

func TestNodeConsistency(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, []string{"CAT", "HOUSE", "DOG", "AT", "ACE"})
	s.enforceNodeConsistency()
	is.Equal(s.domains[acrossVar()], []string{"CAT", "DOG", "ACE"})
	is.Equal(s.domains[downVar()], []string{"CAT", "DOG", "ACE"})

	// a second pass changes nothing
	s.enforceNodeConsistency()
	is.Equal(s.domains[acrossVar()], []string{"CAT", "DOG", "ACE"})
}

func TestReviseDropsUnsupported(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	// DOG's crossing letter O has no support among first letters C, D, A
	revised := s.revise(acrossVar(), downVar())
	is.True(revised)
	is.Equal(s.domains[acrossVar()], []string{"CAT", "ACE"})
	// y's domain is never touched by revise(x, y)
	is.Equal(s.domains[downVar()], []string{"CAT", "DOG", "ACE"})
}

func TestReviseNonCrossingPairIsNoop(t *testing.T) {
	is := is.New(t)
	// two across variables that never touch
	grid := []string{
		"___",
		"###",
		"___",
	}
	s := newTestSolver(grid, crossWords)
	s.enforceNodeConsistency()
	vars := s.vars
	is.Equal(len(vars), 2)
	revised := s.revise(vars[0], vars[1])
	is.True(!revised)
	is.Equal(s.domains[vars[0]], []string{"CAT", "DOG", "ACE"})
	is.Equal(s.domains[vars[1]], []string{"CAT", "DOG", "ACE"})
}

func TestArcConsistency(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	ok, err := s.enforceArcConsistency(context.Background(), nil)
	is.NoErr(err)
	is.True(ok)
	is.Equal(s.domains[acrossVar()], []string{"CAT", "ACE"})
	is.Equal(s.domains[downVar()], []string{"CAT", "ACE"})
}

func TestArcConsistencyIdempotent(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	ok, err := s.enforceArcConsistency(context.Background(), nil)
	is.NoErr(err)
	is.True(ok)
	first := map[crossword.Variable][]string{}
	for v, d := range s.domains {
		first[v] = append([]string(nil), d...)
	}
	ok, err = s.enforceArcConsistency(context.Background(), nil)
	is.NoErr(err)
	is.True(ok)
	is.Equal(s.domains, first)
}

func isSubsequence(sub, full []string) bool {
	i := 0
	for _, w := range full {
		if i < len(sub) && sub[i] == w {
			i++
		}
	}
	return i == len(sub)
}

func TestPruningPreservesOrder(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(waffleGrid, waffleWords)
	before := map[crossword.Variable][]string{}
	for v, d := range s.domains {
		before[v] = append([]string(nil), d...)
	}
	s.enforceNodeConsistency()
	ok, err := s.enforceArcConsistency(context.Background(), nil)
	is.NoErr(err)
	is.True(ok)
	// domains only ever shrink, keeping word-list order
	for v, d := range s.domains {
		is.True(isSubsequence(d, before[v]))
	}
}

func TestArcConsistencyExplicitArcs(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	arcs := [][2]crossword.Variable{{acrossVar(), downVar()}}
	ok, err := s.enforceArcConsistency(context.Background(), arcs)
	is.NoErr(err)
	is.True(ok)
	is.Equal(s.domains[acrossVar()], []string{"CAT", "ACE"})
	// the reverse arc was not given, but revising across re-enqueues
	// nothing here, so down keeps DOG
	is.Equal(s.domains[downVar()], []string{"CAT", "DOG", "ACE"})
}

func TestArcConsistencyWipeout(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, []string{"DOG", "TIP"})
	s.enforceNodeConsistency()
	// down's first letters D, T support neither G nor I at the crossing
	ok, err := s.enforceArcConsistency(context.Background(), nil)
	is.NoErr(err)
	is.True(!ok)
}

func TestOrderDomainValuesLeastConstrainingFirst(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	// make ACE the only word down could still use
	s.domains[downVar()] = []string{"ACE"}
	ordered := s.orderDomainValues(acrossVar())
	// CAT rules out nothing for down; ACE would consume its only option
	is.Equal(ordered, []string{"CAT", "DOG", "ACE"})
}

func TestOrderDomainValuesStableOnTies(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	// every word appears in the neighbor's domain, so all counts tie and
	// word-list order is kept
	is.Equal(s.orderDomainValues(acrossVar()), []string{"CAT", "DOG", "ACE"})
}

func TestSelectUnassignedVariableMRV(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()
	s.domains[downVar()] = []string{"ACE"}
	is.Equal(s.selectUnassignedVariable(Assignment{}), downVar())
	// ties break toward declaration order
	s.domains[downVar()] = []string{"CAT", "DOG", "ACE"}
	is.Equal(s.selectUnassignedVariable(Assignment{}), acrossVar())
}

func TestConsistent(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.enforceNodeConsistency()

	is.True(s.consistent(Assignment{acrossVar(): "CAT", downVar(): "ACE"}))
	// crossing letters disagree: CAT[1] = A, CAB[0] = C
	is.True(!s.consistent(Assignment{acrossVar(): "CAT", downVar(): "CAB"}))
	// the same word twice is never allowed
	is.True(!s.consistent(Assignment{acrossVar(): "CAT", downVar(): "CAT"}))
	// partial assignments are fine
	is.True(s.consistent(Assignment{acrossVar(): "CAT"}))
}

func TestSolveCrossing(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	s := newTestSolver(crossGrid, crossWords)
	fill, err := s.Solve(context.Background())
	is.NoErr(err)
	// MRV ties at the across variable; CAT sorts first and survives, and
	// ACE is the only word left that can cross it
	is.Equal(fill, Assignment{
		acrossVar(): "CAT",
		downVar():   "ACE",
	})
	is.Equal(s.Nodes(), uint64(3))
}

func TestSolveDeterministic(t *testing.T) {
	is := is.New(t)
	a, err := newTestSolver(waffleGrid, waffleWords).Solve(context.Background())
	is.NoErr(err)
	b, err := newTestSolver(waffleGrid, waffleWords).Solve(context.Background())
	is.NoErr(err)
	is.Equal(a, b)
}

func checkValidFill(t *testing.T, cw *crossword.Crossword, fill Assignment) {
	t.Helper()
	is := is.New(t)
	is.Equal(len(fill), len(cw.Variables()))
	used := map[string]bool{}
	for _, v := range cw.Variables() {
		word := fill[v]
		is.Equal(letterCount(word), v.Length)
		is.True(!used[word])
		used[word] = true
		for _, n := range cw.Neighbors(v) {
			xi, yi, ok := cw.Overlap(v, n)
			is.True(ok)
			is.Equal(letterAt(word, xi), letterAt(fill[n], yi))
		}
	}
}

func TestSolveWaffle(t *testing.T) {
	is := is.New(t)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	cw := crossword.New(waffleGrid, waffleWords)
	s := NewSolver(cw)
	fill, err := s.Solve(context.Background())
	is.NoErr(err)
	checkValidFill(t, cw, fill)
}

func TestSolveParallel(t *testing.T) {
	is := is.New(t)
	cw := crossword.New(waffleGrid, waffleWords)
	s := NewSolver(cw)
	s.SetThreads(3)
	fill, err := s.Solve(context.Background())
	is.NoErr(err)
	checkValidFill(t, cw, fill)
}

func TestSolveGlobalUniqueness(t *testing.T) {
	is := is.New(t)
	// two disjoint slots but only one word of the right length
	grid := []string{
		"___",
		"###",
		"___",
	}
	_, err := newTestSolver(grid, []string{"CAT"}).Solve(context.Background())
	is.True(err == ErrNoFill)

	fill, err := newTestSolver(grid, []string{"CAT", "DOG"}).Solve(context.Background())
	is.NoErr(err)
	is.True(fill[grid0()] != fill[grid2()])
}

func grid0() crossword.Variable {
	return crossword.Variable{Row: 0, Col: 0, Dir: crossword.Across, Length: 3}
}

func grid2() crossword.Variable {
	return crossword.Variable{Row: 2, Col: 0, Dir: crossword.Across, Length: 3}
}

func TestSolveNoLengthMatches(t *testing.T) {
	is := is.New(t)
	_, err := newTestSolver(crossGrid, []string{"HOUSE", "BRIDGE"}).Solve(context.Background())
	is.True(err == ErrNoFill)
}

func TestSolveEmptyGrid(t *testing.T) {
	is := is.New(t)
	fill, err := newTestSolver([]string{"###", "###"}, crossWords).Solve(context.Background())
	is.NoErr(err)
	is.Equal(fill, Assignment{})

	// an empty word list is fine when there is nothing to fill
	fill, err = newTestSolver(nil, nil).Solve(context.Background())
	is.NoErr(err)
	is.Equal(fill, Assignment{})
}

func TestSolveEmptyWordList(t *testing.T) {
	is := is.New(t)
	_, err := newTestSolver(crossGrid, nil).Solve(context.Background())
	is.True(err == ErrNoFill)
}

func TestSolveNodeBudget(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(crossGrid, crossWords)
	s.SetNodeBudget(1)
	_, err := s.Solve(context.Background())
	is.True(err == ErrAborted)
}

func TestSolveCanceledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestSolver(crossGrid, crossWords).Solve(ctx)
	is.True(err == ErrAborted)
}

func BenchmarkSolveWaffle(b *testing.B) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	cw := crossword.New(waffleGrid, waffleWords)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewSolver(cw)
		if _, err := s.Solve(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
