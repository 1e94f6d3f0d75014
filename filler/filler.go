// Package filler fills crossword grids. It treats the grid as a constraint
// satisfaction problem: node consistency and AC-3 prune each slot's domain,
// and a backtracking search with MRV and least-constraining-value orderings
// finds a complete fill, if one exists.
package filler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/crossword"
)

var (
	// ErrNoFill means the search space was exhausted; the grid has no fill
	// with this word list. This is an expected outcome, not a failure of
	// the solver.
	ErrNoFill = errors.New("no fill exists for this grid and word list")
	// ErrAborted means the search stopped early, because the context was
	// canceled or the node budget ran out. Nothing can be said about
	// whether a fill exists.
	ErrAborted = errors.New("fill search aborted")
)

// An Assignment maps variables to the words filled into them.
type Assignment map[crossword.Variable]string

// Copy returns an independent copy of the assignment.
func (a Assignment) Copy() Assignment {
	c := make(Assignment, len(a))
	for v, w := range a {
		c[v] = w
	}
	return c
}

// Solver holds the mutable state of one fill: the domains it is whittling
// down and the node counter. A Solver is not safe for concurrent use; the
// parallel search gives every branch its own copy.
type Solver struct {
	cw      *crossword.Crossword
	vars    []crossword.Variable
	domains map[crossword.Variable][]string

	// nodes is shared between branch copies so the budget is global.
	nodes      *atomic.Uint64
	nodeBudget uint64
	threads    int
}

// NewSolver creates a solver for the given crossword. Every variable starts
// with the full word list as its domain, in word-list order; all pruning
// preserves that order, which is what makes fills reproducible.
func NewSolver(cw *crossword.Crossword) *Solver {
	s := &Solver{
		cw:      cw,
		vars:    cw.Variables(),
		nodes:   new(atomic.Uint64),
		threads: 1,
	}
	s.domains = make(map[crossword.Variable][]string, len(s.vars))
	for _, v := range s.vars {
		s.domains[v] = append([]string(nil), cw.Words()...)
	}
	return s
}

// SetNodeBudget limits how many search nodes one Solve may visit. Zero
// means no limit. A fill that runs out of budget returns ErrAborted.
func (s *Solver) SetNodeBudget(budget uint64) {
	s.nodeBudget = budget
}

// SetThreads sets how many top-level branches may be searched concurrently.
func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// Nodes returns how many search nodes the last Solve visited.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Solve finds a complete, consistent fill. It returns ErrNoFill if the
// search space is exhausted, and ErrAborted if the context is canceled or
// the node budget runs out first.
func (s *Solver) Solve(ctx context.Context) (Assignment, error) {
	start := time.Now()
	s.nodes.Store(0)

	s.enforceNodeConsistency()
	ok, err := s.enforceArcConsistency(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Msg("a domain emptied during propagation; no fill")
		return nil, ErrNoFill
	}

	var fill Assignment
	if s.threads > 1 {
		fill, err = s.solveParallel(ctx)
	} else {
		fill, err = s.backtrack(ctx, Assignment{})
	}
	if err != nil {
		return nil, err
	}
	if fill == nil {
		return nil, ErrNoFill
	}
	log.Debug().Uint64("nodes", s.Nodes()).
		Str("elapsed", time.Since(start).String()).
		Msg("fill found")
	return fill, nil
}

// abortCheck reports ErrAborted once the context is done or the node budget
// is spent.
func (s *Solver) abortCheck(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrAborted
	}
	if s.nodeBudget > 0 && s.nodes.Load() > s.nodeBudget {
		return ErrAborted
	}
	return nil
}

// branchCopy clones the solver for an independent search branch. Domains
// are deep-copied; the crossword and the node counter are shared.
func (s *Solver) branchCopy() *Solver {
	c := &Solver{
		cw:         s.cw,
		vars:       s.vars,
		nodes:      s.nodes,
		nodeBudget: s.nodeBudget,
		threads:    1,
	}
	c.domains = make(map[crossword.Variable][]string, len(s.domains))
	for v, d := range s.domains {
		c.domains[v] = append([]string(nil), d...)
	}
	return c
}

// letterAt returns the letter at the given cell index of a word. Words are
// indexed by letter, not by byte, so multibyte letters behave.
func letterAt(word string, idx int) rune {
	for _, r := range word {
		if idx == 0 {
			return r
		}
		idx--
	}
	return utf8.RuneError
}

// letterCount is the number of cells a word occupies.
func letterCount(word string) int {
	return utf8.RuneCountInString(word)
}
