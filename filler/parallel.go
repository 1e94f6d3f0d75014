package filler

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// solveParallel splits the search at the root: every candidate word for the
// first variable becomes an independent branch with its own copy of the
// domains, and the first branch to find a fill wins. Branches never share
// mutable state, so no locking happens inside the search itself.
//
// Which fill wins can vary from run to run; callers who need reproducible
// output should use a single thread.
func (s *Solver) solveParallel(ctx context.Context) (Assignment, error) {
	if len(s.vars) == 0 {
		return Assignment{}, nil
	}
	v := s.selectUnassignedVariable(Assignment{})
	candidates := s.orderDomainValues(v)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var winner Assignment
	sawAbort := false

	log.Debug().Int("branches", len(candidates)).Int("threads", s.threads).
		Msg("starting parallel fill")

	g := errgroup.Group{}
	g.SetLimit(s.threads)
	for _, word := range candidates {
		g.Go(func() error {
			branch := s.branchCopy()
			assignment := Assignment{v: word}
			if !branch.consistent(assignment) {
				return nil
			}
			fill, err := branch.backtrack(ctx, assignment)
			if err != nil {
				mu.Lock()
				sawAbort = true
				mu.Unlock()
				return nil
			}
			if fill != nil {
				mu.Lock()
				if winner == nil {
					winner = fill.Copy()
					cancel()
				}
				mu.Unlock()
			}
			return nil
		})
	}
	// branch errors are collected via sawAbort; the group itself never
	// returns one
	_ = g.Wait()

	if winner != nil {
		return winner, nil
	}
	if sawAbort {
		return nil, ErrAborted
	}
	return nil, nil
}
