package filler

import (
	"context"
	"sort"

	"github.com/castell9/gofai/crossword"
)

// thanks Wikipedia:
/*
function BACKTRACK(assignment, csp) is
    if assignment is complete then
        return assignment
    var := SELECT-UNASSIGNED-VARIABLE(csp, assignment)
    for each value in ORDER-DOMAIN-VALUES(csp, var, assignment) do
        add {var = value} to assignment
        if assignment is consistent then
            result := BACKTRACK(assignment, csp)
            if result ≠ failure then
                return result
        remove {var = value} from assignment
    return failure
**/

// backtrack runs the depth-first search. It returns (nil, nil) when this
// branch is exhausted without a fill, and (nil, ErrAborted) when the search
// must stop entirely.
func (s *Solver) backtrack(ctx context.Context, assignment Assignment) (Assignment, error) {
	s.nodes.Add(1)
	if err := s.abortCheck(ctx); err != nil {
		return nil, err
	}
	if len(assignment) == len(s.vars) {
		return assignment, nil
	}
	v := s.selectUnassignedVariable(assignment)
	for _, word := range s.orderDomainValues(v) {
		assignment[v] = word
		if s.consistent(assignment) {
			result, err := s.backtrack(ctx, assignment)
			if err != nil {
				return nil, err
			}
			if result != nil {
				return result, nil
			}
		}
		delete(assignment, v)
	}
	return nil, nil
}

// selectUnassignedVariable picks the unassigned variable with the smallest
// domain (minimum remaining values). Ties go to the earliest variable in
// declaration order.
func (s *Solver) selectUnassignedVariable(assignment Assignment) crossword.Variable {
	var best crossword.Variable
	bestSize := -1
	for _, v := range s.vars {
		if _, assigned := assignment[v]; assigned {
			continue
		}
		if size := len(s.domains[v]); bestSize == -1 || size < bestSize {
			best = v
			bestSize = size
		}
	}
	return best
}

// orderDomainValues orders v's domain least-constraining first: ascending
// by how many neighboring domains contain the word. The sort is stable, so
// ties keep word-list order.
func (s *Solver) orderDomainValues(v crossword.Variable) []string {
	neighbors := s.cw.Neighbors(v)
	sets := make([]map[string]struct{}, len(neighbors))
	for i, n := range neighbors {
		sets[i] = make(map[string]struct{}, len(s.domains[n]))
		for _, w := range s.domains[n] {
			sets[i][w] = struct{}{}
		}
	}
	counts := make(map[string]int, len(s.domains[v]))
	for _, w := range s.domains[v] {
		c := 0
		for i := range sets {
			if _, ok := sets[i][w]; ok {
				c++
			}
		}
		counts[w] = c
	}
	ordered := append([]string(nil), s.domains[v]...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] < counts[ordered[j]]
	})
	return ordered
}

// consistent reports whether the partial assignment satisfies every
// constraint it touches: word lengths match, crossing letters agree, and no
// word is used twice anywhere in the grid.
func (s *Solver) consistent(assignment Assignment) bool {
	used := make(map[string]struct{}, len(assignment))
	for _, v := range s.vars {
		word, assigned := assignment[v]
		if !assigned {
			continue
		}
		if letterCount(word) != v.Length {
			return false
		}
		for _, n := range s.cw.Neighbors(v) {
			other, ok := assignment[n]
			if !ok {
				continue
			}
			xi, yi, crosses := s.cw.Overlap(v, n)
			if crosses && letterAt(word, xi) != letterAt(other, yi) {
				return false
			}
		}
		if _, dupe := used[word]; dupe {
			return false
		}
		used[word] = struct{}{}
	}
	return true
}
