package filler

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/crossword"
)

// thanks Wikipedia:
/**function AC3(csp) is
    queue := all arcs (x, y) of csp
    while queue is not empty do
        (x, y) := queue.pop()     (* FIFO *)
        if REVISE(x, y) then
            if D(x) is empty then
                return failure
            for each z in NEIGHBORS(x) \ {y} do
                queue.append((z, x))
    return success

function REVISE(x, y) is
    revised := false
    for each vx in D(x) do
        if no vy in D(y) satisfies the constraint on (x, y) then
            delete vx from D(x)
            revised := true
    return revised
**/

// enforceNodeConsistency removes from every domain the words whose length
// does not match the variable. Running it again is a no-op.
func (s *Solver) enforceNodeConsistency() {
	for _, v := range s.vars {
		kept := s.domains[v][:0]
		for _, w := range s.domains[v] {
			if letterCount(w) == v.Length {
				kept = append(kept, w)
			}
		}
		s.domains[v] = kept
	}
}

// revise makes x arc-consistent with y: it drops every word in x's domain
// whose crossing letter has no support in y's domain. It reports whether
// anything was dropped. Non-crossing pairs are left alone.
func (s *Solver) revise(x, y crossword.Variable) bool {
	xi, yi, ok := s.cw.Overlap(x, y)
	if !ok {
		return false
	}
	support := make(map[rune]struct{}, len(s.domains[y]))
	for _, wy := range s.domains[y] {
		support[letterAt(wy, yi)] = struct{}{}
	}
	revised := false
	kept := s.domains[x][:0]
	for _, wx := range s.domains[x] {
		if _, supported := support[letterAt(wx, xi)]; supported {
			kept = append(kept, wx)
		} else {
			revised = true
		}
	}
	s.domains[x] = kept
	return revised
}

type arc struct {
	x, y crossword.Variable
}

// arcQueue is a FIFO worklist of arcs. Processing order matters for
// reproducibility, not for correctness.
type arcQueue struct {
	arcs []arc
	head int
}

func (q *arcQueue) push(a arc) {
	q.arcs = append(q.arcs, a)
}

func (q *arcQueue) pop() arc {
	a := q.arcs[q.head]
	q.head++
	return a
}

func (q *arcQueue) empty() bool {
	return q.head >= len(q.arcs)
}

// enforceArcConsistency runs AC-3 over the given arcs, or over every arc of
// the puzzle when arcs is nil. It returns false when some domain empties,
// which means no fill is possible. The only error it can return is
// ErrAborted, via the context.
func (s *Solver) enforceArcConsistency(ctx context.Context, arcs [][2]crossword.Variable) (bool, error) {
	queue := &arcQueue{}
	if arcs == nil {
		for _, x := range s.vars {
			for _, y := range s.cw.Neighbors(x) {
				queue.push(arc{x, y})
			}
		}
	} else {
		for _, a := range arcs {
			queue.push(arc{a[0], a[1]})
		}
	}

	revisions := 0
	for !queue.empty() {
		if err := s.abortCheck(ctx); err != nil {
			return false, err
		}
		a := queue.pop()
		if s.revise(a.x, a.y) {
			revisions++
			if len(s.domains[a.x]) == 0 {
				log.Debug().Str("variable", a.x.String()).Msg("domain wiped out")
				return false, nil
			}
			for _, z := range s.cw.Neighbors(a.x) {
				if z == a.y {
					continue
				}
				queue.push(arc{z, a.x})
			}
		}
	}
	log.Debug().Int("revisions", revisions).Msg("arc consistency established")
	return true, nil
}
