// Package nim implements the misère game of Nim together with a Q-learning
// player. Two players alternate removing objects from piles; whoever takes
// the last object loses.
package nim

import (
	"fmt"
	"strings"
)

// DefaultPiles is the classic starting position.
var DefaultPiles = []int{1, 3, 5, 7}

// An Action removes Count objects from pile Pile.
type Action struct {
	Pile  int
	Count int
}

func (a Action) String() string {
	return fmt.Sprintf("take %d from pile %d", a.Count, a.Pile+1)
}

// AvailableActions returns every legal action for the given piles, in pile
// order with counts ascending. The fixed order keeps greedy play
// reproducible.
func AvailableActions(piles []int) []Action {
	var actions []Action
	for i, pile := range piles {
		for j := 1; j <= pile; j++ {
			actions = append(actions, Action{Pile: i, Count: j})
		}
	}
	return actions
}

type Game struct {
	piles  []int
	player int
	winner int
}

func NewGame() *Game {
	return NewGameWithPiles(DefaultPiles)
}

func NewGameWithPiles(piles []int) *Game {
	g := &Game{
		piles:  make([]int, len(piles)),
		player: 0,
		winner: -1,
	}
	copy(g.piles, piles)
	return g
}

// Piles returns a copy of the current pile sizes.
func (g *Game) Piles() []int {
	piles := make([]int, len(g.piles))
	copy(piles, g.piles)
	return piles
}

// Player returns whose turn it is, 0 or 1.
func (g *Game) Player() int {
	return g.player
}

// Winner returns the winning player once the game is over.
func (g *Game) Winner() (int, bool) {
	return g.winner, g.winner != -1
}

// Move executes an action for the current player. Taking the last object
// loses, so the winner is the player left without a move to regret.
func (g *Game) Move(a Action) error {
	if g.winner != -1 {
		return fmt.Errorf("the game is already over")
	}
	if a.Pile < 0 || a.Pile >= len(g.piles) {
		return fmt.Errorf("pile %d is out of range", a.Pile+1)
	}
	if a.Count < 1 || a.Count > g.piles[a.Pile] {
		return fmt.Errorf("can take between 1 and %d from pile %d", g.piles[a.Pile], a.Pile+1)
	}
	g.piles[a.Pile] -= a.Count
	g.player = 1 - g.player

	empty := true
	for _, pile := range g.piles {
		if pile != 0 {
			empty = false
		}
	}
	if empty {
		g.winner = g.player
	}
	return nil
}

func (g *Game) ToDisplayText() string {
	var str string
	for i, pile := range g.piles {
		str = str + fmt.Sprintf("Pile %d: %s(%d)\n", i+1, strings.Repeat("* ", pile), pile)
	}
	return "\n" + str
}
