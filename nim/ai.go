package nim

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

const (
	// DefaultAlpha is the Q-learning rate.
	DefaultAlpha = 0.5
	// DefaultEpsilon is the exploration probability during training.
	DefaultEpsilon = 0.1
)

type qKey struct {
	state  string
	action Action
}

func stateKey(piles []int) string {
	parts := make([]string, len(piles))
	for i, pile := range piles {
		parts[i] = strconv.Itoa(pile)
	}
	return strings.Join(parts, ",")
}

// AI learns action values by playing against itself. Rewards only arrive at
// the end of a game, +1 for the winner's last move and -1 for the loser's,
// and propagate backwards through the Q-update.
type AI struct {
	q       map[qKey]float64
	alpha   float64
	epsilon float64
	rng     *frand.RNG
}

func NewAI(rng *frand.RNG) *AI {
	if rng == nil {
		rng = frand.New()
	}
	return &AI{
		q:       make(map[qKey]float64),
		alpha:   DefaultAlpha,
		epsilon: DefaultEpsilon,
		rng:     rng,
	}
}

// QValue returns the learned value of taking an action in a state, zero if
// the pair has never been updated.
func (ai *AI) QValue(piles []int, a Action) float64 {
	return ai.q[qKey{state: stateKey(piles), action: a}]
}

func (ai *AI) setQValue(piles []int, a Action, v float64) {
	ai.q[qKey{state: stateKey(piles), action: a}] = v
}

// Update applies one step of the Q-learning rule:
//
//	Q(s,a) <- Q(s,a) + alpha * (reward + max Q(s',a') - Q(s,a))
func (ai *AI) Update(oldState []int, a Action, newState []int, reward float64) {
	oldQ := ai.QValue(oldState, a)
	future := ai.bestFutureReward(newState)
	ai.setQValue(oldState, a, oldQ+ai.alpha*(reward+future-oldQ))
}

func (ai *AI) bestFutureReward(piles []int) float64 {
	actions := AvailableActions(piles)
	if len(actions) == 0 {
		return 0
	}
	best := ai.QValue(piles, actions[0])
	for _, a := range actions[1:] {
		if v := ai.QValue(piles, a); v > best {
			best = v
		}
	}
	return best
}

// ChooseAction picks an action for the given piles. With explore set it
// plays a random action with probability epsilon; otherwise it is greedy,
// breaking ties by action order so play is reproducible.
func (ai *AI) ChooseAction(piles []int, explore bool) (Action, error) {
	actions := AvailableActions(piles)
	if len(actions) == 0 {
		return Action{}, fmt.Errorf("no available actions")
	}
	if explore && ai.rng.Float64() < ai.epsilon {
		return actions[ai.rng.Intn(len(actions))], nil
	}
	best := actions[0]
	bestQ := ai.QValue(piles, best)
	for _, a := range actions[1:] {
		if v := ai.QValue(piles, a); v > bestQ {
			best, bestQ = a, v
		}
	}
	return best, nil
}

// Train builds an AI by self-play over the given number of games. A
// canceled context stops training early; the partially trained AI is still
// returned along with the context's error.
func Train(ctx context.Context, games int, rng *frand.RNG) (*AI, error) {
	ai := NewAI(rng)

	type lastMove struct {
		state  []int
		action Action
	}

	for i := 0; i < games; i++ {
		if ctx.Err() != nil {
			log.Info().Int("games", i).Msg("training interrupted")
			return ai, ctx.Err()
		}

		game := NewGame()
		var last [2]lastMove

		for {
			state := game.Piles()
			action, err := ai.ChooseAction(state, true)
			if err != nil {
				return ai, err
			}
			last[game.Player()] = lastMove{state: state, action: action}

			if err := game.Move(action); err != nil {
				return ai, err
			}
			newState := game.Piles()

			if winner, over := game.Winner(); over {
				// The mover just took the last object and lost.
				ai.Update(state, action, newState, -1)
				if last[winner].state != nil {
					ai.Update(last[winner].state, last[winner].action, newState, 1)
				}
				break
			}
			if prev := last[game.Player()]; prev.state != nil {
				ai.Update(prev.state, prev.action, newState, 0)
			}
		}

		if (i+1)%1000 == 0 {
			log.Debug().Int("games", i+1).Int("qvalues", len(ai.q)).
				Msg("training progress")
		}
	}
	log.Info().Int("games", games).Int("qvalues", len(ai.q)).
		Msg("training complete")
	return ai, nil
}
