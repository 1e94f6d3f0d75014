package nim

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func testRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func TestAvailableActions(t *testing.T) {
	actions := AvailableActions([]int{1, 2})
	assert.Equal(t, []Action{
		{Pile: 0, Count: 1},
		{Pile: 1, Count: 1},
		{Pile: 1, Count: 2},
	}, actions)

	assert.Empty(t, AvailableActions([]int{0, 0}))
}

func TestMoveValidation(t *testing.T) {
	g := NewGameWithPiles([]int{2, 3})

	assert.Error(t, g.Move(Action{Pile: -1, Count: 1}))
	assert.Error(t, g.Move(Action{Pile: 2, Count: 1}))
	assert.Error(t, g.Move(Action{Pile: 0, Count: 0}))
	assert.Error(t, g.Move(Action{Pile: 0, Count: 3}))

	require.NoError(t, g.Move(Action{Pile: 0, Count: 2}))
	require.NoError(t, g.Move(Action{Pile: 1, Count: 3}))
	assert.Error(t, g.Move(Action{Pile: 1, Count: 1}), "game is over")
}

func TestTakingLastObjectLoses(t *testing.T) {
	g := NewGameWithPiles([]int{1})
	require.NoError(t, g.Move(Action{Pile: 0, Count: 1}))
	winner, over := g.Winner()
	require.True(t, over)
	assert.Equal(t, 1, winner)

	g = NewGameWithPiles([]int{2})
	require.NoError(t, g.Move(Action{Pile: 0, Count: 1}))
	_, over = g.Winner()
	require.False(t, over)
	assert.Equal(t, 1, g.Player())

	require.NoError(t, g.Move(Action{Pile: 0, Count: 1}))
	winner, over = g.Winner()
	require.True(t, over)
	assert.Equal(t, 0, winner)
}

func TestPilesAreCopied(t *testing.T) {
	initial := []int{1, 2}
	g := NewGameWithPiles(initial)
	piles := g.Piles()
	piles[0] = 99
	initial[1] = 99
	assert.Equal(t, []int{1, 2}, g.Piles())
}

func TestQUpdate(t *testing.T) {
	ai := NewAI(testRNG())
	old := []int{0, 0, 0, 2}
	terminal := []int{0, 0, 0, 0}
	a := Action{Pile: 3, Count: 2}

	assert.Zero(t, ai.QValue(old, a))

	ai.Update(old, a, terminal, -1)
	assert.InDelta(t, -0.5, ai.QValue(old, a), 1e-9)

	ai.Update(old, a, terminal, -1)
	assert.InDelta(t, -0.75, ai.QValue(old, a), 1e-9)
}

func TestBestFutureReward(t *testing.T) {
	ai := NewAI(testRNG())
	assert.Zero(t, ai.bestFutureReward([]int{0, 0}))

	piles := []int{1, 1}
	ai.setQValue(piles, Action{Pile: 0, Count: 1}, 0.5)
	ai.setQValue(piles, Action{Pile: 1, Count: 1}, -0.25)
	assert.InDelta(t, 0.5, ai.bestFutureReward(piles), 1e-9)
}

func TestChooseActionGreedy(t *testing.T) {
	ai := NewAI(testRNG())
	piles := []int{2}

	// All values zero: ties break toward the first action.
	a, err := ai.ChooseAction(piles, false)
	require.NoError(t, err)
	assert.Equal(t, Action{Pile: 0, Count: 1}, a)

	ai.setQValue(piles, Action{Pile: 0, Count: 2}, 1)
	a, err = ai.ChooseAction(piles, false)
	require.NoError(t, err)
	assert.Equal(t, Action{Pile: 0, Count: 2}, a)
}

func TestChooseActionNoActions(t *testing.T) {
	ai := NewAI(testRNG())
	_, err := ai.ChooseAction([]int{0, 0, 0}, false)
	assert.Error(t, err)
}

func TestTrainLearnsEndgames(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	ai, err := Train(context.Background(), 5000, testRNG())
	require.NoError(t, err)
	assert.Greater(t, len(ai.q), 100)

	// Being left with the last object is a loss.
	assert.Negative(t, ai.bestFutureReward([]int{0, 0, 0, 1}))
	// Two lone objects let the mover hand the last one over.
	assert.Positive(t, ai.bestFutureReward([]int{0, 0, 1, 1}))
}

func TestTrainCanceled(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ai, err := Train(ctx, 100, testRNG())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, ai)
}

func TestGameDisplay(t *testing.T) {
	g := NewGame()
	text := g.ToDisplayText()
	assert.True(t, strings.Contains(text, "Pile 1: * (1)"))
	assert.True(t, strings.Contains(text, "Pile 4:"))
}
