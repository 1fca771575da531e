package queens

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/ga"
	"evolab/internal/perm"
)

func TestBoard_Attacks(t *testing.T) {
	assert.Equal(t, 0, Board{1, 3, 0, 2}.Attacks())
	assert.Equal(t, 3, Board{0, 1, 2}.Attacks())
	assert.Equal(t, 0, Board{0}.Attacks())
	assert.True(t, Board{2, 0, 3, 1}.Solved())
	assert.Equal(t, MaxPairs(4), Board{2, 0, 3, 1}.Fitness())
}

func TestBoard_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Board{1, 3, 0, 2}.Render(&buf))
	assert.Equal(t, ". . Q .\nQ . . .\n. . . Q\n. Q . .\n", buf.String())
}

func TestRun_SolvesEightQueens(t *testing.T) {
	board, res, err := Run(context.Background(), Params{N: 8, GA: DefaultGA(), Seed: 11})
	require.NoError(t, err)

	assert.True(t, perm.Valid(board))
	assert.Len(t, board, 8)
	if res.Solved() {
		assert.True(t, board.Solved())
		assert.Equal(t, float64(MaxPairs(8)), res.Best.Fitness)
	} else {
		assert.Equal(t, ga.ReasonBudgetExhausted, res.Reason)
	}
}

func TestRun_TrivialBoard(t *testing.T) {
	p := Params{N: 1, GA: DefaultGA(), Seed: 1}
	p.GA.PopulationSize = 4

	board, res, err := Run(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.Solved())
	assert.Equal(t, 0, res.Generation)
	assert.Equal(t, Board{0}, board)
}

func TestRun_UnsolvableBoardStopsAtCeiling(t *testing.T) {
	p := Params{N: 3, GA: DefaultGA(), Seed: 2}
	p.GA.GenerationCount = 10

	board, res, err := Run(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, res.Solved())
	assert.Equal(t, 10, res.Generation)
	assert.True(t, perm.Valid(board))
}

func TestRun_InvalidSize(t *testing.T) {
	_, _, err := Run(context.Background(), Params{N: 0, GA: DefaultGA()})
	assert.ErrorIs(t, err, ga.ErrInvalidConfig)
}
