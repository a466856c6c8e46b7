package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

func TestNopStats(t *testing.T) {
	ctx := context.Background()
	statsRepo := NewNopStatsRepository()

	// When: A round is recorded without storage
	require.NoError(t, statsRepo.RecordRound(ctx, entity.RoundResult{RoomID: 1, Round: 1, Winner: entity.SignX}))

	// Then: Stats stay empty, in the same shape as an empty Redis
	stats, err := statsRepo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.Stats{Recent: []entity.RoundResult{}}, stats)
}
