package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// NopStats is the StatsRepository used when Redis is disabled: rounds are discarded and stats stay empty.
type NopStats struct{}

func NewNopStatsRepository() StatsRepository {
	return NopStats{}
}

func (NopStats) RecordRound(context.Context, entity.RoundResult) error {
	return nil
}

func (NopStats) GetStats(context.Context) (*entity.Stats, error) {
	return &entity.Stats{Recent: []entity.RoundResult{}}, nil
}
