package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const (
	statsKey  = "tictactoe:stats"
	roundsKey = "tictactoe:rounds"

	fieldDraws  = "draws"
	fieldRounds = "rounds"
)

type StatsRepository interface {
	RecordRound(ctx context.Context, result entity.RoundResult) error
	GetStats(ctx context.Context) (*entity.Stats, error)
}

type dbStats struct {
	client      *redis.Client
	historySize int64
}

func NewStatsRepository(client *redis.Client, historySize int) StatsRepository {
	return &dbStats{
		client:      client,
		historySize: int64(max(historySize, 1)),
	}
}

// RecordRound - counts the round and keeps it in the capped history of recent rounds.
func (that *dbStats) RecordRound(ctx context.Context, result entity.RoundResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal round result: %w", err)
	}

	field := fieldDraws
	if !result.IsDraw() {
		field = string(result.Winner)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKey, field, 1)
		pipe.HIncrBy(ctx, statsKey, fieldRounds, 1)
		pipe.LPush(ctx, roundsKey, resultJSON)
		pipe.LTrim(ctx, roundsKey, 0, that.historySize-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}

	return nil
}

// GetStats - returns the counters and the recent rounds, newest first. Empty storage yields zero stats.
func (that *dbStats) GetStats(ctx context.Context) (*entity.Stats, error) {
	counters, err := that.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats := &entity.Stats{Recent: []entity.RoundResult{}}

	for field, target := range map[string]*int64{
		string(entity.SignX): &stats.XWins,
		string(entity.SignO): &stats.OWins,
		fieldDraws:           &stats.Draws,
		fieldRounds:          &stats.Rounds,
	} {
		value, ok := counters[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	history, err := that.client.LRange(ctx, roundsKey, 0, that.historySize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent rounds: %w", err)
	}

	for _, raw := range history {
		var result entity.RoundResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round result: %w", err)
		}
		stats.Recent = append(stats.Recent, result)
	}

	return stats, nil
}
