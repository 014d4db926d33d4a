package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

type StatsService struct {
	repository StatsRepository
}

func NewStatsService(repository StatsRepository) *StatsService {
	return &StatsService{repository: repository}
}

// GetStats returns the user's history for every mode, in mode order.
// Modes without history are reported with zero values.
func (s *StatsService) GetStats(ctx context.Context, userID int64) ([]entities.ModeStats, error) {
	stats, err := s.repository.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	byMode := make(map[entities.Mode]entities.ModeStats, len(stats))
	for _, st := range stats {
		byMode[st.Mode] = st
	}

	out := make([]entities.ModeStats, 0, len(entities.Modes()))
	for _, m := range entities.Modes() {
		st, ok := byMode[m]
		if !ok {
			st = entities.ModeStats{Mode: m}
		}
		out = append(out, st)
	}

	return out, nil
}
