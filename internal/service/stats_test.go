package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

type fakeStatsRepo struct {
	stats []entities.ModeStats
	err   error
}

func (f *fakeStatsRepo) GetStats(context.Context, int64) ([]entities.ModeStats, error) {
	return f.stats, f.err
}

func TestStatsServiceFillsMissingModes(t *testing.T) {
	repo := &fakeStatsRepo{stats: []entities.ModeStats{
		{Mode: entities.ModeIdentifyMistakeCorrection, Runs: 2, BestScore: 9, Answers: 20, CorrectAnswers: 15},
	}}

	stats, err := NewStatsService(repo).GetStats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, entities.ModeIdentifyRule, stats[0].Mode)
	assert.Zero(t, stats[0].Runs)
	assert.Equal(t, entities.ModeCompleteRule, stats[1].Mode)
	assert.Equal(t, 9, stats[2].BestScore)
	assert.InDelta(t, 75.0, stats[2].Accuracy(), 0.001)
}

func TestStatsServiceWrapsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewStatsService(&fakeStatsRepo{err: boom}).GetStats(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

type fakeUserRepo struct {
	saved []*entities.User
}

func (f *fakeUserRepo) Save(_ context.Context, u *entities.User) (bool, error) {
	f.saved = append(f.saved, u)
	return len(f.saved) == 1, nil
}

func TestUserServiceEnsureUser(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	created, err := svc.EnsureUser(context.Background(), 1, 2, "alice")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureUser(context.Background(), 1, 2, "alice")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.saved, 2)
	assert.Equal(t, int64(2), repo.saved[0].ChatID)
	assert.True(t, repo.saved[0].IsActive)
}
