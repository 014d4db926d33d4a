package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/logic-rules-bot/internal/infra/postgres/repository"
)

type ResetService struct {
	tr Transactor
}

func NewResetService(tr Transactor) *ResetService {
	return &ResetService{tr: tr}
}

// ResetUser wipes the user's quiz history in one transaction.
func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repository.NewResetRepository(tx).ResetUser(ctx, userID)
	})
}
