package service

import (
	"context"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser stores the user on first contact. It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error) {
	return s.repository.Save(ctx, entities.NewUser(userID, chatID, username))
}
