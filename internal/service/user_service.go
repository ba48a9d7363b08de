package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/models"
)

type UserService struct {
	users   UserRepo
	records RecordRepo
	log     zerolog.Logger
}

func NewUserService(users UserRepo, records RecordRepo, log zerolog.Logger) *UserService {
	return &UserService{users: users, records: records, log: log}
}

// Register creates an end user, with a fresh id when id is uuid.Nil. The user
// receives a record for every deal that already exists.
func (s *UserService) Register(ctx context.Context, id uuid.UUID) (*models.EndUser, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	u := &models.EndUser{ID: id}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	loggerFrom(ctx, s.log).Info().Stringer("user_id", id).Msg("user registered")
	return u, nil
}

// Records lists the redemption records (and so the tokens) held by userID.
func (s *UserService) Records(ctx context.Context, userID uuid.UUID) ([]*models.RedemptionRecord, error) {
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, models.ErrInvalidUser
	}
	return s.records.ListByUser(ctx, userID)
}
