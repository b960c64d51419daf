package service

import (
	"context"
	"fmt"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

type CallService struct {
	calls repository.CallRepository
	users repository.UserRepository
}

func NewCallService(calls repository.CallRepository, users repository.UserRepository) *CallService {
	return &CallService{calls: calls, users: users}
}

// Log appends one call record. Records are observational and immutable.
func (s *CallService) Log(ctx context.Context, callerID string, c *models.Call) (*models.Call, error) {
	switch c.Type {
	case models.CallTypeVoice, models.CallTypeVideo:
	default:
		return nil, fmt.Errorf("unknown call type %q: %w", c.Type, apperr.ErrValidation)
	}
	switch c.Outcome {
	case models.CallOutcomeAnswered, models.CallOutcomeMissed, models.CallOutcomeDeclined:
	default:
		return nil, fmt.Errorf("unknown call outcome %q: %w", c.Outcome, apperr.ErrValidation)
	}
	if c.DurationSeconds < 0 {
		return nil, fmt.Errorf("negative duration: %w", apperr.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, c.ReceiverID); err != nil {
		return nil, err
	}
	c.CallerID = callerID
	if err := s.calls.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CallService) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Call, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.calls.ListForUser(ctx, userID, limit)
}
