package service

import (
	"context"
	"errors"
	"time"

	"github.com/vaultpass/passforge/internal/model"
)

const (
	DefaultEventLimit = 50
	MaxEventLimit     = 500
)

var ErrLimitOutOfRange = errors.New("limit must be between 1 and 500")

// EventStore reads persisted generation events.
type EventStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.GenerationEvent, error)
	CountByOutcomeSince(ctx context.Context, outcome model.Outcome, since time.Time) (int, error)
}

// AuditService exposes generation events to operators.
type AuditService struct {
	store EventStore
}

// NewAuditService creates a new AuditService.
func NewAuditService(store EventStore) *AuditService {
	return &AuditService{store: store}
}

// ListEvents returns the most recent events. A zero limit selects DefaultEventLimit.
func (s *AuditService) ListEvents(ctx context.Context, limit int) ([]model.GenerationEventResponse, error) {
	if limit == 0 {
		limit = DefaultEventLimit
	}
	if limit < 1 || limit > MaxEventLimit {
		return nil, ErrLimitOutOfRange
	}

	events, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	return eventsToResponse(events), nil
}

// EntropyFailures counts requests that failed on the random source after since.
func (s *AuditService) EntropyFailures(ctx context.Context, since time.Time) (model.EntropyFailureResponse, error) {
	count, err := s.store.CountByOutcomeSince(ctx, model.OutcomeEntropyFailure, since)
	if err != nil {
		return model.EntropyFailureResponse{}, err
	}

	return model.EntropyFailureResponse{Since: since, Count: count}, nil
}

// eventsToResponse converts a slice of GenerationEvent to a slice of GenerationEventResponse.
func eventsToResponse(events []model.GenerationEvent) []model.GenerationEventResponse {
	result := make([]model.GenerationEventResponse, len(events))
	for i, e := range events {
		result[i] = model.GenerationEventResponse{
			ID:                e.ID,
			Length:            e.Length,
			Count:             e.Count,
			Classes:           e.Classes,
			Mode:              e.Mode,
			ExcludeAmbiguous:  e.ExcludeAmbiguous,
			AlphabetSize:      e.AlphabetSize,
			Outcome:           e.Outcome,
			Reason:            e.Reason,
			ClientFingerprint: e.ClientFingerprint,
			CreatedAt:         e.CreatedAt,
		}
	}
	return result
}
