package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
)

type HistoryService struct {
	repo history.Repository
}

func NewHistoryService(repo history.Repository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record appends one entry outside a transfer transaction. It only fails on
// invalid input or store errors.
func (s *HistoryService) Record(ctx context.Context, entry history.Entry) (out history.Entry, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Record")
	defer func() { endSpan(span, err) }()

	if err := entry.Validate(); err != nil {
		return history.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	saved, err := s.repo.Append(ctx, entry)
	if err != nil {
		return history.Entry{}, persistenceErr("append history", err)
	}
	return saved, nil
}

// Recent lists entries newest first; limit is clamped to history.MaxRecent.
func (s *HistoryService) Recent(ctx context.Context, limit int) (out []history.Entry, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Recent")
	defer func() { endSpan(span, err) }()

	entries, err := s.repo.ListRecent(ctx, history.ClampLimit(limit))
	if err != nil {
		return nil, persistenceErr("list history", err)
	}
	return entries, nil
}
