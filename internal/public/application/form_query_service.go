package application

import (
	"context"

	"github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// formQueryService implements FormQueryService.
type formQueryService struct {
	repo FormRepository
}

// NewFormQueryService creates a new FormQueryService.
func NewFormQueryService(repo FormRepository) FormQueryService {
	return &formQueryService{repo: repo}
}

func (s *formQueryService) ByShareID(ctx context.Context, shareID string) (*domain.Form, error) {
	form, err := s.repo.ByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if form == nil || !form.IsActive() {
		return nil, ErrFormNotFound
	}
	return form, nil
}
