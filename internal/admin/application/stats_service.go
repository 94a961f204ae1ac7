package application

import (
	"context"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type statsService struct {
	forms     FormRepository
	responses ResponseRepository
}

// NewStatsService はダッシュボード集計サービスを構築する。
func NewStatsService(forms FormRepository, responses ResponseRepository) StatsService {
	return &statsService{forms: forms, responses: responses}
}

// Summarize はフォームの全回答をメモリへ読み、集計を都度計算して返す。
func (s *statsService) Summarize(ctx context.Context, formID, orgID string) (*admindomain.FormStats, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil || form.OrgID != orgID {
		return nil, ErrFormNotFound
	}

	responses, err := s.responses.FindByForm(ctx, formID, orgID)
	if err != nil {
		return nil, err
	}

	stats := admindomain.ComputeStats(*form, responses)
	return &stats, nil
}
