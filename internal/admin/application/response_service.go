package application

import (
	"context"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type responseService struct {
	forms     FormRepository
	responses ResponseRepository
}

// NewResponseService は回答トリアージサービスを構築する。
func NewResponseService(forms FormRepository, responses ResponseRepository) ResponseService {
	return &responseService{forms: forms, responses: responses}
}

func (s *responseService) ListByForm(ctx context.Context, formID, orgID string) ([]admindomain.Response, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil || form.OrgID != orgID {
		return nil, ErrFormNotFound
	}
	return s.responses.FindByForm(ctx, formID, orgID)
}

func (s *responseService) UpdateTriage(ctx context.Context, id, orgID string, update ResponseTriageUpdate) (*admindomain.Response, error) {
	existing, err := s.responses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.OrgID != orgID {
		return nil, ErrResponseNotFound
	}

	if update.Status != nil {
		normalized := string(admindomain.NormalizeResponseStatus(*update.Status))
		update.Status = &normalized
	}

	return s.responses.UpdateTriage(ctx, id, update)
}
