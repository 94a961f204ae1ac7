package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type formService struct {
	repo FormRepository
}

// NewFormService はフォーム管理サービスを構築する。
func NewFormService(repo FormRepository) FormService {
	return &formService{repo: repo}
}

func (s *formService) List(ctx context.Context, orgID string) ([]admindomain.Form, error) {
	return s.repo.FindByOrg(ctx, orgID)
}

func (s *formService) Detail(ctx context.Context, id, orgID string) (*admindomain.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil || form.OrgID != orgID {
		return nil, ErrFormNotFound
	}
	return form, nil
}

func (s *formService) Create(ctx context.Context, orgID, createdBy string, cmd UpsertFormCommand) (*admindomain.Form, error) {
	form, err := buildFormFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	form.OrgID = orgID
	form.CreatedBy = createdBy
	form.ShareID = uuid.NewString()
	form.CreatedAt = now
	form.UpdatedAt = now

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *formService) Update(ctx context.Context, id, orgID string, cmd UpsertFormCommand) (*admindomain.Form, error) {
	existing, err := s.Detail(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	form, err := buildFormFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	form.ID = existing.ID
	form.OrgID = existing.OrgID
	form.ShareID = existing.ShareID
	form.CreatedBy = existing.CreatedBy
	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// buildFormFromCommand は入力を検証済みのフォーム集約へ組み立てる。
func buildFormFromCommand(cmd UpsertFormCommand) (*admindomain.Form, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, errors.New("タイトルは必須です")
	}

	fields := make([]admindomain.Field, 0, len(cmd.Fields))
	for _, input := range cmd.Fields {
		field, err := buildField(input)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	fields = admindomain.SanitizeFields(fields)
	if err := admindomain.ValidateFields(fields); err != nil {
		return nil, err
	}

	status := admindomain.FormStatusDraft
	if cmd.Status == string(admindomain.FormStatusActive) {
		status = admindomain.FormStatusActive
	}

	minConfidence := cmd.AIMinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.6
	}
	if minConfidence > 1 {
		minConfidence = 1
	}

	return &admindomain.Form{
		Title:             title,
		Description:       strings.TrimSpace(cmd.Description),
		Status:            status,
		Fields:            fields,
		AIEnabled:         cmd.AIEnabled,
		AIOverallEnabled:  cmd.AIOverallEnabled,
		AIMinConfidence:   minConfidence,
		NotificationEmail: strings.TrimSpace(cmd.NotificationEmail),
		WebhookURL:        strings.TrimSpace(cmd.WebhookURL),
		SlackWebhookURL:   strings.TrimSpace(cmd.SlackWebhookURL),
		GoogleSheetURL:    strings.TrimSpace(cmd.GoogleSheetURL),
	}, nil
}

func buildField(input FieldCommand) (admindomain.Field, error) {
	fieldType := admindomain.FieldType(input.Type)
	switch fieldType {
	case admindomain.FieldShortText, admindomain.FieldLongText,
		admindomain.FieldSingleSelect, admindomain.FieldMultiSelect,
		admindomain.FieldDate, admindomain.FieldCheckbox:
	default:
		return admindomain.Field{}, errors.New("未対応の設問タイプです: " + input.Type)
	}

	if strings.TrimSpace(input.Label) == "" {
		return admindomain.Field{}, errors.New("設問ラベルは必須です")
	}

	field := admindomain.Field{
		ID:        strings.TrimSpace(input.ID),
		Label:     strings.TrimSpace(input.Label),
		Type:      fieldType,
		Required:  input.Required,
		Options:   append([]string{}, input.Options...),
		AIEnabled: input.AIEnabled,
	}
	if field.ID == "" {
		field.ID = uuid.NewString()
	}

	if input.Visibility != nil && strings.TrimSpace(input.Visibility.DependsOnID) != "" {
		field.Visibility = &admindomain.VisibilityRule{
			DependsOnID: strings.TrimSpace(input.Visibility.DependsOnID),
			Operator:    strings.TrimSpace(input.Visibility.Operator),
			Value:       input.Visibility.Value,
		}
	}

	if input.Validation != nil {
		field.Validation = &admindomain.ValidationRule{
			MinLength: input.Validation.MinLength,
			MaxLength: input.Validation.MaxLength,
			MinDate:   strings.TrimSpace(input.Validation.MinDate),
			MaxDate:   strings.TrimSpace(input.Validation.MaxDate),
		}
	}

	return field, nil
}
