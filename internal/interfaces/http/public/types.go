package public

import (
	"time"

	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

type visibilityPayload struct {
	DependsOnID string `json:"dependsOnId"`
	Operator    string `json:"operator,omitempty"`
	Value       string `json:"value,omitempty"`
}

type validationPayload struct {
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	MinDate   string `json:"minDate,omitempty"`
	MaxDate   string `json:"maxDate,omitempty"`
}

type fieldPayload struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Type       string             `json:"type"`
	Required   bool               `json:"required"`
	Options    []string           `json:"options,omitempty"`
	Visibility *visibilityPayload `json:"visibility,omitempty"`
	Validation *validationPayload `json:"validation,omitempty"`
}

// formPayload は公開回答ページへ返すフォーム定義。
// Webhook 等の通知設定は含めない。
type formPayload struct {
	ShareID     string         `json:"shareId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Fields      []fieldPayload `json:"fields"`
}

func buildFormPayload(form publicdomain.Form) formPayload {
	fields := make([]fieldPayload, 0, len(form.Fields))
	for _, field := range form.Fields {
		payload := fieldPayload{
			ID:       field.ID,
			Label:    field.Label,
			Type:     string(field.Type),
			Required: field.Required,
			Options:  field.Options,
		}
		if field.Visibility != nil {
			payload.Visibility = &visibilityPayload{
				DependsOnID: field.Visibility.DependsOnID,
				Operator:    string(field.Visibility.Operator),
				Value:       field.Visibility.Value,
			}
		}
		if field.Validation != nil {
			payload.Validation = &validationPayload{
				MinLength: field.Validation.MinLength,
				MaxLength: field.Validation.MaxLength,
				MinDate:   field.Validation.MinDate,
				MaxDate:   field.Validation.MaxDate,
			}
		}
		fields = append(fields, payload)
	}

	return formPayload{
		ShareID:     form.ShareID,
		Title:       form.Title,
		Description: form.Description,
		Fields:      fields,
	}
}

type submitRequest struct {
	RespondentID string         `json:"respondentId"`
	Answers      map[string]any `json:"answers"`
}

type submitResponse struct {
	Status     string           `json:"status"`
	ResponseID string           `json:"responseId"`
	Analysis   *analysisPayload `json:"analysis,omitempty"`
}

type analysisPayload struct {
	OverallScore   *int     `json:"overallScore"`
	SentimentLabel string   `json:"sentimentLabel"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords"`
	Model          string   `json:"model"`
}

func buildAnalysisPayload(analysis *publicdomain.AnalysisResult) *analysisPayload {
	if analysis == nil {
		return nil
	}
	keywords := analysis.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &analysisPayload{
		OverallScore:   analysis.OverallScore,
		SentimentLabel: string(analysis.SentimentLabel),
		Confidence:     analysis.Confidence,
		Keywords:       keywords,
		Model:          analysis.Model,
	}
}

// coerceAnswers は JSON から復元された回答値を string / []string / bool / nil へ強制する。
func coerceAnswers(raw map[string]any) map[string]publicdomain.AnswerValue {
	answers := make(map[string]publicdomain.AnswerValue, len(raw))
	for id, value := range raw {
		answers[id] = coerceAnswerValue(value)
	}
	return answers
}

func coerceAnswerValue(raw any) publicdomain.AnswerValue {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if text, ok := item.(string); ok {
				values = append(values, text)
			}
		}
		return values
	default:
		return nil
	}
}

type analyzeRequest struct {
	FreeText       string   `json:"freeText"`
	OverallText    string   `json:"overallText"`
	WantsSentiment bool     `json:"wantsSentiment"`
	WantsOverall   bool     `json:"wantsOverall"`
	MinConfidence  *float64 `json:"minConfidence"`
}

type webhookNotification struct {
	Event       string    `json:"event"`
	FormID      string    `json:"formId"`
	FormTitle   string    `json:"formTitle"`
	ResponseID  string    `json:"responseId"`
	SubmittedAt time.Time `json:"submittedAt"`
}
