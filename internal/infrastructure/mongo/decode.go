package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// このファイルは緩く型付けされたドキュメントを §3 のエンティティへ写す唯一の境界。
// 既定値の補完と型の強制はすべてここで行い、呼び出し側での場当たり的な
// 変換を持ち込まないこと。

// toTime はタイムスタンプの型ゆらぎ（ネイティブ日時 / ドライバ型 / 文字列）を
// 吸収する。解釈できない値は現在時刻へフォールバックする。
func toTime(raw any) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case primitive.DateTime:
		return v.Time()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0)
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}

// toFloat は数値の型ゆらぎを吸収する。非数値は fallback を返す。
func toFloat(raw any, fallback float64) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// toIntPtr は数値を *int へ写す。非数値は nil。
func toIntPtr(raw any) *int {
	switch v := raw.(type) {
	case int:
		return &v
	case int32:
		value := int(v)
		return &value
	case int64:
		value := int(v)
		return &value
	case float64:
		value := int(v)
		return &value
	}
	return nil
}

// answerValueOf は BSON から復元された回答値を string / []string / bool / nil に強制する。
func answerValueOf(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		return v
	case []string:
		return v
	case primitive.A:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if text, ok := item.(string); ok {
				values = append(values, text)
			}
		}
		return values
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

// decodeAnswers は回答マップ全体を設問 ID → 正規化済み回答値へ写す。
func decodeAnswers(raw map[string]any) map[string]any {
	answers := make(map[string]any, len(raw))
	for id, value := range raw {
		answers[id] = answerValueOf(value)
	}
	return answers
}

// formStatusOf は未知のステータス文字列を draft へ倒す。
func formStatusOf(raw string) string {
	if raw == "active" {
		return "active"
	}
	return "draft"
}

func mapPublicField(doc FieldDocument) publicdomain.Field {
	field := publicdomain.Field{
		ID:        doc.ID,
		Label:     doc.Label,
		Type:      publicdomain.FieldType(doc.Type),
		Required:  doc.Required,
		Options:   append([]string{}, doc.Options...),
		AIEnabled: doc.AIEnabled,
	}
	if doc.Visibility != nil {
		field.Visibility = &publicdomain.VisibilityRule{
			DependsOnID: doc.Visibility.DependsOnID,
			Operator:    publicdomain.VisibilityOperator(doc.Visibility.Operator),
			Value:       doc.Visibility.Value,
		}
	}
	if doc.Validation != nil {
		field.Validation = &publicdomain.ValidationRule{
			MinLength: doc.Validation.MinLength,
			MaxLength: doc.Validation.MaxLength,
			MinDate:   doc.Validation.MinDate,
			MaxDate:   doc.Validation.MaxDate,
		}
	}
	return field
}

func mapPublicForm(doc FormDocument) publicdomain.Form {
	fields := make([]publicdomain.Field, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		fields = append(fields, mapPublicField(field))
	}

	return publicdomain.Form{
		ID:                doc.ID.Hex(),
		OrgID:             doc.OrgID,
		Title:             doc.Title,
		Description:       doc.Description,
		Status:            publicdomain.FormStatus(formStatusOf(doc.Status)),
		ShareID:           doc.ShareID,
		Fields:            fields,
		AIEnabled:         doc.AIEnabled,
		AIOverallEnabled:  doc.AIOverallEnabled,
		AIMinConfidence:   toFloat(doc.AIMinConfidence, 0.6),
		NotificationEmail: doc.NotificationEmail,
		WebhookURL:        doc.WebhookURL,
		SlackWebhookURL:   doc.SlackWebhookURL,
		GoogleSheetURL:    doc.GoogleSheetURL,
		CreatedAt:         toTime(doc.CreatedAt),
		UpdatedAt:         toTime(doc.UpdatedAt),
		CreatedBy:         doc.CreatedBy,
	}
}

func mapAdminField(doc FieldDocument) admindomain.Field {
	field := admindomain.Field{
		ID:        doc.ID,
		Label:     doc.Label,
		Type:      admindomain.FieldType(doc.Type),
		Required:  doc.Required,
		Options:   append([]string{}, doc.Options...),
		AIEnabled: doc.AIEnabled,
	}
	if doc.Visibility != nil {
		field.Visibility = &admindomain.VisibilityRule{
			DependsOnID: doc.Visibility.DependsOnID,
			Operator:    doc.Visibility.Operator,
			Value:       doc.Visibility.Value,
		}
	}
	if doc.Validation != nil {
		field.Validation = &admindomain.ValidationRule{
			MinLength: doc.Validation.MinLength,
			MaxLength: doc.Validation.MaxLength,
			MinDate:   doc.Validation.MinDate,
			MaxDate:   doc.Validation.MaxDate,
		}
	}
	return field
}

func mapAdminForm(doc FormDocument) admindomain.Form {
	fields := make([]admindomain.Field, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		fields = append(fields, mapAdminField(field))
	}

	return admindomain.Form{
		ID:                doc.ID.Hex(),
		OrgID:             doc.OrgID,
		Title:             doc.Title,
		Description:       doc.Description,
		Status:            admindomain.FormStatus(formStatusOf(doc.Status)),
		ShareID:           doc.ShareID,
		Fields:            fields,
		AIEnabled:         doc.AIEnabled,
		AIOverallEnabled:  doc.AIOverallEnabled,
		AIMinConfidence:   toFloat(doc.AIMinConfidence, 0.6),
		NotificationEmail: doc.NotificationEmail,
		WebhookURL:        doc.WebhookURL,
		SlackWebhookURL:   doc.SlackWebhookURL,
		GoogleSheetURL:    doc.GoogleSheetURL,
		CreatedAt:         toTime(doc.CreatedAt),
		UpdatedAt:         toTime(doc.UpdatedAt),
		CreatedBy:         doc.CreatedBy,
	}
}

func mapAdminAnalysis(doc *AnalysisDocument) *admindomain.AnalysisResult {
	if doc == nil {
		return nil
	}
	return &admindomain.AnalysisResult{
		OverallScore:   toIntPtr(doc.OverallScore),
		SentimentLabel: doc.SentimentLabel,
		Confidence:     toFloat(doc.Confidence, 0),
		Keywords:       append([]string{}, doc.Keywords...),
		Model:          doc.Model,
	}
}

func mapAdminResponse(doc ResponseDocument) admindomain.Response {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return admindomain.Response{
		ID:           doc.ID,
		FormID:       doc.FormID,
		OrgID:        doc.OrgID,
		RespondentID: doc.RespondentID,
		Answers:      decodeAnswers(doc.Answers),
		Status:       admindomain.NormalizeResponseStatus(doc.Status),
		Tags:         tags,
		Memo:         doc.Memo,
		AssigneeUID:  doc.AssigneeUID,
		AssigneeName: doc.AssigneeName,
		SubmittedAt:  toTime(doc.SubmittedAt),
		UpdatedAt:    toTime(doc.UpdatedAt),
		Analysis:     mapAdminAnalysis(doc.Analysis),
	}
}

func mapUserProfile(doc UserDocument) admindomain.UserProfile {
	return admindomain.UserProfile{
		UID:       doc.UID,
		Email:     doc.Email,
		OrgID:     doc.OrgID,
		OrgName:   doc.OrgName,
		Role:      admindomain.NormalizeRole(doc.Role),
		CreatedAt: toTime(doc.CreatedAt),
	}
}
