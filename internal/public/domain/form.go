package domain

import "time"

// FieldType は設問の入力形式を表す。
type FieldType string

const (
	FieldShortText    FieldType = "short_text"
	FieldLongText     FieldType = "long_text"
	FieldSingleSelect FieldType = "single_select"
	FieldMultiSelect  FieldType = "multi_select"
	FieldDate         FieldType = "date"
	FieldCheckbox     FieldType = "checkbox"
)

// VisibilityOperator は条件分岐ルールの比較方法を表す。
type VisibilityOperator string

const (
	VisibilityEquals    VisibilityOperator = "equals"
	VisibilityNotEquals VisibilityOperator = "not_equals"
	VisibilityIncludes  VisibilityOperator = "includes"
	VisibilityChecked   VisibilityOperator = "checked"
)

// VisibilityRule は他の設問の回答に応じて表示可否を切り替える条件。
type VisibilityRule struct {
	DependsOnID string
	Operator    VisibilityOperator
	Value       string
}

// ValidationRule は文字数・日付範囲の制約。ゼロ値は未設定扱い。
type ValidationRule struct {
	MinLength int
	MaxLength int
	MinDate   string
	MaxDate   string
}

// Field はフォーム内の設問 1 件の定義。
type Field struct {
	ID         string
	Label      string
	Type       FieldType
	Required   bool
	Options    []string
	AIEnabled  bool
	Visibility *VisibilityRule
	Validation *ValidationRule
}

// FormStatus はフォームの公開状態。active のみ shareId 経由で到達可能。
type FormStatus string

const (
	FormStatusDraft  FormStatus = "draft"
	FormStatusActive FormStatus = "active"
)

// Form は公開回答ページへ提供されるフォーム集約。
type Form struct {
	ID                string
	OrgID             string
	Title             string
	Description       string
	Status            FormStatus
	ShareID           string
	Fields            []Field
	AIEnabled         bool
	AIOverallEnabled  bool
	AIMinConfidence   float64
	NotificationEmail string
	WebhookURL        string
	SlackWebhookURL   string
	GoogleSheetURL    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         string
}

// IsActive は公開中フォームかどうかを返す。
func (f Form) IsActive() bool {
	return f.Status == FormStatusActive
}

// FieldByID は設問定義を ID で引く。見つからなければ nil。
func (f Form) FieldByID(id string) *Field {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}
