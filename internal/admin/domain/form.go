package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldType は設問の入力形式。
type FieldType string

const (
	FieldShortText    FieldType = "short_text"
	FieldLongText     FieldType = "long_text"
	FieldSingleSelect FieldType = "single_select"
	FieldMultiSelect  FieldType = "multi_select"
	FieldDate         FieldType = "date"
	FieldCheckbox     FieldType = "checkbox"
)

// VisibilityRule は条件分岐の定義。
type VisibilityRule struct {
	DependsOnID string
	Operator    string
	Value       string
}

// ValidationRule は文字数・日付範囲の制約。ゼロ値は未設定扱い。
type ValidationRule struct {
	MinLength int
	MaxLength int
	MinDate   string
	MaxDate   string
}

// Field は管理側で編集される設問定義。
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

// FormStatus はフォームの公開状態。
type FormStatus string

const (
	FormStatusDraft  FormStatus = "draft"
	FormStatusActive FormStatus = "active"
)

// Form は管理コンテキストのフォーム集約。
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

func isSelectType(t FieldType) bool {
	return t == FieldSingleSelect || t == FieldMultiSelect
}

// SanitizeFields は保存前の設問定義を整える。選択式のみ options を保持し、
// 空白のみの選択肢は除外する。
func SanitizeFields(fields []Field) []Field {
	sanitized := make([]Field, 0, len(fields))
	for _, field := range fields {
		if isSelectType(field.Type) {
			options := make([]string, 0, len(field.Options))
			for _, option := range field.Options {
				if strings.TrimSpace(option) != "" {
					options = append(options, option)
				}
			}
			field.Options = options
		} else {
			field.Options = nil
		}
		sanitized = append(sanitized, field)
	}
	return sanitized
}

// ValidateFields は設問定義の整合性を検査する。条件分岐の参照先が存在しない場合、
// 自分自身を参照する場合、および依存グラフに循環がある場合は保存を拒否する。
func ValidateFields(fields []Field) error {
	ids := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.ID) == "" {
			return errors.New("設問IDが空の項目があります")
		}
		if _, exists := ids[field.ID]; exists {
			return fmt.Errorf("設問ID %q が重複しています", field.ID)
		}
		ids[field.ID] = struct{}{}
	}

	dependsOn := make(map[string]string)
	for _, field := range fields {
		rule := field.Visibility
		if rule == nil || rule.DependsOnID == "" {
			continue
		}
		if rule.DependsOnID == field.ID {
			return fmt.Errorf("設問 %q が自身の回答を条件に参照しています", field.ID)
		}
		if _, exists := ids[rule.DependsOnID]; !exists {
			return fmt.Errorf("設問 %q の条件参照先 %q が存在しません", field.ID, rule.DependsOnID)
		}
		dependsOn[field.ID] = rule.DependsOnID
	}

	// 依存チェーンを辿り、循環があれば拒否する
	for start := range dependsOn {
		seen := map[string]struct{}{start: {}}
		current := start
		for {
			next, ok := dependsOn[current]
			if !ok {
				break
			}
			if _, looped := seen[next]; looped {
				return fmt.Errorf("設問 %q を含む条件分岐が循環しています", start)
			}
			seen[next] = struct{}{}
			current = next
		}
	}

	return nil
}
