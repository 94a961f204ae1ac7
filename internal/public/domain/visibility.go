package domain

import (
	"fmt"
	"strings"
)

// IsVisible は現在の回答状態から設問の表示可否を判定する純粋関数。
// 依存先の設問自体が非表示でも、その回答値をそのまま参照して評価する
// （再帰的な非表示の伝播は行わない）。
func IsVisible(field Field, answers map[string]AnswerValue) bool {
	rule := field.Visibility
	if rule == nil || rule.DependsOnID == "" {
		return true
	}

	target := answers[rule.DependsOnID]
	switch rule.Operator {
	case VisibilityChecked:
		checked, ok := target.(bool)
		return ok && checked
	case VisibilityIncludes:
		want := rule.Value
		switch v := target.(type) {
		case []string:
			for _, item := range v {
				if item == want {
					return true
				}
			}
			return false
		case string:
			return strings.Contains(v, want)
		default:
			return false
		}
	case VisibilityNotEquals:
		return stringifyAnswer(target) != rule.Value
	default:
		// equals を既定の比較として扱う
		return stringifyAnswer(target) == rule.Value
	}
}

// VisibleFields は表示対象の設問のみを抽出する。
func VisibleFields(fields []Field, answers map[string]AnswerValue) []Field {
	visible := make([]Field, 0, len(fields))
	for _, field := range fields {
		if IsVisible(field, answers) {
			visible = append(visible, field)
		}
	}
	return visible
}

// stringifyAnswer は equals/not_equals 比較用の文字列化。nil は空文字列へ落とす。
func stringifyAnswer(value AnswerValue) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}
