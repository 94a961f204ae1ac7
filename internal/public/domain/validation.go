package domain

import (
	"fmt"
	"unicode/utf8"
)

// Validate は 1 設問分の回答を検査し、ユーザー向けメッセージを返す。
// 空文字列が妥当を意味する。エラーを送出せず、必ずメッセージで報告する。
func Validate(field Field, value AnswerValue) string {
	if !field.Required && isEmptyAnswer(value) {
		return ""
	}

	if field.Required {
		switch field.Type {
		case FieldMultiSelect:
			selected, ok := value.([]string)
			if !ok || len(selected) == 0 {
				return "必須項目です。"
			}
		case FieldCheckbox:
			if checked, ok := value.(bool); !ok || !checked {
				return "同意が必要です。"
			}
		default:
			if isEmptyAnswer(value) {
				return "必須項目です。"
			}
		}
	}

	rule := field.Validation
	if rule == nil {
		return ""
	}

	if text, ok := value.(string); ok {
		length := utf8.RuneCountInString(text)
		if rule.MinLength > 0 && length < rule.MinLength {
			return fmt.Sprintf("最小%d文字以上で入力してください。", rule.MinLength)
		}
		if rule.MaxLength > 0 && length > rule.MaxLength {
			return fmt.Sprintf("最大%d文字以内で入力してください。", rule.MaxLength)
		}
	}

	if field.Type == FieldDate {
		// ISO (YYYY-MM-DD) 形式のため辞書順比較で日付順になる
		if text, ok := value.(string); ok {
			if rule.MinDate != "" && text < rule.MinDate {
				return fmt.Sprintf("%s 以降の日付を選択してください。", rule.MinDate)
			}
			if rule.MaxDate != "" && text > rule.MaxDate {
				return fmt.Sprintf("%s 以前の日付を選択してください。", rule.MaxDate)
			}
		}
	}

	return ""
}

// ValidateVisible は表示中の設問のみ検査し、設問 ID → メッセージの集合を返す。
// 非表示の設問は required でも送信を妨げない。
func ValidateVisible(fields []Field, answers map[string]AnswerValue) map[string]string {
	messages := map[string]string{}
	for _, field := range fields {
		if !IsVisible(field, answers) {
			continue
		}
		if message := Validate(field, answers[field.ID]); message != "" {
			messages[field.ID] = message
		}
	}
	return messages
}

// isEmptyAnswer は未入力扱いの値かどうかを判定する。
func isEmptyAnswer(value AnswerValue) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
