package domain

import "strings"

// FormatAnswer は回答値を表示・分析用の文字列へ整形する。
func FormatAnswer(value AnswerValue) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, " / ")
	case bool:
		if v {
			return "はい"
		}
		return "いいえ"
	case nil:
		return ""
	case string:
		return v
	default:
		return ""
	}
}

// BuildAnalysisText は対象設問の回答を "Q:設問\nA:回答" 形式で連結する。
// 未回答の設問はスキップされる。
func BuildAnalysisText(fields []Field, answers map[string]AnswerValue) string {
	blocks := make([]string, 0, len(fields))
	for _, field := range fields {
		value := FormatAnswer(answers[field.ID])
		if value == "" {
			continue
		}
		blocks = append(blocks, "Q:"+field.Label+"\nA:"+value)
	}
	return strings.Join(blocks, "\n\n")
}

// AITargetFields は設問単位で AI 分析対象に指定された自由記述設問を返す。
func AITargetFields(fields []Field) []Field {
	targets := make([]Field, 0, len(fields))
	for _, field := range fields {
		if field.AIEnabled && (field.Type == FieldShortText || field.Type == FieldLongText) {
			targets = append(targets, field)
		}
	}
	return targets
}
