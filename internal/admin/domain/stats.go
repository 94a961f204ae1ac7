package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// FormStats はダッシュボード表示用の集計結果。都度計算し、永続化はしない。
type FormStats struct {
	ResponseCount      int
	CompletionRate     int
	AverageAnswered    int
	OptionDistribution []FieldOptionDistribution
	TopKeywords        []KeywordCount
	SentimentTally     SentimentTally
}

// FieldOptionDistribution は選択式設問 1 件分の選択肢別回答数。
type FieldOptionDistribution struct {
	FieldID string
	Label   string
	Counts  []OptionCount
}

// OptionCount は選択肢 1 件分の回答数。
type OptionCount struct {
	Option string
	Count  int
}

// KeywordCount は頻出語 1 件分の出現回数。
type KeywordCount struct {
	Keyword string
	Count   int
}

// SentimentTally は語彙ベースの簡易感情判定の集計。
// AI 分析の sentimentLabel とは独立した別系統のシグナルであり、突合はしない。
type SentimentTally struct {
	Positive int
	Neutral  int
	Negative int
}

var positiveWords = []string{
	"良い", "良かった", "満足", "最高", "便利", "助かり", "安心", "丁寧",
	"good", "great", "excellent", "satisfied", "helpful", "love",
}

var negativeWords = []string{
	"悪い", "悪かった", "不満", "最悪", "不便", "困っ", "遅い", "分かりにくい",
	"bad", "poor", "terrible", "dissatisfied", "slow", "hate",
}

// ComputeStats はフォーム定義と回答集合から集計を導出する純粋関数。
func ComputeStats(form Form, responses []Response) FormStats {
	stats := FormStats{
		ResponseCount:      len(responses),
		OptionDistribution: computeOptionDistribution(form.Fields, responses),
		TopKeywords:        computeTopKeywords(form.Fields, responses),
		SentimentTally:     computeSentimentTally(form.Fields, responses),
	}
	stats.CompletionRate = computeCompletionRate(form.Fields, responses)
	stats.AverageAnswered = computeAverageAnswered(form.Fields, responses)
	return stats
}

// hasAnswer は回答済み扱いの値かどうかを判定する。
// 必須判定と同じ基準（multi_select は非空配列、checkbox は true）。
func hasAnswer(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// computeCompletionRate は回答ごとの必須項目充足率を平均し、百分率へ丸める。
// 表示条件は考慮せず、全必須項目を母数に数える。必須項目ゼロのフォームは各回答 100% 扱い。
func computeCompletionRate(fields []Field, responses []Response) int {
	if len(responses) == 0 {
		return 0
	}

	required := make([]Field, 0, len(fields))
	for _, field := range fields {
		if field.Required {
			required = append(required, field)
		}
	}

	total := 0.0
	for _, response := range responses {
		if len(required) == 0 {
			total += 1
			continue
		}
		answered := 0
		for _, field := range required {
			if hasAnswer(response.Answers[field.ID]) {
				answered++
			}
		}
		total += float64(answered) / float64(len(required))
	}

	return int(math.Round(total / float64(len(responses)) * 100))
}

// computeAverageAnswered は 1 回答あたりの回答済み設問数の平均を返す。
func computeAverageAnswered(fields []Field, responses []Response) int {
	if len(responses) == 0 {
		return 0
	}

	total := 0
	for _, response := range responses {
		for _, field := range fields {
			if hasAnswer(response.Answers[field.ID]) {
				total++
			}
		}
	}
	return int(math.Round(float64(total) / float64(len(responses))))
}

// computeOptionDistribution は選択式設問ごとに、宣言済み選択肢それぞれの
// 選択回数を数える。複数選択は選択された選択肢ごとに 1 回答 1 カウント。
func computeOptionDistribution(fields []Field, responses []Response) []FieldOptionDistribution {
	distributions := make([]FieldOptionDistribution, 0)
	for _, field := range fields {
		if !isSelectType(field.Type) {
			continue
		}

		counts := make([]OptionCount, len(field.Options))
		for i, option := range field.Options {
			counts[i] = OptionCount{Option: option}
		}

		for _, response := range responses {
			switch value := response.Answers[field.ID].(type) {
			case string:
				for i := range counts {
					if counts[i].Option == value {
						counts[i].Count++
					}
				}
			case []string:
				for i := range counts {
					for _, selected := range value {
						if counts[i].Option == selected {
							counts[i].Count++
							break
						}
					}
				}
			case []any:
				for i := range counts {
					for _, selected := range value {
						if text, ok := selected.(string); ok && counts[i].Option == text {
							counts[i].Count++
							break
						}
					}
				}
			}
		}

		distributions = append(distributions, FieldOptionDistribution{
			FieldID: field.ID,
			Label:   field.Label,
			Counts:  counts,
		})
	}
	return distributions
}

// collectFreeText は自由記述設問の回答テキストを回答順に集める。
func collectFreeText(fields []Field, response Response) []string {
	texts := make([]string, 0)
	for _, field := range fields {
		if field.Type != FieldShortText && field.Type != FieldLongText {
			continue
		}
		if text, ok := response.Answers[field.ID].(string); ok && text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// computeTopKeywords は自由記述の頻出語を数え、上位 6 件を返す。
// 2 文字未満または数字のみのトークンは除外し、同数は出現順を保つ。
func computeTopKeywords(fields []Field, responses []Response) []KeywordCount {
	counts := map[string]int{}
	order := make([]string, 0)

	for _, response := range responses {
		for _, text := range collectFreeText(fields, response) {
			for _, token := range tokenize(strings.ToLower(text)) {
				if _, seen := counts[token]; !seen {
					order = append(order, token)
				}
				counts[token]++
			}
		}
	}

	keywords := make([]KeywordCount, 0, len(order))
	for _, token := range order {
		keywords = append(keywords, KeywordCount{Keyword: token, Count: counts[token]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > 6 {
		keywords = keywords[:6]
	}
	return keywords
}

// tokenize は空白と記号で分割する。
func tokenize(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 {
			continue
		}
		if isNumericToken(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func isNumericToken(token string) bool {
	for _, r := range token {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// computeSentimentTally は固定語彙の出現数で回答ごとの符号を決め、件数を集計する。
func computeSentimentTally(fields []Field, responses []Response) SentimentTally {
	tally := SentimentTally{}
	for _, response := range responses {
		text := strings.ToLower(strings.Join(collectFreeText(fields, response), "\n"))
		score := 0
		for _, word := range positiveWords {
			score += strings.Count(text, word)
		}
		for _, word := range negativeWords {
			score -= strings.Count(text, word)
		}
		switch {
		case score > 0:
			tally.Positive++
		case score < 0:
			tally.Negative++
		default:
			tally.Neutral++
		}
	}
	return tally
}
