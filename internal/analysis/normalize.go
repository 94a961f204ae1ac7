package analysis

import (
	"math"

	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// normalize はモデルが返した緩い JSON を固定スキーマへ丸め込む。
// スコアは 1..10 へ四捨五入のうえクランプ、信頼度は 0..1 へクランプ、
// キーワードは文字列のみ先頭 6 件まで採用する。
func normalize(parsed map[string]any, req Request, model string) *publicdomain.AnalysisResult {
	result := &publicdomain.AnalysisResult{
		SentimentLabel: publicdomain.SentimentNeedsReview,
		Keywords:       []string{},
		Model:          model,
	}

	if req.WantsOverall {
		raw, ok := parsed["overallScore"]
		if !ok {
			raw = parsed["score"]
		}
		if score, numeric := asNumber(raw); numeric {
			clamped := int(clamp(math.Round(score), 1, 10))
			result.OverallScore = &clamped
		}
	}

	if req.WantsSentiment {
		label, _ := stringValue(parsed, "sentimentLabel", "sentiment")
		switch publicdomain.SentimentLabel(label) {
		case publicdomain.SentimentPositive, publicdomain.SentimentNeutral, publicdomain.SentimentNegative:
			result.SentimentLabel = publicdomain.SentimentLabel(label)
		}
	}

	if confidence, numeric := asNumber(parsed["confidence"]); numeric {
		result.Confidence = clamp(confidence, 0, 1)
	}

	if keywords, ok := parsed["keywords"].([]any); ok {
		for _, entry := range keywords {
			if keyword, isString := entry.(string); isString {
				result.Keywords = append(result.Keywords, keyword)
				if len(result.Keywords) == 6 {
					break
				}
			}
		}
	}

	// 低信頼の結果は感情ラベルのみ要確認へ倒す。スコアは算出値を残す。
	if result.Confidence < req.MinConfidence {
		result.SentimentLabel = publicdomain.SentimentNeedsReview
	}

	return result
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringValue(parsed map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := parsed[key].(string); ok {
			return value, true
		}
	}
	return "", false
}

func clamp(value, min, max float64) float64 {
	return math.Min(max, math.Max(min, value))
}
