package domain

import "time"

// AnswerValue は回答値。string / []string / bool / nil のいずれかを取る。
type AnswerValue = any

// ResponseStatus は回答の対応状況。
type ResponseStatus string

const (
	ResponseStatusNew        ResponseStatus = "new"
	ResponseStatusInProgress ResponseStatus = "in_progress"
	ResponseStatusDone       ResponseStatus = "done"
)

// SentimentLabel は AI 分析の感情分類。
type SentimentLabel string

const (
	SentimentPositive    SentimentLabel = "positive"
	SentimentNeutral     SentimentLabel = "neutral"
	SentimentNegative    SentimentLabel = "negative"
	SentimentNeedsReview SentimentLabel = "needs_review"
)

// AnalysisResult は外部テキスト分類 API の正規化済み結果。
type AnalysisResult struct {
	OverallScore   *int
	SentimentLabel SentimentLabel
	Confidence     float64
	Keywords       []string
	Model          string
}

// DegradedAnalysis は Gateway 障害時に回答へ添付するフォールバック結果。
// 分析失敗は送信を妨げない。
func DegradedAnalysis() *AnalysisResult {
	return &AnalysisResult{
		SentimentLabel: SentimentNeedsReview,
		Confidence:     0,
		Keywords:       []string{},
	}
}

// Response は 1 回答者分の送信済み回答セット。
type Response struct {
	ID           string
	FormID       string
	OrgID        string
	RespondentID string
	Answers      map[string]AnswerValue
	Status       ResponseStatus
	Tags         []string
	Memo         string
	AssigneeUID  string
	AssigneeName string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
	Analysis     *AnalysisResult
}

// ResponseID は (フォーム, 回答者) ペアから決定的な回答 ID を導出する。
// 同一ペアの二重送信はこの ID の衝突として検出される。
func ResponseID(formID, respondentID string) string {
	return formID + "_" + respondentID
}
