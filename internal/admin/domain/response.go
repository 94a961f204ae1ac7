package domain

import "time"

// ResponseStatus は回答の対応状況。
type ResponseStatus string

const (
	ResponseStatusNew        ResponseStatus = "new"
	ResponseStatusInProgress ResponseStatus = "in_progress"
	ResponseStatusDone       ResponseStatus = "done"
)

// AnalysisResult は回答に添付された AI 分析の要約。
type AnalysisResult struct {
	OverallScore   *int
	SentimentLabel string
	Confidence     float64
	Keywords       []string
	Model          string
}

// Response は管理画面で扱う回答エンティティ。ステータス・タグ・メモ・
// 担当者の更新のみが許され、回答内容そのものは不変。
type Response struct {
	ID           string
	FormID       string
	OrgID        string
	RespondentID string
	Answers      map[string]any
	Status       ResponseStatus
	Tags         []string
	Memo         string
	AssigneeUID  string
	AssigneeName string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
	Analysis     *AnalysisResult
}

// NormalizeResponseStatus は未知のステータス文字列を new へ倒す。
func NormalizeResponseStatus(raw string) ResponseStatus {
	switch ResponseStatus(raw) {
	case ResponseStatusInProgress:
		return ResponseStatusInProgress
	case ResponseStatusDone:
		return ResponseStatusDone
	default:
		return ResponseStatusNew
	}
}
