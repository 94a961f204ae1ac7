package application

import (
	"context"
	"errors"

	"github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// ErrFormNotFound は shareId に対応する公開中フォームが存在しないことを示す。
var ErrFormNotFound = errors.New("フォームが見つかりませんでした")

// ErrAlreadyResponded は同一 (フォーム, 回答者) ペアの二重送信を示す。
var ErrAlreadyResponded = errors.New("このフォームは既に回答済みです。")

// ValidationError は設問ごとの検証メッセージの集合。全件解消まで送信はブロックされる。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "入力内容を確認してください。"
}

// FormRepository は Public コンテキストでフォームを読み取るためのポート。
// ByShareID は status=active のフォームのみ返す。
type FormRepository interface {
	ByShareID(ctx context.Context, shareID string) (*domain.Form, error)
}

// ResponseRepository は回答の存在確認と create-if-absent 追加を提供するポート。
// Create は回答 ID 衝突時に ErrAlreadyResponded を返す。
type ResponseRepository interface {
	Exists(ctx context.Context, responseID string) (bool, error)
	Create(ctx context.Context, response *domain.Response) error
}

// AnalyzeInput は Analysis Gateway への 1 回分の入力。
type AnalyzeInput struct {
	FreeText       string
	OverallText    string
	WantsSentiment bool
	WantsOverall   bool
	MinConfidence  float64
}

// Analyzer は外部テキスト分類サービスへの境界ポート。
type Analyzer interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*domain.AnalysisResult, error)
}

// FormQueryService はフォーム参照ユースケースを提供するリーダーモデル。
type FormQueryService interface {
	ByShareID(ctx context.Context, shareID string) (*domain.Form, error)
}

// ResponseCommandService は回答送信ユースケースを提供する。
type ResponseCommandService interface {
	Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error)
}

// SubmitResponseCommand は匿名回答者からの送信入力。
type SubmitResponseCommand struct {
	ShareID      string
	RespondentID string
	Answers      map[string]domain.AnswerValue
}
