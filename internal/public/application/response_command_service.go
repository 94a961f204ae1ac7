package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

type responseCommandService struct {
	forms     FormRepository
	responses ResponseRepository
	analyzer  Analyzer
	logger    *log.Logger
}

// NewResponseCommandService は回答送信パイプラインを組み立てる。
func NewResponseCommandService(forms FormRepository, responses ResponseRepository, analyzer Analyzer, logger *log.Logger) ResponseCommandService {
	return &responseCommandService{
		forms:     forms,
		responses: responses,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Submit は表示判定 → 検証 → 二重送信チェック → AI 分析 → 永続化の順で
// 回答送信を処理する。分析の失敗は degraded な既定値へ置き換え、送信自体は通す。
func (s *responseCommandService) Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.Response, error) {
	respondentID := strings.TrimSpace(cmd.RespondentID)
	if respondentID == "" {
		return nil, errors.New("回答者IDが指定されていません")
	}

	form, err := s.forms.ByShareID(ctx, cmd.ShareID)
	if err != nil {
		return nil, err
	}
	if form == nil || !form.IsActive() {
		return nil, ErrFormNotFound
	}

	answers := cmd.Answers
	if answers == nil {
		answers = map[string]domain.AnswerValue{}
	}

	if messages := domain.ValidateVisible(form.Fields, answers); len(messages) > 0 {
		return nil, &ValidationError{Fields: messages}
	}

	// 分析の外部呼び出しより前に既知の二重送信を弾く。
	// 永続化時の ID 衝突検出が最終的な判定となる。
	responseID := domain.ResponseID(form.ID, respondentID)
	exists, err := s.responses.Exists(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyResponded
	}

	analysis := s.analyzeAnswers(ctx, form, answers)

	now := time.Now().UTC()
	response := &domain.Response{
		ID:           responseID,
		FormID:       form.ID,
		OrgID:        form.OrgID,
		RespondentID: respondentID,
		Answers:      answers,
		Status:       domain.ResponseStatusNew,
		Tags:         []string{},
		SubmittedAt:  now,
		UpdatedAt:    now,
		Analysis:     analysis,
	}

	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// analyzeAnswers は AI 分析対象のテキストブロックを構築して Gateway を呼ぶ。
// 対象テキストが空なら呼び出し自体を省略して nil を返す。
func (s *responseCommandService) analyzeAnswers(ctx context.Context, form *domain.Form, answers map[string]domain.AnswerValue) *domain.AnalysisResult {
	if !form.AIEnabled || s.analyzer == nil {
		return nil
	}

	freeText := domain.BuildAnalysisText(domain.AITargetFields(form.Fields), answers)
	overallText := ""
	if form.AIOverallEnabled {
		overallText = domain.BuildAnalysisText(form.Fields, answers)
	}
	if freeText == "" && overallText == "" {
		return nil
	}

	result, err := s.analyzer.Analyze(ctx, AnalyzeInput{
		FreeText:       freeText,
		OverallText:    overallText,
		WantsSentiment: freeText != "",
		WantsOverall:   overallText != "",
		MinConfidence:  form.AIMinConfidence,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("AI 分析に失敗したため既定値を添付します: %v", err)
		}
		return domain.DegradedAnalysis()
	}
	return result
}
