package application

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

type stubFormRepo struct {
	form *domain.Form
	err  error
}

func (r *stubFormRepo) ByShareID(_ context.Context, shareID string) (*domain.Form, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.form == nil || r.form.ShareID != shareID {
		return nil, nil
	}
	return r.form, nil
}

type stubResponseRepo struct {
	existing map[string]bool
	created  []*domain.Response
	err      error
}

func (r *stubResponseRepo) Exists(_ context.Context, responseID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.existing[responseID], nil
}

func (r *stubResponseRepo) Create(_ context.Context, response *domain.Response) error {
	if r.existing[response.ID] {
		return ErrAlreadyResponded
	}
	r.created = append(r.created, response)
	return nil
}

type stubAnalyzer struct {
	result *domain.AnalysisResult
	err    error
	calls  int
	lastIn AnalyzeInput
}

func (a *stubAnalyzer) Analyze(_ context.Context, in AnalyzeInput) (*domain.AnalysisResult, error) {
	a.calls++
	a.lastIn = in
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func activeForm() *domain.Form {
	return &domain.Form{
		ID:      "form1",
		OrgID:   "org1",
		ShareID: "share1",
		Status:  domain.FormStatusActive,
		Fields: []domain.Field{
			{ID: "comment", Label: "ご意見", Type: domain.FieldLongText, Required: true, AIEnabled: true},
			{
				ID:         "email",
				Label:      "メールアドレス",
				Type:       domain.FieldShortText,
				Required:   true,
				Visibility: &domain.VisibilityRule{DependsOnID: "newsletter", Operator: domain.VisibilityChecked},
			},
			{ID: "newsletter", Label: "メルマガ希望", Type: domain.FieldCheckbox},
		},
		AIEnabled:       true,
		AIMinConfidence: 0.6,
	}
}

func TestSubmitPersistsResponse(t *testing.T) {
	score := 7
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{
		OverallScore:   &score,
		SentimentLabel: domain.SentimentPositive,
		Confidence:     0.9,
		Keywords:       []string{"接客"},
		Model:          "gemini-2.0-flash",
	}}
	responses := &stubResponseRepo{existing: map[string]bool{}}
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, responses, analyzer, testLogger())

	response, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"comment": "接客がとても丁寧でした"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.ID != "form1_resp1" {
		t.Fatalf("ID=%q", response.ID)
	}
	if response.Status != domain.ResponseStatusNew {
		t.Fatalf("Status=%q", response.Status)
	}
	if response.Analysis == nil || response.Analysis.SentimentLabel != domain.SentimentPositive {
		t.Fatalf("Analysis=%+v", response.Analysis)
	}
	if len(responses.created) != 1 {
		t.Fatalf("created=%d", len(responses.created))
	}
	if analyzer.calls != 1 {
		t.Fatalf("analyzer calls=%d", analyzer.calls)
	}
	if analyzer.lastIn.FreeText == "" || !analyzer.lastIn.WantsSentiment {
		t.Fatalf("AnalyzeInput=%+v", analyzer.lastIn)
	}
}

func TestSubmitRejectsEmptyRespondentID(t *testing.T) {
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, &stubResponseRepo{existing: map[string]bool{}}, nil, testLogger())

	if _, err := service.Submit(context.Background(), SubmitResponseCommand{ShareID: "share1", RespondentID: "  "}); err == nil {
		t.Fatal("空の回答者 ID は拒否されるべき")
	}
}

func TestSubmitUnknownShareID(t *testing.T) {
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, &stubResponseRepo{existing: map[string]bool{}}, nil, testLogger())

	_, err := service.Submit(context.Background(), SubmitResponseCommand{ShareID: "missing", RespondentID: "resp1"})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("err=%v, want ErrFormNotFound", err)
	}
}

func TestSubmitDraftForm(t *testing.T) {
	form := activeForm()
	form.Status = domain.FormStatusDraft
	service := NewResponseCommandService(&stubFormRepo{form: form}, &stubResponseRepo{existing: map[string]bool{}}, nil, testLogger())

	_, err := service.Submit(context.Background(), SubmitResponseCommand{ShareID: "share1", RespondentID: "resp1"})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("err=%v, want ErrFormNotFound", err)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	analyzer := &stubAnalyzer{}
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, &stubResponseRepo{existing: map[string]bool{}}, analyzer, testLogger())

	_, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"newsletter": true},
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if validationErr.Fields["comment"] != "必須項目です。" {
		t.Fatalf("Fields=%v", validationErr.Fields)
	}
	if validationErr.Fields["email"] != "必須項目です。" {
		t.Fatalf("表示中の email も検証対象のはず: %v", validationErr.Fields)
	}
	if analyzer.calls != 0 {
		t.Fatal("検証エラー時は AI 分析を呼ばないべき")
	}
}

func TestSubmitDuplicateBeforeAnalysis(t *testing.T) {
	analyzer := &stubAnalyzer{}
	responses := &stubResponseRepo{existing: map[string]bool{"form1_resp1": true}}
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, responses, analyzer, testLogger())

	_, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"comment": "二回目の送信"},
	})
	if !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("err=%v, want ErrAlreadyResponded", err)
	}
	if analyzer.calls != 0 {
		t.Fatal("既知の二重送信では AI 分析を呼ばないべき")
	}
}

func TestSubmitAnalyzerFailureDegrades(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("upstream status 429")}
	responses := &stubResponseRepo{existing: map[string]bool{}}
	service := NewResponseCommandService(&stubFormRepo{form: activeForm()}, responses, analyzer, testLogger())

	response, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"comment": "コーヒーが美味しかったです"},
	})
	if err != nil {
		t.Fatalf("分析失敗でも送信は成功すべき: %v", err)
	}
	if response.Analysis == nil {
		t.Fatal("degraded な分析結果が添付されるべき")
	}
	if response.Analysis.SentimentLabel != domain.SentimentNeedsReview || response.Analysis.Confidence != 0 {
		t.Fatalf("Analysis=%+v", response.Analysis)
	}
}

func TestSubmitSkipsAnalysisWhenDisabled(t *testing.T) {
	form := activeForm()
	form.AIEnabled = false
	analyzer := &stubAnalyzer{}
	service := NewResponseCommandService(&stubFormRepo{form: form}, &stubResponseRepo{existing: map[string]bool{}}, analyzer, testLogger())

	response, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"comment": "感想"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if analyzer.calls != 0 {
		t.Fatal("AI 無効のフォームでは分析を呼ばないべき")
	}
	if response.Analysis != nil {
		t.Fatalf("Analysis=%+v, want nil", response.Analysis)
	}
}

func TestSubmitSkipsAnalysisWhenNoTargetText(t *testing.T) {
	form := activeForm()
	form.Fields = []domain.Field{
		{ID: "newsletter", Label: "メルマガ希望", Type: domain.FieldCheckbox},
	}
	analyzer := &stubAnalyzer{}
	service := NewResponseCommandService(&stubFormRepo{form: form}, &stubResponseRepo{existing: map[string]bool{}}, analyzer, testLogger())

	response, err := service.Submit(context.Background(), SubmitResponseCommand{
		ShareID:      "share1",
		RespondentID: "resp1",
		Answers:      map[string]domain.AnswerValue{"newsletter": true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if analyzer.calls != 0 {
		t.Fatal("分析対象テキストが空なら呼び出しを省略すべき")
	}
	if response.Analysis != nil {
		t.Fatalf("Analysis=%+v, want nil", response.Analysis)
	}
}
