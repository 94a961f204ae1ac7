package public

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cocosurvey/cocosurvey-services/api/internal/analysis"
	publicapp "github.com/cocosurvey/cocosurvey-services/api/internal/public/application"
	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

type stubFormQueries struct {
	form *publicdomain.Form
}

func (s *stubFormQueries) ByShareID(_ context.Context, shareID string) (*publicdomain.Form, error) {
	if s.form == nil || s.form.ShareID != shareID {
		return nil, publicapp.ErrFormNotFound
	}
	return s.form, nil
}

type stubResponseCommands struct {
	response *publicdomain.Response
	err      error
	lastCmd  publicapp.SubmitResponseCommand
}

func (s *stubResponseCommands) Submit(_ context.Context, cmd publicapp.SubmitResponseCommand) (*publicdomain.Response, error) {
	s.lastCmd = cmd
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type stubAnalysisClient struct {
	status int
	body   string
}

func (c *stubAnalysisClient) Do(_ *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(c.body))),
	}, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func newTestRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	h.Register(router, passthrough)
	return router
}

func sampleForm() *publicdomain.Form {
	return &publicdomain.Form{
		ID:      "form1",
		OrgID:   "org1",
		Title:   "満足度アンケート",
		Status:  publicdomain.FormStatusActive,
		ShareID: "share1",
		Fields: []publicdomain.Field{
			{ID: "q1", Label: "感想", Type: publicdomain.FieldLongText, Required: true},
		},
	}
}

func TestFormByShareHandler(t *testing.T) {
	handler := NewHandler(Config{Logger: testLogger(), FormQueries: &stubFormQueries{form: sampleForm()}})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/surveys/share1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}

	var payload formPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.ShareID != "share1" || len(payload.Fields) != 1 {
		t.Fatalf("payload=%+v", payload)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/surveys/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
}

func TestSubmitHandlerSuccess(t *testing.T) {
	score := 8
	commands := &stubResponseCommands{response: &publicdomain.Response{
		ID:     "form1_resp1",
		FormID: "form1",
		Status: publicdomain.ResponseStatusNew,
		Analysis: &publicdomain.AnalysisResult{
			OverallScore:   &score,
			SentimentLabel: publicdomain.SentimentPositive,
			Confidence:     0.9,
			Keywords:       []string{"接客"},
			Model:          "gemini-2.0-flash",
		},
	}}
	handler := NewHandler(Config{
		Logger:           testLogger(),
		FormQueries:      &stubFormQueries{form: sampleForm()},
		ResponseCommands: commands,
		HTTPClient:       &http.Client{},
	})
	router := newTestRouter(handler)

	body := `{"respondentId":"resp1","answers":{"q1":"良かったです","menus":["a","b"],"agree":true,"skip":null}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/surveys/share1/responses", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}

	var payload submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.ResponseID != "form1_resp1" || payload.Analysis == nil {
		t.Fatalf("payload=%+v", payload)
	}
	if *payload.Analysis.OverallScore != 8 {
		t.Fatalf("Analysis=%+v", payload.Analysis)
	}

	// JSON 由来の回答値は string / []string / bool / nil へ強制される
	if commands.lastCmd.Answers["q1"] != "良かったです" {
		t.Fatalf("q1=%v", commands.lastCmd.Answers["q1"])
	}
	menus, ok := commands.lastCmd.Answers["menus"].([]string)
	if !ok || len(menus) != 2 {
		t.Fatalf("menus=%v", commands.lastCmd.Answers["menus"])
	}
	if commands.lastCmd.Answers["agree"] != true {
		t.Fatalf("agree=%v", commands.lastCmd.Answers["agree"])
	}
	if commands.lastCmd.Answers["skip"] != nil {
		t.Fatalf("skip=%v", commands.lastCmd.Answers["skip"])
	}
}

func TestSubmitHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"検証エラー", &publicapp.ValidationError{Fields: map[string]string{"q1": "必須項目です。"}}, http.StatusUnprocessableEntity},
		{"二重送信", publicapp.ErrAlreadyResponded, http.StatusConflict},
		{"フォームなし", publicapp.ErrFormNotFound, http.StatusNotFound},
	}
	for _, c := range cases {
		handler := NewHandler(Config{
			Logger:           testLogger(),
			FormQueries:      &stubFormQueries{form: sampleForm()},
			ResponseCommands: &stubResponseCommands{err: c.err},
		})
		router := newTestRouter(handler)

		rec := httptest.NewRecorder()
		body := `{"respondentId":"resp1","answers":{}}`
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/surveys/share1/responses", strings.NewReader(body)))
		if rec.Code != c.wantStatus {
			t.Fatalf("%s: status=%d, want %d", c.name, rec.Code, c.wantStatus)
		}
	}
}

func TestSubmitHandlerValidationBody(t *testing.T) {
	handler := NewHandler(Config{
		Logger:      testLogger(),
		FormQueries: &stubFormQueries{form: sampleForm()},
		ResponseCommands: &stubResponseCommands{err: &publicapp.ValidationError{
			Fields: map[string]string{"q1": "必須項目です。"},
		}},
	})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	body := `{"respondentId":"resp1","answers":{}}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/surveys/share1/responses", strings.NewReader(body)))

	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Fields["q1"] != "必須項目です。" {
		t.Fatalf("payload=%+v", payload)
	}
}

func TestAnalyzeHandlerUnconfigured(t *testing.T) {
	gateway := analysis.NewGateway(analysis.Config{Client: &stubAnalysisClient{}, Endpoint: "https://example.invalid", Model: "m"})
	handler := NewHandler(Config{Logger: testLogger(), Gateway: gateway})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/analyze", strings.NewReader(`{}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GEMINI_API_KEY is not configured") {
		t.Fatalf("body=%s", rec.Body)
	}
}

func TestAnalyzeHandlerInvalidJSON(t *testing.T) {
	gateway := analysis.NewGateway(analysis.Config{Client: &stubAnalysisClient{}, Endpoint: "https://example.invalid", APIKey: "k", Model: "m"})
	handler := NewHandler(Config{Logger: testLogger(), Gateway: gateway})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/analyze", strings.NewReader("{broken")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid JSON") {
		t.Fatalf("body=%s", rec.Body)
	}
}

func TestAnalyzeHandlerUpstreamError(t *testing.T) {
	gateway := analysis.NewGateway(analysis.Config{
		Client:   &stubAnalysisClient{status: http.StatusServiceUnavailable, body: "overloaded"},
		Endpoint: "https://example.invalid",
		APIKey:   "k",
		Model:    "m",
	})
	handler := NewHandler(Config{Logger: testLogger(), Gateway: gateway})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	body := `{"freeText":"待ち時間が長い","wantsSentiment":true}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/analyze", strings.NewReader(body)))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Gemini API error") {
		t.Fatalf("body=%s", rec.Body)
	}
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	candidate := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{
				{"text": `{"sentimentLabel":"negative","confidence":0.8,"keywords":["待ち時間"]}`},
			}}},
		},
	}
	encoded, err := json.Marshal(candidate)
	if err != nil {
		t.Fatal(err)
	}

	gateway := analysis.NewGateway(analysis.Config{
		Client:   &stubAnalysisClient{status: http.StatusOK, body: string(encoded)},
		Endpoint: "https://example.invalid",
		APIKey:   "k",
		Model:    "m",
	})
	handler := NewHandler(Config{Logger: testLogger(), Gateway: gateway})
	router := newTestRouter(handler)

	rec := httptest.NewRecorder()
	body := `{"freeText":"待ち時間が長かった","wantsSentiment":true,"minConfidence":0.6}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/analyze", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}

	var payload analysisPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.SentimentLabel != "negative" || payload.Confidence != 0.8 {
		t.Fatalf("payload=%+v", payload)
	}
	if payload.OverallScore != nil {
		t.Fatalf("要求していないスコアは null のまま: %v", *payload.OverallScore)
	}
}
