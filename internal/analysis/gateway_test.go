package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

type stubHTTPClient struct {
	status   int
	body     string
	err      error
	lastBody []byte
	lastURL  string
	calls    int
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	c.lastURL = req.URL.String()
	if req.Body != nil {
		c.lastBody, _ = io.ReadAll(req.Body)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(c.body))),
	}, nil
}

func candidateBody(t *testing.T, text string) string {
	t.Helper()
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return string(encoded)
}

func newTestGateway(client HTTPClient) *Gateway {
	return NewGateway(Config{
		Client:   client,
		Endpoint: "https://example.invalid/v1beta",
		APIKey:   "test-key",
		Model:    "gemini-2.0-flash",
	})
}

func TestAnalyzeEmptyInputSkipsCall(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusOK}
	gateway := newTestGateway(client)

	result, err := gateway.Analyze(context.Background(), Request{FreeText: "  ", OverallText: ""})
	if err != nil {
		t.Fatal(err)
	}
	if client.calls != 0 {
		t.Fatalf("空入力では API を呼ばないべき: calls=%d", client.calls)
	}
	if result.SentimentLabel != publicdomain.SentimentNeedsReview || result.OverallScore != nil {
		t.Fatalf("result=%+v", result)
	}
}

func TestAnalyzeWithoutAPIKey(t *testing.T) {
	gateway := NewGateway(Config{Client: &stubHTTPClient{}, Endpoint: "https://example.invalid", Model: "m"})

	if _, err := gateway.Analyze(context.Background(), Request{FreeText: "テキスト"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err=%v, want ErrNotConfigured", err)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	text := `{"overallScore": 7.6, "sentimentLabel": "positive", "confidence": 0.85, "keywords": ["待ち時間", "接客"]}`
	client := &stubHTTPClient{status: http.StatusOK, body: candidateBody(t, text)}
	gateway := newTestGateway(client)

	result, err := gateway.Analyze(context.Background(), Request{
		FreeText:       "待ち時間が長かったですが接客は丁寧でした",
		WantsSentiment: true,
		WantsOverall:   true,
		MinConfidence:  0.6,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.OverallScore == nil || *result.OverallScore != 8 {
		t.Fatalf("OverallScore=%v", result.OverallScore)
	}
	if result.SentimentLabel != publicdomain.SentimentPositive {
		t.Fatalf("SentimentLabel=%q", result.SentimentLabel)
	}
	if len(result.Keywords) != 2 {
		t.Fatalf("Keywords=%v", result.Keywords)
	}
	if result.Model != "gemini-2.0-flash" {
		t.Fatalf("Model=%q", result.Model)
	}
	if !strings.Contains(client.lastURL, "models/gemini-2.0-flash:generateContent") {
		t.Fatalf("URL=%q", client.lastURL)
	}
	if !strings.Contains(string(client.lastBody), "FREE_TEXT:") {
		t.Fatalf("リクエスト本文にプロンプトが含まれていない: %s", client.lastBody)
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusTooManyRequests, body: `{"error":"quota"}`}
	gateway := newTestGateway(client)

	_, err := gateway.Analyze(context.Background(), Request{FreeText: "テキスト"})
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("err=%v, want UpstreamError", err)
	}
	if upstreamErr.Status != http.StatusTooManyRequests {
		t.Fatalf("Status=%d", upstreamErr.Status)
	}
	if !strings.Contains(upstreamErr.Detail, "quota") {
		t.Fatalf("Detail=%q", upstreamErr.Detail)
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	client := &stubHTTPClient{err: errors.New("connection refused")}
	gateway := newTestGateway(client)

	if _, err := gateway.Analyze(context.Background(), Request{FreeText: "テキスト"}); err == nil {
		t.Fatal("通信エラーは呼び出し元へ返すべき")
	}
}

func TestAnalyzeUnparsableOutputFallsBack(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusOK, body: candidateBody(t, "すみません、JSON を生成できませんでした")}
	gateway := newTestGateway(client)

	result, err := gateway.Analyze(context.Background(), Request{FreeText: "テキスト", WantsSentiment: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.SentimentLabel != publicdomain.SentimentNeedsReview || result.Confidence != 0 {
		t.Fatalf("result=%+v", result)
	}
}

func TestAnalyzeExtractsWrappedJSON(t *testing.T) {
	text := "結果は以下の通りです。\n```json\n{\"sentimentLabel\": \"negative\", \"confidence\": 0.8}\n```"
	client := &stubHTTPClient{status: http.StatusOK, body: candidateBody(t, text)}
	gateway := newTestGateway(client)

	result, err := gateway.Analyze(context.Background(), Request{FreeText: "テキスト", WantsSentiment: true, MinConfidence: 0.6})
	if err != nil {
		t.Fatal(err)
	}
	if result.SentimentLabel != publicdomain.SentimentNegative {
		t.Fatalf("SentimentLabel=%q", result.SentimentLabel)
	}
}
