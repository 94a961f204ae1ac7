package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// ErrNotConfigured は外部 API の資格情報が未設定であることを示す。
var ErrNotConfigured = errors.New("GEMINI_API_KEY が設定されていません")

// UpstreamError は外部テキスト生成 API の非 2xx 応答を表す。
// リトライは行わず、呼び出し側が degraded な既定値へフォールバックする。
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Detail)
}

// HTTPClient は外部 API 呼び出しの差し替え点。
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request は分析 1 回分の入力。
type Request struct {
	FreeText       string
	OverallText    string
	WantsSentiment bool
	WantsOverall   bool
	MinConfidence  float64
}

// Gateway は外部テキスト分類サービスの呼び出しと結果の正規化を担う境界コンポーネント。
type Gateway struct {
	client   HTTPClient
	endpoint string
	apiKey   string
	model    string
	logger   *log.Logger
}

// Config は Gateway の依存を定義する。
type Config struct {
	Client   HTTPClient
	Endpoint string
	APIKey   string
	Model    string
	Logger   *log.Logger
}

// NewGateway は Gateway を構築する。Client 未指定時は素の http.DefaultClient を使う。
// タイムアウトは呼び出し側が Client に設定して渡す。
func NewGateway(cfg Config) *Gateway {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{
		client:   client,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		logger:   cfg.Logger,
	}
}

// Model は設定済みのモデル名を返す。
func (g *Gateway) Model() string {
	return g.model
}

// Configured は資格情報が設定済みかどうかを返す。
func (g *Gateway) Configured() bool {
	return g.apiKey != ""
}

type generateContentRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateContent struct {
	Role  string        `json:"role"`
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze は自由記述・全体テキストを外部 API へ送信し、正規化済みの分析結果を返す。
// 両テキストが空の場合は API を呼ばずに needs_review の既定値を返す。
func (g *Gateway) Analyze(ctx context.Context, req Request) (*publicdomain.AnalysisResult, error) {
	freeText := strings.TrimSpace(req.FreeText)
	overallText := strings.TrimSpace(req.OverallText)
	if freeText == "" && overallText == "" {
		return emptyResult(g.model), nil
	}

	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	prompt := buildPrompt(freeText, overallText, req.WantsSentiment, req.WantsOverall)
	payload := generateContentRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []contentPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{Temperature: 0.1, MaxOutputTokens: 256},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, g.model, url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{Status: resp.StatusCode, Detail: string(detail)}
	}

	var decoded generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	rawText := ""
	if len(decoded.Candidates) > 0 {
		var builder strings.Builder
		for _, part := range decoded.Candidates[0].Content.Parts {
			builder.WriteString(part.Text)
		}
		rawText = builder.String()
	}

	parsed := extractJSON(rawText)
	if parsed == nil {
		if g.logger != nil {
			g.logger.Printf("分析結果の JSON 抽出に失敗したため既定値を返します")
		}
		return emptyResult(g.model), nil
	}

	return normalize(parsed, req, g.model), nil
}

// buildPrompt は JSON のみを返すよう指示する固定の指示文と回答テキストを結合する。
func buildPrompt(freeText, overallText string, wantsSentiment, wantsOverall bool) string {
	instructions := strings.Join([]string{
		"You are an AI that classifies B2B survey responses.",
		"Return JSON only with keys: overallScore, sentimentLabel, confidence, keywords.",
		"overallScore: integer 1-10 or null if not requested.",
		"sentimentLabel: positive, neutral, negative, or needs_review.",
		"confidence: number 0-1.",
		"keywords: array of up to 6 short phrases.",
	}, "\n")

	if freeText == "" {
		freeText = "(none)"
	}
	if overallText == "" {
		overallText = "(none)"
	}

	inputText := strings.Join([]string{
		"FREE_TEXT:",
		freeText,
		"",
		"OVERALL_TEXT:",
		overallText,
		"",
		fmt.Sprintf("REQUEST: sentiment=%t, overallScore=%t", wantsSentiment, wantsOverall),
	}, "\n")

	return instructions + "\n\n" + inputText
}

// extractJSON はモデル出力をまず JSON として解釈し、失敗時は最初の `{` から
// 最後の `}` までの部分文字列を取り出して再解釈する。どちらも失敗なら nil。
func extractJSON(text string) map[string]any {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil
	}
	return parsed
}

func emptyResult(model string) *publicdomain.AnalysisResult {
	return &publicdomain.AnalysisResult{
		OverallScore:   nil,
		SentimentLabel: publicdomain.SentimentNeedsReview,
		Confidence:     0,
		Keywords:       []string{},
		Model:          model,
	}
}
