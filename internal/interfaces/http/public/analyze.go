package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cocosurvey/cocosurvey-services/api/internal/analysis"
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

const defaultMinConfidence = 0.6

// analyzeHandler は回答テキストの単発分析 API。
// API キー未設定の検査をリクエスト解釈より先に行う。
func (h *Handler) analyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.gateway == nil || !h.gateway.Configured() {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "GEMINI_API_KEY is not configured"})
			return
		}

		var payload analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
			return
		}

		minConfidence := defaultMinConfidence
		if payload.MinConfidence != nil {
			minConfidence = *payload.MinConfidence
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := h.gateway.Analyze(ctx, analysis.Request{
			FreeText:       payload.FreeText,
			OverallText:    payload.OverallText,
			WantsSentiment: payload.WantsSentiment,
			WantsOverall:   payload.WantsOverall,
			MinConfidence:  minConfidence,
		})
		if err != nil {
			var upstreamErr *analysis.UpstreamError
			if errors.As(err, &upstreamErr) {
				common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{
					"error":  "Gemini API error",
					"detail": upstreamErr.Detail,
				})
				return
			}
			h.logger.Printf("AI 分析に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "分析に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildAnalysisPayload(result))
	}
}
