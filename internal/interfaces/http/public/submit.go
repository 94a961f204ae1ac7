package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
	publicapp "github.com/cocosurvey/cocosurvey-services/api/internal/public/application"
)

// submitResponseHandler は匿名回答者からの回答送信 API。
// 検証エラーは設問 ID ごとのメッセージとして返し、二重送信は 409 で弾く。
func (h *Handler) submitResponseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		shareID := strings.TrimSpace(chi.URLParam(r, "shareId"))
		if shareID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "共有IDが指定されていません"})
			return
		}

		var payload submitRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストボディの形式が不正です"})
			return
		}

		response, err := h.responseCommands.Submit(ctx, publicapp.SubmitResponseCommand{
			ShareID:      shareID,
			RespondentID: payload.RespondentID,
			Answers:      coerceAnswers(payload.Answers),
		})
		if err != nil {
			h.writeSubmitError(w, err)
			return
		}

		// 通知の成否は回答の受理に影響させない。
		go h.notifyResponseReceipt(context.Background(), shareID, response.ID, response.SubmittedAt)

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponse{
			Status:     "ok",
			ResponseID: response.ID,
			Analysis:   buildAnalysisPayload(response.Analysis),
		})
	}
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var validationErr *publicapp.ValidationError
	switch {
	case errors.As(err, &validationErr):
		common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]any{
			"error":  validationErr.Error(),
			"fields": validationErr.Fields,
		})
	case errors.Is(err, publicapp.ErrAlreadyResponded):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": publicapp.ErrAlreadyResponded.Error()})
	case errors.Is(err, publicapp.ErrFormNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりませんでした"})
	default:
		h.logger.Printf("回答の保存に失敗: %v", err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答の保存に失敗しました"})
	}
}
