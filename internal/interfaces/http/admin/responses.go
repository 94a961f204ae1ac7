package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// responseListHandler はフォーム配下の回答を受付日時の降順で返す。
func (h *Handler) responseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		formID := strings.TrimSpace(chi.URLParam(r, "id"))
		if formID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "フォームIDが指定されていません"})
			return
		}

		responses, err := h.responseService.ListByForm(ctx, formID, profile.OrgID)
		if err != nil {
			if errors.Is(err, adminapp.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりません"})
				return
			}
			h.logger.Printf("回答一覧の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答一覧の取得に失敗しました"})
			return
		}

		items := make([]responsePayload, 0, len(responses))
		for _, response := range responses {
			items = append(items, buildResponsePayload(response))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

// responseTriageHandler は回答のトリアージ属性のみを部分更新する。
// 回答内容そのものは送信後に変更できない。
func (h *Handler) responseTriageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "回答IDが指定されていません"})
			return
		}

		var payload triageRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		update := adminapp.ResponseTriageUpdate{
			Tags:         payload.Tags,
			Memo:         payload.Memo,
			AssigneeUID:  payload.AssigneeUID,
			AssigneeName: payload.AssigneeName,
		}
		if payload.Status != nil {
			normalized := string(admindomain.NormalizeResponseStatus(*payload.Status))
			update.Status = &normalized
		}

		response, err := h.responseService.UpdateTriage(ctx, id, profile.OrgID, update)
		if err != nil {
			if errors.Is(err, adminapp.ErrResponseNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "回答が見つかりません"})
				return
			}
			h.logger.Printf("回答の更新に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答の更新に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildResponsePayload(*response))
	}
}
