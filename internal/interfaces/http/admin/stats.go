package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// formStatsHandler はフォーム 1 件分のダッシュボード集計を返す。
// 集計は保存済み回答から都度計算する。
func (h *Handler) formStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
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

		stats, err := h.statsService.Summarize(ctx, formID, profile.OrgID)
		if err != nil {
			if errors.Is(err, adminapp.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりません"})
				return
			}
			h.logger.Printf("集計の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "集計の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildStatsPayload(*stats))
	}
}
