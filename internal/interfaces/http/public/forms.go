package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
	publicapp "github.com/cocosurvey/cocosurvey-services/api/internal/public/application"
)

// formByShareHandler は共有 ID でフォーム定義を返す匿名アクセス API。
// draft のフォームは存在しないものとして扱う。
func (h *Handler) formByShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shareID := strings.TrimSpace(chi.URLParam(r, "shareId"))
		if shareID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "共有IDが指定されていません"})
			return
		}

		form, err := h.formQueries.ByShareID(ctx, shareID)
		if err != nil {
			if errors.Is(err, publicapp.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりませんでした"})
				return
			}
			h.logger.Printf("フォームの取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "フォームの取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildFormPayload(*form))
	}
}
