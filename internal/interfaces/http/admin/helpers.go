package admin

import (
	"context"
	"net/http"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// requireProfile はリクエスト元ユーザーの組織プロフィールを解決する。
// 未所属のユーザーは管理 API を利用できない。
func (h *Handler) requireProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) (*admindomain.UserProfile, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
		return nil, false
	}

	profile, err := h.accountService.ProfileByUID(ctx, user.ID)
	if err != nil {
		h.logger.Printf("プロフィールの取得に失敗: %v", err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "プロフィールの取得に失敗しました"})
		return nil, false
	}
	if profile == nil {
		common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "組織への所属が必要です"})
		return nil, false
	}
	return profile, true
}
