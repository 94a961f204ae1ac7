package public

import (
	"context"
	"net/http"
	"time"

	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// authVerifyHandler はトークン検証結果と組織プロフィールを返す。
// 組織未登録のユーザーでもトークンが有効なら 200 を返す。
func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		payload := map[string]any{
			"status":  "ok",
			"user":    user,
			"profile": nil,
		}

		profile, err := h.accounts.ProfileByUID(ctx, user.ID)
		if err != nil {
			h.logger.Printf("プロフィールの取得に失敗: %v", err)
		} else if profile != nil {
			payload["profile"] = map[string]any{
				"uid":     profile.UID,
				"email":   profile.Email,
				"orgId":   profile.OrgID,
				"orgName": profile.OrgName,
				"role":    string(profile.Role),
			}
		}

		common.WriteJSON(h.logger, w, http.StatusOK, payload)
	}
}
