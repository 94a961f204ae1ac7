package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// signupHandler は認証済みユーザーの組織とオーナープロフィールを作成する。
// メールアドレスはトークン記載のものを優先する。
func (h *Handler) signupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		var payload signupRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		email := strings.TrimSpace(user.Email)
		if email == "" {
			email = strings.TrimSpace(payload.Email)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		profile, err := h.accountService.Signup(ctx, adminapp.SignupCommand{
			UID:     user.ID,
			Email:   email,
			OrgName: payload.OrgName,
		})
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildProfilePayload(*profile))
	}
}
