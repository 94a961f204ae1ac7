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
	"github.com/cocosurvey/cocosurvey-services/api/internal/interfaces/http/common"
)

// formListHandler は自組織のフォーム一覧を更新日時の降順で返す。
func (h *Handler) formListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		forms, err := h.formService.List(ctx, profile.OrgID)
		if err != nil {
			h.logger.Printf("フォーム一覧の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "フォーム一覧の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": buildFormPayloads(forms)})
	}
}

func (h *Handler) formDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "フォームIDが指定されていません"})
			return
		}

		form, err := h.formService.Detail(ctx, id, profile.OrgID)
		if err != nil {
			if errors.Is(err, adminapp.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりません"})
				return
			}
			h.logger.Printf("フォームの取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "フォームの取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildFormPayload(*form))
	}
}

// formCreateHandler は新規フォームを保存し、採番済みの共有 ID を含めて返す。
func (h *Handler) formCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		var payload formRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		form, err := h.formService.Create(ctx, profile.OrgID, profile.UID, payload.toCommand())
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildFormPayload(*form))
	}
}

func (h *Handler) formUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		profile, ok := h.requireProfile(ctx, w, r)
		if !ok {
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "フォームIDが指定されていません"})
			return
		}

		var payload formRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		form, err := h.formService.Update(ctx, id, profile.OrgID, payload.toCommand())
		if err != nil {
			if errors.Is(err, adminapp.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "フォームが見つかりません"})
				return
			}
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildFormPayload(*form))
	}
}
