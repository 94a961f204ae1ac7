package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	mongodoc "github.com/cocosurvey/cocosurvey-services/api/internal/infrastructure/mongo"
	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// notifyResponseReceipt は回答受理をフォーム所有者の通知先へファンアウトする。
// 失敗しても回答の受理結果は変わらず、失敗内容のみ記録する。
func (h *Handler) notifyResponseReceipt(ctx context.Context, shareID, responseID string, submittedAt time.Time) {
	if ctx == nil {
		ctx = context.Background()
	}

	form, err := h.formQueries.ByShareID(ctx, shareID)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("通知用フォーム定義の取得に失敗: %v", err)
		}
		return
	}

	webhookURL := strings.TrimSpace(form.WebhookURL)
	slackURL := strings.TrimSpace(form.SlackWebhookURL)
	if webhookURL == "" && slackURL == "" {
		return
	}

	var webhookErr, slackErr error

	if webhookURL != "" {
		payload := webhookNotification{
			Event:       "response.received",
			FormID:      form.ID,
			FormTitle:   form.Title,
			ResponseID:  responseID,
			SubmittedAt: submittedAt,
		}
		if webhookErr = h.postJSON(ctx, webhookURL, payload); webhookErr != nil && h.logger != nil {
			h.logger.Printf("Webhook 通知の送信に失敗: %v", webhookErr)
		}
	}

	if slackURL != "" {
		message := buildSlackReceiptMessage(form, submittedAt)
		if slackErr = h.postJSON(ctx, slackURL, map[string]string{"text": message}); slackErr != nil && h.logger != nil {
			h.logger.Printf("Slack 通知の送信に失敗: %v", slackErr)
		}
	}

	if webhookErr != nil {
		h.persistNotificationFailure(ctx, "webhook", webhookURL, form.ID, responseID, webhookErr)
	}
	if slackErr != nil {
		h.persistNotificationFailure(ctx, "slack", slackURL, form.ID, responseID, slackErr)
	}
}

func buildSlackReceiptMessage(form *publicdomain.Form, submittedAt time.Time) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("「%s」に新しい回答が届きました。\n", form.Title))
	builder.WriteString(fmt.Sprintf("受付日時: %s\n", submittedAt.Format(time.RFC3339)))
	return builder.String()
}

func (h *Handler) postJSON(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("通知ペイロードの作成に失敗: %w", err)
	}

	timeout := h.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("通知リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("通知リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("通知先がエラーを返却: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}

func (h *Handler) persistNotificationFailure(ctx context.Context, kind, endpoint, formID, responseID string, cause error) {
	if h.failedNotifications == nil {
		return
	}

	doc := mongodoc.FailedNotificationDocument{
		ID:         primitive.NewObjectID(),
		Kind:       kind,
		Endpoint:   endpoint,
		FormID:     formID,
		ResponseID: responseID,
		Detail:     cause.Error(),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := h.failedNotifications.InsertOne(ctx, doc); err != nil && h.logger != nil {
		h.logger.Printf("failed_notifications への保存に失敗: %v", err)
	}
}
