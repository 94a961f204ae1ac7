package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizationDocument は MongoDB 上の組織スキーマを Go 構造体として表現したもの。
type OrganizationDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	OwnerUID  string             `bson:"ownerUid"`
	CreatedAt any                `bson:"createdAt,omitempty"`
	UpdatedAt any                `bson:"updatedAt,omitempty"`
}

// UserDocument は外部 ID プロバイダの uid をキーにしたプロフィールスキーマ。
type UserDocument struct {
	UID       string `bson:"_id"`
	Email     string `bson:"email,omitempty"`
	OrgID     string `bson:"orgId"`
	OrgName   string `bson:"orgName,omitempty"`
	Role      string `bson:"role,omitempty"`
	CreatedAt any    `bson:"createdAt,omitempty"`
	UpdatedAt any    `bson:"updatedAt,omitempty"`
}

// VisibilityDocument は条件分岐ルールの埋め込みドキュメント。
type VisibilityDocument struct {
	DependsOnID string `bson:"dependsOnId"`
	Operator    string `bson:"operator,omitempty"`
	Value       string `bson:"value,omitempty"`
}

// ValidationDocument は文字数・日付制約の埋め込みドキュメント。
type ValidationDocument struct {
	MinLength int    `bson:"minLength,omitempty"`
	MaxLength int    `bson:"maxLength,omitempty"`
	MinDate   string `bson:"minDate,omitempty"`
	MaxDate   string `bson:"maxDate,omitempty"`
}

// FieldDocument は設問 1 件分の埋め込みドキュメント。
type FieldDocument struct {
	ID         string              `bson:"id"`
	Label      string              `bson:"label"`
	Type       string              `bson:"type"`
	Required   bool                `bson:"required,omitempty"`
	Options    []string            `bson:"options,omitempty"`
	AIEnabled  bool                `bson:"aiEnabled,omitempty"`
	Visibility *VisibilityDocument `bson:"visibility,omitempty"`
	Validation *ValidationDocument `bson:"validation,omitempty"`
}

// FormDocument は公開・管理いずれのユースケースでも利用するフォームのスキーマ。
// タイムスタンプと数値設定は過去データの型ゆらぎを許すため any で受け、
// decode.go の境界で必ず型を確定させる。
type FormDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	OrgID             string             `bson:"orgId"`
	Title             string             `bson:"title"`
	Description       string             `bson:"description,omitempty"`
	Status            string             `bson:"status,omitempty"`
	ShareID           string             `bson:"shareId"`
	Fields            []FieldDocument    `bson:"fields,omitempty"`
	AIEnabled         bool               `bson:"aiEnabled,omitempty"`
	AIOverallEnabled  bool               `bson:"aiOverallEnabled,omitempty"`
	AIMinConfidence   any                `bson:"aiMinConfidence,omitempty"`
	NotificationEmail string             `bson:"notificationEmail,omitempty"`
	WebhookURL        string             `bson:"webhookUrl,omitempty"`
	SlackWebhookURL   string             `bson:"slackWebhookUrl,omitempty"`
	GoogleSheetURL    string             `bson:"googleSheetUrl,omitempty"`
	CreatedAt         any                `bson:"createdAt,omitempty"`
	UpdatedAt         any                `bson:"updatedAt,omitempty"`
	CreatedBy         string             `bson:"createdBy,omitempty"`
}

// AnalysisDocument は回答に添付される AI 分析結果の埋め込みドキュメント。
type AnalysisDocument struct {
	OverallScore   any      `bson:"overallScore,omitempty"`
	SentimentLabel string   `bson:"sentimentLabel,omitempty"`
	Confidence     any      `bson:"confidence,omitempty"`
	Keywords       []string `bson:"keywords,omitempty"`
	Model          string   `bson:"model,omitempty"`
}

// ResponseDocument は回答のスキーマ。_id は formId_respondentId の決定的な文字列で、
// 挿入時の重複キーが二重送信の最終的な検出点になる。
type ResponseDocument struct {
	ID           string            `bson:"_id"`
	FormID       string            `bson:"formId"`
	OrgID        string            `bson:"orgId"`
	RespondentID string            `bson:"respondentId"`
	Answers      bson.M            `bson:"answers"`
	Status       string            `bson:"status,omitempty"`
	Tags         []string          `bson:"tags,omitempty"`
	Memo         string            `bson:"memo,omitempty"`
	AssigneeUID  string            `bson:"assigneeUid,omitempty"`
	AssigneeName string            `bson:"assigneeName,omitempty"`
	SubmittedAt  any               `bson:"submittedAt,omitempty"`
	UpdatedAt    any               `bson:"updatedAt,omitempty"`
	Analysis     *AnalysisDocument `bson:"analysis,omitempty"`
}

// FailedNotificationDocument は配送に失敗した通知の記録。
type FailedNotificationDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Kind       string             `bson:"kind"`
	Endpoint   string             `bson:"endpoint"`
	FormID     string             `bson:"formId,omitempty"`
	ResponseID string             `bson:"responseId,omitempty"`
	Detail     string             `bson:"detail,omitempty"`
	CreatedAt  any                `bson:"createdAt"`
}
