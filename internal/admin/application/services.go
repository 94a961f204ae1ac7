package application

import (
	"context"
	"errors"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

// ErrFormNotFound は対象フォームが存在しないか、別組織の所有であることを示す。
var ErrFormNotFound = errors.New("フォームが見つかりませんでした")

// ErrResponseNotFound は対象回答が存在しないか、別組織の所有であることを示す。
var ErrResponseNotFound = errors.New("回答が見つかりませんでした")

// FormRepository は管理コンテキストのフォーム読み書きポート。
type FormRepository interface {
	FindByOrg(ctx context.Context, orgID string) ([]admindomain.Form, error)
	FindByID(ctx context.Context, id string) (*admindomain.Form, error)
	Create(ctx context.Context, form *admindomain.Form) error
	Update(ctx context.Context, form *admindomain.Form) error
}

// ResponseRepository は管理コンテキストの回答読み書きポート。
type ResponseRepository interface {
	FindByForm(ctx context.Context, formID, orgID string) ([]admindomain.Response, error)
	FindByID(ctx context.Context, id string) (*admindomain.Response, error)
	UpdateTriage(ctx context.Context, id string, update ResponseTriageUpdate) (*admindomain.Response, error)
}

// AccountRepository は組織とユーザープロフィールの読み書きポート。
type AccountRepository interface {
	CreateOrganization(ctx context.Context, org *admindomain.Organization) error
	CreateUserProfile(ctx context.Context, profile *admindomain.UserProfile) error
	ProfileByUID(ctx context.Context, uid string) (*admindomain.UserProfile, error)
}

// FormService はフォーム管理ユースケース。
type FormService interface {
	List(ctx context.Context, orgID string) ([]admindomain.Form, error)
	Detail(ctx context.Context, id, orgID string) (*admindomain.Form, error)
	Create(ctx context.Context, orgID, createdBy string, cmd UpsertFormCommand) (*admindomain.Form, error)
	Update(ctx context.Context, id, orgID string, cmd UpsertFormCommand) (*admindomain.Form, error)
}

// ResponseService は回答の参照とトリアージ更新のユースケース。
type ResponseService interface {
	ListByForm(ctx context.Context, formID, orgID string) ([]admindomain.Response, error)
	UpdateTriage(ctx context.Context, id, orgID string, update ResponseTriageUpdate) (*admindomain.Response, error)
}

// StatsService はダッシュボード集計ユースケース。
type StatsService interface {
	Summarize(ctx context.Context, formID, orgID string) (*admindomain.FormStats, error)
}

// AccountService は組織の初期登録とプロフィール参照のユースケース。
type AccountService interface {
	Signup(ctx context.Context, cmd SignupCommand) (*admindomain.UserProfile, error)
	ProfileByUID(ctx context.Context, uid string) (*admindomain.UserProfile, error)
}

// UpsertFormCommand はフォーム作成・更新の入力。
type UpsertFormCommand struct {
	Title             string
	Description       string
	Status            string
	Fields            []FieldCommand
	AIEnabled         bool
	AIOverallEnabled  bool
	AIMinConfidence   float64
	NotificationEmail string
	WebhookURL        string
	SlackWebhookURL   string
	GoogleSheetURL    string
}

// FieldCommand は設問 1 件分の入力。
type FieldCommand struct {
	ID         string
	Label      string
	Type       string
	Required   bool
	Options    []string
	AIEnabled  bool
	Visibility *VisibilityCommand
	Validation *ValidationCommand
}

// VisibilityCommand は条件分岐ルールの入力。
type VisibilityCommand struct {
	DependsOnID string
	Operator    string
	Value       string
}

// ValidationCommand は文字数・日付制約の入力。
type ValidationCommand struct {
	MinLength int
	MaxLength int
	MinDate   string
	MaxDate   string
}

// ResponseTriageUpdate は回答の部分更新。nil のフィールドは変更しない。
type ResponseTriageUpdate struct {
	Status       *string
	Tags         *[]string
	Memo         *string
	AssigneeUID  *string
	AssigneeName *string
}

// SignupCommand は組織とオーナープロフィールの初期登録入力。
type SignupCommand struct {
	UID     string
	Email   string
	OrgName string
}
