package domain

import "time"

// Role は組織内の権限区分。
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Organization はフォームを所有するテナント。
type Organization struct {
	ID        string
	Name      string
	OwnerUID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile は外部 ID プロバイダのユーザーに紐づく組織内プロフィール。
// 認証そのものは外部に委譲し、ここでは所属と権限のみを保持する。
type UserProfile struct {
	UID       string
	Email     string
	OrgID     string
	OrgName   string
	Role      Role
	CreatedAt time.Time
}

// NormalizeRole は未知の権限文字列を owner へ倒す。
func NormalizeRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin
	case RoleMember:
		return RoleMember
	default:
		return RoleOwner
	}
}
