package application

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type accountService struct {
	repo AccountRepository
}

// NewAccountService は組織登録・プロフィール参照サービスを構築する。
func NewAccountService(repo AccountRepository) AccountService {
	return &accountService{repo: repo}
}

// Signup は組織とオーナープロフィールを作成する。認証済みユーザーの
// 初回ログイン時に 1 度だけ呼ばれる想定。
func (s *accountService) Signup(ctx context.Context, cmd SignupCommand) (*admindomain.UserProfile, error) {
	uid := strings.TrimSpace(cmd.UID)
	if uid == "" {
		return nil, errors.New("ユーザーIDが指定されていません")
	}

	orgName := strings.TrimSpace(cmd.OrgName)
	if orgName == "" {
		return nil, errors.New("組織名は必須です")
	}

	email := strings.TrimSpace(cmd.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, errors.New("メールアドレスの形式が正しくありません")
		}
	}

	if existing, err := s.repo.ProfileByUID(ctx, uid); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.New("このユーザーは既に組織へ所属しています")
	}

	now := time.Now().UTC()
	org := &admindomain.Organization{
		Name:      orgName,
		OwnerUID:  uid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}

	profile := &admindomain.UserProfile{
		UID:       uid,
		Email:     email,
		OrgID:     org.ID,
		OrgName:   orgName,
		Role:      admindomain.RoleOwner,
		CreatedAt: now,
	}
	if err := s.repo.CreateUserProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *accountService) ProfileByUID(ctx context.Context, uid string) (*admindomain.UserProfile, error) {
	return s.repo.ProfileByUID(ctx, uid)
}
