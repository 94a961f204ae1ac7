package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

// AccountRepository は組織とユーザープロフィールを MongoDB で扱う実装リポジトリ。
type AccountRepository struct {
	organizations *mongo.Collection
	users         *mongo.Collection
}

// NewAccountRepository は組織・ユーザー両コレクションを束縛したリポジトリを構築する。
func NewAccountRepository(db *mongo.Database, orgCollection, userCollection string) *AccountRepository {
	return &AccountRepository{
		organizations: db.Collection(orgCollection),
		users:         db.Collection(userCollection),
	}
}

// CreateOrganization は組織を追加し、採番結果をドメインモデルへ反映する。
func (r *AccountRepository) CreateOrganization(ctx context.Context, org *admindomain.Organization) error {
	doc := OrganizationDocument{
		ID:        primitive.NewObjectID(),
		Name:      org.Name,
		OwnerUID:  org.OwnerUID,
		CreatedAt: ensureTime(org.CreatedAt),
		UpdatedAt: ensureTime(org.UpdatedAt),
	}
	if _, err := r.organizations.InsertOne(ctx, doc); err != nil {
		return err
	}
	org.ID = doc.ID.Hex()
	return nil
}

// CreateUserProfile はプロフィールを uid キーで追加する。
func (r *AccountRepository) CreateUserProfile(ctx context.Context, profile *admindomain.UserProfile) error {
	doc := UserDocument{
		UID:       profile.UID,
		Email:     profile.Email,
		OrgID:     profile.OrgID,
		OrgName:   profile.OrgName,
		Role:      string(profile.Role),
		CreatedAt: ensureTime(profile.CreatedAt),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.users.InsertOne(ctx, doc)
	return err
}

// ProfileByUID はプロフィールを 1 件引く。存在しない場合は nil を返す。
func (r *AccountRepository) ProfileByUID(ctx context.Context, uid string) (*admindomain.UserProfile, error) {
	var doc UserDocument
	err := r.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile := mapUserProfile(doc)
	return &profile, nil
}
