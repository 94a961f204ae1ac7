package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// FormRepository はパブリック向けフォーム集約を MongoDB で扱う実装リポジトリ。
type FormRepository struct {
	forms *mongo.Collection
}

// NewFormRepository はフォームコレクションを束縛したリポジトリを構築する。
func NewFormRepository(db *mongo.Database, formCollection string) *FormRepository {
	return &FormRepository{forms: db.Collection(formCollection)}
}

// ByShareID は公開トークンから公開中フォームを 1 件引く。
// status=active の条件をクエリに含めるため、下書きフォームは最初から到達不能。
func (r *FormRepository) ByShareID(ctx context.Context, shareID string) (*publicdomain.Form, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		return nil, nil
	}

	var doc FormDocument
	err := r.forms.FindOne(ctx, bson.M{"shareId": shareID, "status": "active"}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	form := mapPublicForm(doc)
	return &form, nil
}
