package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

// AdminResponseRepository は管理コンテキストの回答読み書きを MongoDB で扱う。
type AdminResponseRepository struct {
	responses *mongo.Collection
}

// NewAdminResponseRepository は回答コレクションを束縛したリポジトリを構築する。
func NewAdminResponseRepository(db *mongo.Database, responseCollection string) *AdminResponseRepository {
	return &AdminResponseRepository{responses: db.Collection(responseCollection)}
}

// FindByForm はフォームと組織の両方で絞った回答一覧を送信日時の降順で返す。
func (r *AdminResponseRepository) FindByForm(ctx context.Context, formID, orgID string) ([]admindomain.Response, error) {
	cursor, err := r.responses.Find(ctx, bson.M{"formId": formID, "orgId": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := make([]admindomain.Response, 0)
	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		responses = append(responses, mapAdminResponse(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].SubmittedAt.After(responses[j].SubmittedAt)
	})
	return responses, nil
}

// FindByID は回答を ID で 1 件引く。存在しない場合は nil を返す。
func (r *AdminResponseRepository) FindByID(ctx context.Context, id string) (*admindomain.Response, error) {
	var doc ResponseDocument
	err := r.responses.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	response := mapAdminResponse(doc)
	return &response, nil
}

// UpdateTriage はステータス・タグ・メモ・担当者のみを部分更新する。
// 回答内容 (answers) は送信後いかなる経路でも変更しない。
func (r *AdminResponseRepository) UpdateTriage(ctx context.Context, id string, update adminapp.ResponseTriageUpdate) (*admindomain.Response, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.Memo != nil {
		set["memo"] = *update.Memo
	}
	if update.AssigneeUID != nil {
		set["assigneeUid"] = *update.AssigneeUID
	}
	if update.AssigneeName != nil {
		set["assigneeName"] = *update.AssigneeName
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ResponseDocument
	err := r.responses.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, adminapp.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}

	response := mapAdminResponse(doc)
	return &response, nil
}
