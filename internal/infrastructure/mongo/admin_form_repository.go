package mongo

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

// AdminFormRepository は管理コンテキストのフォーム読み書きを MongoDB で扱う。
type AdminFormRepository struct {
	forms *mongo.Collection
}

// NewAdminFormRepository はフォームコレクションを束縛したリポジトリを構築する。
func NewAdminFormRepository(db *mongo.Database, formCollection string) *AdminFormRepository {
	return &AdminFormRepository{forms: db.Collection(formCollection)}
}

// FindByOrg は組織のフォーム一覧を更新日時の降順で返す。
func (r *AdminFormRepository) FindByOrg(ctx context.Context, orgID string) ([]admindomain.Form, error) {
	cursor, err := r.forms.Find(ctx, bson.M{"orgId": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := make([]admindomain.Form, 0)
	for cursor.Next(ctx) {
		var doc FormDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		forms = append(forms, mapAdminForm(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].UpdatedAt.After(forms[j].UpdatedAt)
	})
	return forms, nil
}

// FindByID はフォームを ID で 1 件引く。存在しない場合は nil を返す。
func (r *AdminFormRepository) FindByID(ctx context.Context, id string) (*admindomain.Form, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, nil
	}

	var doc FormDocument
	findErr := r.forms.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(findErr, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if findErr != nil {
		return nil, findErr
	}

	form := mapAdminForm(doc)
	return &form, nil
}

// Create はフォームを追加し、採番結果をドメインモデルへ反映する。
func (r *AdminFormRepository) Create(ctx context.Context, form *admindomain.Form) error {
	doc := formDocumentOf(primitive.NewObjectID(), form)
	if _, err := r.forms.InsertOne(ctx, doc); err != nil {
		return err
	}
	form.ID = doc.ID.Hex()
	return nil
}

// Update はフォーム全体を置き換える。
func (r *AdminFormRepository) Update(ctx context.Context, form *admindomain.Form) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(form.ID))
	if err != nil {
		return err
	}

	doc := formDocumentOf(objectID, form)
	result, err := r.forms.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func formDocumentOf(id primitive.ObjectID, form *admindomain.Form) FormDocument {
	fields := make([]FieldDocument, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, fieldDocumentOf(field))
	}

	return FormDocument{
		ID:                id,
		OrgID:             form.OrgID,
		Title:             form.Title,
		Description:       form.Description,
		Status:            string(form.Status),
		ShareID:           form.ShareID,
		Fields:            fields,
		AIEnabled:         form.AIEnabled,
		AIOverallEnabled:  form.AIOverallEnabled,
		AIMinConfidence:   form.AIMinConfidence,
		NotificationEmail: form.NotificationEmail,
		WebhookURL:        form.WebhookURL,
		SlackWebhookURL:   form.SlackWebhookURL,
		GoogleSheetURL:    form.GoogleSheetURL,
		CreatedAt:         ensureTime(form.CreatedAt),
		UpdatedAt:         ensureTime(form.UpdatedAt),
		CreatedBy:         form.CreatedBy,
	}
}

func fieldDocumentOf(field admindomain.Field) FieldDocument {
	doc := FieldDocument{
		ID:        field.ID,
		Label:     field.Label,
		Type:      string(field.Type),
		Required:  field.Required,
		Options:   field.Options,
		AIEnabled: field.AIEnabled,
	}
	if field.Visibility != nil {
		doc.Visibility = &VisibilityDocument{
			DependsOnID: field.Visibility.DependsOnID,
			Operator:    field.Visibility.Operator,
			Value:       field.Visibility.Value,
		}
	}
	if field.Validation != nil {
		doc.Validation = &ValidationDocument{
			MinLength: field.Validation.MinLength,
			MaxLength: field.Validation.MaxLength,
			MinDate:   field.Validation.MinDate,
			MaxDate:   field.Validation.MaxDate,
		}
	}
	return doc
}
