package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	publicapp "github.com/cocosurvey/cocosurvey-services/api/internal/public/application"
	publicdomain "github.com/cocosurvey/cocosurvey-services/api/internal/public/domain"
)

// ResponseRepository はパブリック側の回答書き込みを MongoDB で扱う実装リポジトリ。
type ResponseRepository struct {
	responses *mongo.Collection
}

// NewResponseRepository は回答コレクションを束縛したリポジトリを構築する。
func NewResponseRepository(db *mongo.Database, responseCollection string) *ResponseRepository {
	return &ResponseRepository{responses: db.Collection(responseCollection)}
}

// Exists は決定的な回答 ID の既存チェック。分析 API 呼び出し前の先行確認に使う。
func (r *ResponseRepository) Exists(ctx context.Context, responseID string) (bool, error) {
	count, err := r.responses.CountDocuments(ctx, bson.M{"_id": responseID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create は回答を追加する。_id 衝突はデータストアの create-if-absent 保証に委ね、
// ErrAlreadyResponded へ写して返す。これが二重送信の最終的な判定点。
func (r *ResponseRepository) Create(ctx context.Context, response *publicdomain.Response) error {
	doc := ResponseDocument{
		ID:           response.ID,
		FormID:       response.FormID,
		OrgID:        response.OrgID,
		RespondentID: response.RespondentID,
		Answers:      bson.M(response.Answers),
		Status:       string(response.Status),
		Tags:         response.Tags,
		Memo:         response.Memo,
		AssigneeUID:  response.AssigneeUID,
		AssigneeName: response.AssigneeName,
		SubmittedAt:  ensureTime(response.SubmittedAt),
		UpdatedAt:    ensureTime(response.UpdatedAt),
		Analysis:     analysisDocumentOf(response.Analysis),
	}

	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return publicapp.ErrAlreadyResponded
		}
		return err
	}
	return nil
}

func ensureTime(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now().UTC()
	}
	return value
}

func analysisDocumentOf(analysis *publicdomain.AnalysisResult) *AnalysisDocument {
	if analysis == nil {
		return nil
	}

	doc := &AnalysisDocument{
		SentimentLabel: string(analysis.SentimentLabel),
		Confidence:     analysis.Confidence,
		Keywords:       analysis.Keywords,
		Model:          analysis.Model,
	}
	if analysis.OverallScore != nil {
		doc.OverallScore = *analysis.OverallScore
	}
	return doc
}
