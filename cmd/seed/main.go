package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/cocosurvey/cocosurvey-services/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envName         string
	responseCount   int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	organizations       string
	users               string
	forms               string
	responses           string
	failedNotifications string
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		organizations:       envOrDefault("ORGANIZATION_COLLECTION", "organizations"),
		users:               envOrDefault("USER_COLLECTION", "users"),
		forms:               envOrDefault("FORM_COLLECTION", "forms"),
		responses:           envOrDefault("RESPONSE_COLLECTION", "responses"),
		failedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "cocosurvey")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	org, owner := buildDemoAccount()
	if _, err := db.Collection(cfg.organizations).InsertOne(ctx, org); err != nil {
		log.Fatalf("組織データの挿入に失敗しました: %v", err)
	}
	if _, err := db.Collection(cfg.users).InsertOne(ctx, owner); err != nil {
		log.Fatalf("ユーザーデータの挿入に失敗しました: %v", err)
	}

	form := buildDemoForm(org.ID.Hex(), owner.UID)
	if _, err := db.Collection(cfg.forms).InsertOne(ctx, form); err != nil {
		log.Fatalf("フォームデータの挿入に失敗しました: %v", err)
	}

	responseDocs := generateResponses(rng, form, opts.responseCount)
	if len(responseDocs) > 0 {
		if _, err := db.Collection(cfg.responses).InsertMany(ctx, toAnySlice(responseDocs)); err != nil {
			log.Fatalf("回答データの挿入に失敗しました: %v", err)
		}
	}

	log.Printf("Seed 完了: org=%s form=%s shareId=%s responses=%d",
		org.Name, form.Title, form.ShareID, len(responseDocs))
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.responseCount, "responses", 30, "生成する回答数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{
		cfg.organizations, cfg.users, cfg.forms, cfg.responses, cfg.failedNotifications,
	} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	formIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shareId", Value: 1}},
			Options: options.Index().SetName("uniq_form_shareId").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "orgId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("idx_form_org_updated"),
		},
	}
	if _, err := db.Collection(cfg.forms).Indexes().CreateMany(ctx, formIndexes); err != nil {
		return err
	}

	responseIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_response_form_submitted"),
		},
		{
			Keys:    bson.D{{Key: "orgId", Value: 1}},
			Options: options.Index().SetName("idx_response_org"),
		},
	}
	if _, err := db.Collection(cfg.responses).Indexes().CreateMany(ctx, responseIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.failedNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_failed_created"),
	}); err != nil {
		return err
	}

	return nil
}

func buildDemoAccount() (mongodoc.OrganizationDocument, mongodoc.UserDocument) {
	now := time.Now().UTC()
	org := mongodoc.OrganizationDocument{
		ID:        primitive.NewObjectID(),
		Name:      "ココサーベイデモ株式会社",
		OwnerUID:  "demo-owner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := mongodoc.UserDocument{
		UID:       "demo-owner",
		Email:     "owner@example.com",
		OrgID:     org.ID.Hex(),
		OrgName:   org.Name,
		Role:      "owner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return org, owner
}

// buildDemoForm は条件分岐と AI 分析を含む顧客満足度フォームを組み立てる。
func buildDemoForm(orgID, createdBy string) mongodoc.FormDocument {
	now := time.Now().UTC()
	return mongodoc.FormDocument{
		ID:          primitive.NewObjectID(),
		OrgID:       orgID,
		Title:       "カフェご利用満足度アンケート",
		Description: "ご来店ありがとうございました。今後のサービス改善のためにご意見をお聞かせください。",
		Status:      "active",
		ShareID:     uuid.NewString(),
		Fields: []mongodoc.FieldDocument{
			{
				ID:       "visit-date",
				Label:    "ご来店日",
				Type:     "date",
				Required: true,
				Validation: &mongodoc.ValidationDocument{
					MinDate: "2026-01-01",
				},
			},
			{
				ID:       "satisfaction",
				Label:    "総合的な満足度を教えてください",
				Type:     "single_select",
				Required: true,
				Options:  []string{"とても満足", "満足", "ふつう", "不満"},
			},
			{
				ID:        "dissatisfaction-reason",
				Label:     "不満に感じた点を教えてください",
				Type:      "long_text",
				Required:  true,
				AIEnabled: true,
				Visibility: &mongodoc.VisibilityDocument{
					DependsOnID: "satisfaction",
					Operator:    "equals",
					Value:       "不満",
				},
				Validation: &mongodoc.ValidationDocument{
					MinLength: 10,
					MaxLength: 500,
				},
			},
			{
				ID:       "favorite-menus",
				Label:    "気に入ったメニュー",
				Type:     "multi_select",
				Required: false,
				Options:  []string{"コーヒー", "紅茶", "ケーキ", "サンドイッチ"},
			},
			{
				ID:        "free-comment",
				Label:     "その他ご意見・ご感想",
				Type:      "long_text",
				Required:  false,
				AIEnabled: true,
			},
			{
				ID:       "newsletter",
				Label:    "お得な情報の受け取りに同意する",
				Type:     "checkbox",
				Required: false,
			},
			{
				ID:       "newsletter-email",
				Label:    "配信先メールアドレス",
				Type:     "short_text",
				Required: true,
				Visibility: &mongodoc.VisibilityDocument{
					DependsOnID: "newsletter",
					Operator:    "checked",
				},
			},
		},
		AIEnabled:        true,
		AIOverallEnabled: true,
		AIMinConfidence:  0.6,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        createdBy,
	}
}

var demoComments = []string{
	"店内がとても落ち着いていて良かったです。また来ます。",
	"コーヒーの香りが最高でした。スタッフの対応も丁寧で満足です。",
	"提供までの待ち時間が少し長く感じました。",
	"ケーキの種類がもう少し多いと嬉しいです。",
	"窓際の席から見える景色が気に入りました。",
	"",
}

var demoReasons = []string{
	"注文してから提供までに30分以上かかり、席も片付いていませんでした。",
	"店内が混雑していて落ち着いて過ごせませんでした。改善を期待します。",
}

func generateResponses(rng *rand.Rand, form mongodoc.FormDocument, count int) []mongodoc.ResponseDocument {
	sentiments := []string{"positive", "neutral", "negative"}
	satisfactions := []string{"とても満足", "満足", "ふつう", "不満"}
	menus := []string{"コーヒー", "紅茶", "ケーキ", "サンドイッチ"}

	docs := make([]mongodoc.ResponseDocument, 0, count)
	for i := 0; i < count; i++ {
		respondentID := uuid.NewString()
		submittedAt := time.Now().UTC().Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

		satisfaction := satisfactions[rng.Intn(len(satisfactions))]
		answers := bson.M{
			"visit-date":   submittedAt.Add(-24 * time.Hour).Format("2006-01-02"),
			"satisfaction": satisfaction,
			"free-comment": demoComments[rng.Intn(len(demoComments))],
		}
		if satisfaction == "不満" {
			answers["dissatisfaction-reason"] = demoReasons[rng.Intn(len(demoReasons))]
		}
		if rng.Intn(2) == 0 {
			picked := []string{menus[rng.Intn(len(menus))]}
			answers["favorite-menus"] = picked
		}
		if rng.Intn(3) == 0 {
			answers["newsletter"] = true
			answers["newsletter-email"] = fmt.Sprintf("guest%02d@example.com", i)
		}

		score := 4 + rng.Intn(7)
		docs = append(docs, mongodoc.ResponseDocument{
			ID:           form.ID.Hex() + "_" + respondentID,
			FormID:       form.ID.Hex(),
			OrgID:        form.OrgID,
			RespondentID: respondentID,
			Answers:      answers,
			Status:       "new",
			Tags:         []string{},
			SubmittedAt:  submittedAt,
			UpdatedAt:    submittedAt,
			Analysis: &mongodoc.AnalysisDocument{
				OverallScore:   score,
				SentimentLabel: sentiments[rng.Intn(len(sentiments))],
				Confidence:     0.5 + rng.Float64()*0.5,
				Keywords:       []string{"コーヒー", "接客"},
				Model:          "gemini-2.0-flash",
			},
		})
	}
	return docs
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}
