package application

import (
	"context"
	"errors"
	"testing"

	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type stubFormRepo struct {
	forms   map[string]*admindomain.Form
	created []*admindomain.Form
	updated []*admindomain.Form
}

func newStubFormRepo(forms ...*admindomain.Form) *stubFormRepo {
	repo := &stubFormRepo{forms: map[string]*admindomain.Form{}}
	for _, form := range forms {
		repo.forms[form.ID] = form
	}
	return repo
}

func (r *stubFormRepo) FindByOrg(_ context.Context, orgID string) ([]admindomain.Form, error) {
	result := make([]admindomain.Form, 0)
	for _, form := range r.forms {
		if form.OrgID == orgID {
			result = append(result, *form)
		}
	}
	return result, nil
}

func (r *stubFormRepo) FindByID(_ context.Context, id string) (*admindomain.Form, error) {
	return r.forms[id], nil
}

func (r *stubFormRepo) Create(_ context.Context, form *admindomain.Form) error {
	form.ID = "generated-id"
	r.forms[form.ID] = form
	r.created = append(r.created, form)
	return nil
}

func (r *stubFormRepo) Update(_ context.Context, form *admindomain.Form) error {
	r.forms[form.ID] = form
	r.updated = append(r.updated, form)
	return nil
}

type stubResponseRepo struct {
	responses map[string]*admindomain.Response
	updates   []ResponseTriageUpdate
}

func (r *stubResponseRepo) FindByForm(_ context.Context, formID, orgID string) ([]admindomain.Response, error) {
	result := make([]admindomain.Response, 0)
	for _, response := range r.responses {
		if response.FormID == formID && response.OrgID == orgID {
			result = append(result, *response)
		}
	}
	return result, nil
}

func (r *stubResponseRepo) FindByID(_ context.Context, id string) (*admindomain.Response, error) {
	return r.responses[id], nil
}

func (r *stubResponseRepo) UpdateTriage(_ context.Context, id string, update ResponseTriageUpdate) (*admindomain.Response, error) {
	response, ok := r.responses[id]
	if !ok {
		return nil, ErrResponseNotFound
	}
	r.updates = append(r.updates, update)
	if update.Status != nil {
		response.Status = admindomain.ResponseStatus(*update.Status)
	}
	if update.Memo != nil {
		response.Memo = *update.Memo
	}
	return response, nil
}

type stubAccountRepo struct {
	orgs     []*admindomain.Organization
	profiles map[string]*admindomain.UserProfile
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{profiles: map[string]*admindomain.UserProfile{}}
}

func (r *stubAccountRepo) CreateOrganization(_ context.Context, org *admindomain.Organization) error {
	org.ID = "org-generated"
	r.orgs = append(r.orgs, org)
	return nil
}

func (r *stubAccountRepo) CreateUserProfile(_ context.Context, profile *admindomain.UserProfile) error {
	r.profiles[profile.UID] = profile
	return nil
}

func (r *stubAccountRepo) ProfileByUID(_ context.Context, uid string) (*admindomain.UserProfile, error) {
	return r.profiles[uid], nil
}

func validCommand() UpsertFormCommand {
	return UpsertFormCommand{
		Title:  "満足度アンケート",
		Status: "active",
		Fields: []FieldCommand{
			{ID: "q1", Label: "満足度", Type: "single_select", Required: true, Options: []string{"満足", "  ", "不満"}},
			{Label: "理由", Type: "long_text", Visibility: &VisibilityCommand{DependsOnID: "q1", Operator: "equals", Value: "不満"}},
		},
		AIEnabled: true,
	}
}

func TestFormServiceCreate(t *testing.T) {
	repo := newStubFormRepo()
	service := NewFormService(repo)

	form, err := service.Create(context.Background(), "org1", "uid1", validCommand())
	if err != nil {
		t.Fatal(err)
	}
	if form.ShareID == "" {
		t.Fatal("共有 ID が採番されるべき")
	}
	if form.OrgID != "org1" || form.CreatedBy != "uid1" {
		t.Fatalf("form=%+v", form)
	}
	if form.AIMinConfidence != 0.6 {
		t.Fatalf("未指定の信頼度しきい値は 0.6: %v", form.AIMinConfidence)
	}
	if len(form.Fields[0].Options) != 2 {
		t.Fatalf("空白の選択肢は除外されるべき: %v", form.Fields[0].Options)
	}
	if form.Fields[1].ID == "" {
		t.Fatal("ID 未指定の設問には ID が採番されるべき")
	}
}

func TestFormServiceCreateRejectsInvalidDefinitions(t *testing.T) {
	service := NewFormService(newStubFormRepo())

	cases := []struct {
		name string
		cmd  UpsertFormCommand
	}{
		{"タイトル必須", UpsertFormCommand{Title: "  "}},
		{"未対応の設問タイプ", UpsertFormCommand{
			Title:  "t",
			Fields: []FieldCommand{{ID: "a", Label: "l", Type: "rating"}},
		}},
		{"循環する条件分岐", UpsertFormCommand{
			Title: "t",
			Fields: []FieldCommand{
				{ID: "a", Label: "A", Type: "short_text", Visibility: &VisibilityCommand{DependsOnID: "b"}},
				{ID: "b", Label: "B", Type: "short_text", Visibility: &VisibilityCommand{DependsOnID: "a"}},
			},
		}},
		{"存在しない参照先", UpsertFormCommand{
			Title: "t",
			Fields: []FieldCommand{
				{ID: "a", Label: "A", Type: "short_text", Visibility: &VisibilityCommand{DependsOnID: "zzz"}},
			},
		}},
	}
	for _, c := range cases {
		if _, err := service.Create(context.Background(), "org1", "uid1", c.cmd); err == nil {
			t.Fatalf("%s: エラーになるべき", c.name)
		}
	}
}

func TestFormServiceUpdatePreservesIdentity(t *testing.T) {
	existing := &admindomain.Form{
		ID:        "form1",
		OrgID:     "org1",
		ShareID:   "share-fixed",
		CreatedBy: "uid1",
		Title:     "旧タイトル",
		Status:    admindomain.FormStatusDraft,
	}
	repo := newStubFormRepo(existing)
	service := NewFormService(repo)

	form, err := service.Update(context.Background(), "form1", "org1", validCommand())
	if err != nil {
		t.Fatal(err)
	}
	if form.ID != "form1" || form.ShareID != "share-fixed" || form.CreatedBy != "uid1" {
		t.Fatalf("識別子は更新で変わらないべき: %+v", form)
	}
	if form.Title != "満足度アンケート" || form.Status != admindomain.FormStatusActive {
		t.Fatalf("form=%+v", form)
	}
}

func TestFormServiceDetailEnforcesOrg(t *testing.T) {
	repo := newStubFormRepo(&admindomain.Form{ID: "form1", OrgID: "org1"})
	service := NewFormService(repo)

	if _, err := service.Detail(context.Background(), "form1", "other-org"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("err=%v, want ErrFormNotFound", err)
	}
}

func TestResponseServiceListEnforcesOrg(t *testing.T) {
	forms := newStubFormRepo(&admindomain.Form{ID: "form1", OrgID: "org1"})
	responses := &stubResponseRepo{responses: map[string]*admindomain.Response{}}
	service := NewResponseService(forms, responses)

	if _, err := service.ListByForm(context.Background(), "form1", "other-org"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("err=%v, want ErrFormNotFound", err)
	}
}

func TestResponseServiceUpdateTriage(t *testing.T) {
	forms := newStubFormRepo(&admindomain.Form{ID: "form1", OrgID: "org1"})
	responses := &stubResponseRepo{responses: map[string]*admindomain.Response{
		"form1_resp1": {ID: "form1_resp1", FormID: "form1", OrgID: "org1", Status: admindomain.ResponseStatusNew},
	}}
	service := NewResponseService(forms, responses)

	status := "weird-status"
	memo := "電話で確認済み"
	updated, err := service.UpdateTriage(context.Background(), "form1_resp1", "org1", ResponseTriageUpdate{
		Status: &status,
		Memo:   &memo,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != admindomain.ResponseStatusNew {
		t.Fatalf("未知のステータスは new へ正規化されるべき: %q", updated.Status)
	}
	if updated.Memo != memo {
		t.Fatalf("Memo=%q", updated.Memo)
	}

	if _, err := service.UpdateTriage(context.Background(), "form1_resp1", "other-org", ResponseTriageUpdate{}); !errors.Is(err, ErrResponseNotFound) {
		t.Fatalf("err=%v, want ErrResponseNotFound", err)
	}
}

func TestStatsServiceSummarize(t *testing.T) {
	forms := newStubFormRepo(&admindomain.Form{
		ID:    "form1",
		OrgID: "org1",
		Fields: []admindomain.Field{
			{ID: "q1", Type: admindomain.FieldShortText, Required: true},
		},
	})
	responses := &stubResponseRepo{responses: map[string]*admindomain.Response{
		"form1_a": {ID: "form1_a", FormID: "form1", OrgID: "org1", Answers: map[string]any{"q1": "回答"}},
		"form1_b": {ID: "form1_b", FormID: "form1", OrgID: "org1", Answers: map[string]any{}},
	}}
	service := NewStatsService(forms, responses)

	stats, err := service.Summarize(context.Background(), "form1", "org1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.ResponseCount != 2 || stats.CompletionRate != 50 {
		t.Fatalf("stats=%+v", stats)
	}

	if _, err := service.Summarize(context.Background(), "form1", "other-org"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("err=%v, want ErrFormNotFound", err)
	}
}

func TestAccountServiceSignup(t *testing.T) {
	repo := newStubAccountRepo()
	service := NewAccountService(repo)

	profile, err := service.Signup(context.Background(), SignupCommand{UID: "uid1", Email: "owner@example.com", OrgName: "テスト組織"})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Role != admindomain.RoleOwner {
		t.Fatalf("Role=%q, want owner", profile.Role)
	}
	if profile.OrgID == "" || profile.OrgName != "テスト組織" {
		t.Fatalf("profile=%+v", profile)
	}

	// 同一ユーザーの再登録は拒否される
	if _, err := service.Signup(context.Background(), SignupCommand{UID: "uid1", OrgName: "別組織"}); err == nil {
		t.Fatal("既存プロフィールの再登録は拒否されるべき")
	}
}

func TestAccountServiceSignupValidation(t *testing.T) {
	service := NewAccountService(newStubAccountRepo())

	cases := []struct {
		name string
		cmd  SignupCommand
	}{
		{"UID 必須", SignupCommand{OrgName: "t"}},
		{"組織名必須", SignupCommand{UID: "uid1"}},
		{"メール形式", SignupCommand{UID: "uid1", OrgName: "t", Email: "not-an-address"}},
	}
	for _, c := range cases {
		if _, err := service.Signup(context.Background(), c.cmd); err == nil {
			t.Fatalf("%s: エラーになるべき", c.name)
		}
	}
}
