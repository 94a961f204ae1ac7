package domain

import "testing"

func TestComputeStatsEmpty(t *testing.T) {
	form := Form{Fields: []Field{{ID: "q1", Type: FieldShortText, Required: true}}}
	stats := ComputeStats(form, nil)
	if stats.ResponseCount != 0 || stats.CompletionRate != 0 || stats.AverageAnswered != 0 {
		t.Fatalf("stats=%+v", stats)
	}
	if len(stats.TopKeywords) != 0 {
		t.Fatalf("TopKeywords=%v", stats.TopKeywords)
	}
}

func TestComputeCompletionRate(t *testing.T) {
	fields := []Field{
		{ID: "a", Type: FieldShortText, Required: true},
		{ID: "b", Type: FieldShortText, Required: true},
		{ID: "c", Type: FieldShortText},
	}
	responses := []Response{
		{Answers: map[string]any{"a": "x", "b": "y"}},
		{Answers: map[string]any{"a": "x"}},
		{Answers: map[string]any{"c": "任意のみ"}},
	}

	// (1.0 + 0.5 + 0.0) / 3 = 50%
	if got := computeCompletionRate(fields, responses); got != 50 {
		t.Fatalf("CompletionRate=%d, want 50", got)
	}
}

func TestComputeCompletionRateRounds(t *testing.T) {
	fields := []Field{
		{ID: "a", Type: FieldShortText, Required: true},
	}
	responses := []Response{
		{Answers: map[string]any{"a": "x"}},
		{Answers: map[string]any{"a": "y"}},
		{Answers: map[string]any{}},
	}

	// 2/3 = 66.66... → 67%
	if got := computeCompletionRate(fields, responses); got != 67 {
		t.Fatalf("CompletionRate=%d, want 67", got)
	}
}

func TestComputeCompletionRateNoRequired(t *testing.T) {
	fields := []Field{{ID: "a", Type: FieldShortText}}
	responses := []Response{{Answers: map[string]any{}}}
	if got := computeCompletionRate(fields, responses); got != 100 {
		t.Fatalf("必須項目ゼロのフォームは 100%% 扱い: got %d", got)
	}
}

func TestHasAnswer(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"空文字列", "", false},
		{"文字列", "x", true},
		{"false", false, false},
		{"true", true, true},
		{"空配列", []string{}, false},
		{"配列", []string{"a"}, true},
		{"BSON 配列", []any{"a"}, true},
		{"空 BSON 配列", []any{}, false},
	}
	for _, c := range cases {
		if got := hasAnswer(c.value); got != c.want {
			t.Fatalf("%s: hasAnswer=%v, want %v", c.name, got, c.want)
		}
	}
}

func TestComputeAverageAnswered(t *testing.T) {
	fields := []Field{
		{ID: "a", Type: FieldShortText},
		{ID: "b", Type: FieldShortText},
		{ID: "c", Type: FieldCheckbox},
	}
	responses := []Response{
		{Answers: map[string]any{"a": "x", "b": "y", "c": true}},
		{Answers: map[string]any{"a": "x"}},
	}

	// (3 + 1) / 2 = 2
	if got := computeAverageAnswered(fields, responses); got != 2 {
		t.Fatalf("AverageAnswered=%d, want 2", got)
	}
}

func TestComputeOptionDistribution(t *testing.T) {
	fields := []Field{
		{ID: "single", Label: "満足度", Type: FieldSingleSelect, Options: []string{"満足", "不満"}},
		{ID: "multi", Label: "メニュー", Type: FieldMultiSelect, Options: []string{"コーヒー", "紅茶"}},
		{ID: "text", Label: "感想", Type: FieldLongText},
	}
	responses := []Response{
		{Answers: map[string]any{"single": "満足", "multi": []string{"コーヒー", "紅茶"}}},
		{Answers: map[string]any{"single": "満足", "multi": []any{"コーヒー"}}},
		{Answers: map[string]any{"single": "選択肢にない値"}},
	}

	dists := computeOptionDistribution(fields, responses)
	if len(dists) != 2 {
		t.Fatalf("自由記述は分布に含めないべき: %v", dists)
	}

	single := dists[0]
	if single.FieldID != "single" || single.Counts[0].Count != 2 || single.Counts[1].Count != 0 {
		t.Fatalf("single=%+v", single)
	}

	multi := dists[1]
	if multi.Counts[0].Count != 2 || multi.Counts[1].Count != 1 {
		t.Fatalf("multi=%+v", multi)
	}
}

func TestComputeTopKeywords(t *testing.T) {
	fields := []Field{{ID: "comment", Type: FieldLongText}}
	responses := []Response{
		{Answers: map[string]any{"comment": "coffee coffee staff"}},
		{Answers: map[string]any{"comment": "Coffee menu staff price 42"}},
	}

	keywords := computeTopKeywords(fields, responses)
	if len(keywords) != 4 {
		t.Fatalf("keywords=%v", keywords)
	}
	if keywords[0].Keyword != "coffee" || keywords[0].Count != 3 {
		t.Fatalf("top=%+v", keywords[0])
	}
	// staff と menu は同数順位にならない (staff=2, menu=1)。同数の menu/price は出現順
	if keywords[1].Keyword != "staff" || keywords[1].Count != 2 {
		t.Fatalf("second=%+v", keywords[1])
	}
	if keywords[2].Keyword != "menu" || keywords[3].Keyword != "price" {
		t.Fatalf("tail=%v", keywords)
	}
	for _, kw := range keywords {
		if kw.Keyword == "42" {
			t.Fatal("数字のみのトークンは除外されるべき")
		}
	}
}

func TestComputeTopKeywordsLimit(t *testing.T) {
	fields := []Field{{ID: "comment", Type: FieldShortText}}
	responses := []Response{
		{Answers: map[string]any{"comment": "alpha beta gamma delta epsilon zeta eta theta"}},
	}
	keywords := computeTopKeywords(fields, responses)
	if len(keywords) != 6 {
		t.Fatalf("len=%d, want 6", len(keywords))
	}
	if keywords[0].Keyword != "alpha" || keywords[5].Keyword != "zeta" {
		t.Fatalf("keywords=%v", keywords)
	}
}

func TestComputeSentimentTally(t *testing.T) {
	fields := []Field{{ID: "comment", Type: FieldLongText}}
	responses := []Response{
		{Answers: map[string]any{"comment": "接客がとても丁寧で満足です"}},
		{Answers: map[string]any{"comment": "提供が遅い上に店内も不便でした"}},
		{Answers: map[string]any{"comment": "ふつうのお店でした"}},
		{Answers: map[string]any{"comment": "良かったけれど待ち時間は遅い"}},
	}

	tally := computeSentimentTally(fields, responses)
	if tally.Positive != 1 || tally.Negative != 1 || tally.Neutral != 2 {
		t.Fatalf("tally=%+v", tally)
	}
}
