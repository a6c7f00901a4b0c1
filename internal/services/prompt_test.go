package services

import (
	"strings"
	"testing"

	"github.com/kaipinbao/kaipinbao-backend/internal/prd"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

func strPtr(s string) *string { return &s }

func TestBuildChatSystemPromptNoCompetitors(t *testing.T) {
	// A fresh project with zero competitor rows gets the generic project
	// context block and no competitor section.
	got := BuildChatSystemPrompt(nil, nil, nil)

	if !strings.Contains(got, "## 项目背景") {
		t.Fatal("missing generic project context block")
	}
	if strings.Contains(got, "## 竞品调研数据") {
		t.Fatal("competitor section must be absent without research data")
	}
	if !strings.Contains(got, prd.BlockTag) {
		t.Fatal("base instructions must name the data block fence")
	}
	if !strings.Contains(got, prd.ReadySentinel) {
		t.Fatal("base instructions must name the ready sentinel")
	}
}

func TestBuildChatSystemPromptWithCompetitors(t *testing.T) {
	competitors := []CompetitorFacts{
		{
			Title:       "Acme 旅行背包",
			Price:       "$49.99",
			Rating:      4.6,
			ReviewCount: 1532,
			Positive:    []string{"容量大", "拉链顺滑", "背负舒适", "多出来的第四条"},
			Negative:    []string{"肩带偏硬"},
		},
	}
	got := BuildChatSystemPrompt(nil, competitors, nil)

	if !strings.Contains(got, "## 竞品调研数据") {
		t.Fatal("missing competitor section")
	}
	if strings.Contains(got, "## 项目背景") {
		t.Fatal("generic fallback must not appear alongside competitor facts")
	}
	for _, want := range []string{"Acme 旅行背包", "$49.99", "4.6/5", "1532 条评论", "容量大", "肩带偏硬"} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "多出来的第四条") {
		t.Fatal("excerpts beyond the cap must be dropped")
	}
}

func TestBuildChatSystemPromptPrdSummary(t *testing.T) {
	doc := &prd.Data{
		SelectedDirection: strPtr("模块化差旅背包"),
		UsageScenario:     strPtr("一周以内的商务出行"),
		CoreFeatures:      []string{"笔记本独立仓", "防盗背板"},
	}
	got := BuildChatSystemPrompt(doc, nil, nil)

	if !strings.Contains(got, "## 已确认的 PRD 内容") {
		t.Fatal("missing PRD summary section")
	}
	for _, want := range []string{"模块化差旅背包", "一周以内的商务出行", "笔记本独立仓、防盗背板"} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildChatSystemPromptEmptyDocNoSummary(t *testing.T) {
	got := BuildChatSystemPrompt(&prd.Data{}, nil, nil)
	if strings.Contains(got, "## 已确认的 PRD 内容") {
		t.Fatal("empty document must not produce a PRD summary section")
	}
}

func TestBuildChatSystemPromptMarketAnalysis(t *testing.T) {
	analysis := &types.MarketAnalysis{
		MarketSize:        "2025 年全球约 180 亿美元",
		TargetUserProfile: "25-40 岁的频繁差旅人群",
	}
	got := BuildChatSystemPrompt(nil, nil, analysis)

	if !strings.Contains(got, "## 市场分析报告") {
		t.Fatal("missing market analysis section")
	}
	if !strings.Contains(got, "2025 年全球约 180 亿美元") {
		t.Fatal("missing market size line")
	}
}

func TestBuildChatSystemPromptDeterministic(t *testing.T) {
	doc := &prd.Data{SelectedDirection: strPtr("方向A")}
	competitors := []CompetitorFacts{{Title: "竞品一", Rating: 4.0}}
	a := BuildChatSystemPrompt(doc, competitors, nil)
	b := BuildChatSystemPrompt(doc, competitors, nil)
	if a != b {
		t.Fatal("prompt must be a pure function of its inputs")
	}
}

func TestWriteExcerptsTruncatesRuneSafe(t *testing.T) {
	long := strings.Repeat("评", reviewExcerptLimit+10)
	var b strings.Builder
	writeExcerpts(&b, "摘录", []string{long})
	out := b.String()

	if !strings.HasSuffix(strings.TrimSpace(out), "…") {
		t.Fatalf("long excerpt must be truncated with ellipsis: %q", out)
	}
	if strings.ContainsRune(out, '\uFFFD') {
		t.Fatal("truncation split a multi-byte rune")
	}
	if n := strings.Count(out, "评"); n != reviewExcerptLimit {
		t.Fatalf("kept %d runes, want %d", n, reviewExcerptLimit)
	}
}
