package services

import (
	"fmt"
	"strings"

	"github.com/kaipinbao/kaipinbao-backend/internal/prd"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

// CompetitorFacts is the bounded competitor research slice injected
// into the chat system prompt.
type CompetitorFacts struct {
	Title       string
	Price       string
	Rating      float64
	ReviewCount int
	Positive    []string
	Negative    []string
}

const (
	maxReviewExcerpts  = 3
	reviewExcerptLimit = 200
)

var basePrompt = strings.TrimSpace(`
你是开品宝的产品定义助手，负责引导用户完成产品需求文档（PRD）的细化对话。
每当对话揭示了新的产品事实，在回复末尾输出一个 ` + "```" + prd.BlockTag + "```" + ` 围栏代码块，
内容为仅包含本轮新增或修正字段的 JSON 对象（字段遵循 PRD 数据结构）。
当设计方向、使用场景、目标人群、设计风格、核心功能与价格区间全部确定后，
在回复中输出字面量 ` + prd.ReadySentinel + ` 表示 PRD 已就绪。
`)

// BuildChatSystemPrompt is a deterministic function of its inputs: the
// base instructions, a summary of the accumulated PRD, concrete
// competitor facts when research exists, and the prior market analysis.
// With no competitor data it falls back to a generic project context
// block instead.
func BuildChatSystemPrompt(doc *prd.Data, competitors []CompetitorFacts, analysis *types.MarketAnalysis) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")

	writePrdSummary(&b, doc)

	if len(competitors) > 0 {
		b.WriteString("## 竞品调研数据\n")
		for _, c := range competitors {
			fmt.Fprintf(&b, "- %s", orUnknown(c.Title))
			if c.Price != "" {
				fmt.Fprintf(&b, "（价格 %s）", c.Price)
			}
			if c.Rating > 0 {
				fmt.Fprintf(&b, "，评分 %.1f/5", c.Rating)
			}
			if c.ReviewCount > 0 {
				fmt.Fprintf(&b, "，%d 条评论", c.ReviewCount)
			}
			b.WriteString("\n")
			writeExcerpts(&b, "  好评", c.Positive)
			writeExcerpts(&b, "  差评", c.Negative)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## 项目背景\n")
		b.WriteString("当前项目尚未录入竞品调研数据。请基于用户描述引导其明确产品方向。\n\n")
	}

	if analysis != nil {
		b.WriteString("## 市场分析报告\n")
		writeIfSet(&b, "市场规模", analysis.MarketSize)
		writeIfSet(&b, "目标用户画像", analysis.TargetUserProfile)
		writeIfSet(&b, "竞争格局", analysis.CompetitionLandscape)
		writeIfSet(&b, "定价策略", analysis.PricingStrategy)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func writePrdSummary(b *strings.Builder, doc *prd.Data) {
	if doc == nil {
		return
	}
	var lines []string
	addLine := func(label string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			lines = append(lines, fmt.Sprintf("- %s：%s", label, *v))
		}
	}
	addLine("已选方向", doc.SelectedDirection)
	addLine("使用场景", doc.UsageScenario)
	addLine("目标人群", doc.TargetAudience)
	addLine("设计风格", doc.DesignStyle)
	addLine("价格区间", doc.PricingRange)
	addLine("产品名称", doc.ProductName)
	if len(doc.CoreFeatures) > 0 {
		lines = append(lines, "- 核心功能："+strings.Join(doc.CoreFeatures, "、"))
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("## 已确认的 PRD 内容\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

func writeExcerpts(b *strings.Builder, label string, excerpts []string) {
	if len(excerpts) == 0 {
		return
	}
	if len(excerpts) > maxReviewExcerpts {
		excerpts = excerpts[:maxReviewExcerpts]
	}
	fmt.Fprintf(b, "%s：\n", label)
	for _, e := range excerpts {
		e = strings.TrimSpace(e)
		if r := []rune(e); len(r) > reviewExcerptLimit {
			e = string(r[:reviewExcerptLimit]) + "…"
		}
		fmt.Fprintf(b, "    - %s\n", e)
	}
}

func writeIfSet(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- %s：%s\n", label, value)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "（未命名竞品）"
	}
	return s
}
