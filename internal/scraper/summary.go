package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// ReviewSummary is the aggregate review data recovered from a product
// page. Every part is optional: each regex pass runs independently and
// a miss in one never blocks the others.
type ReviewSummary struct {
	OverallRating      float64        `json:"overall_rating,omitempty"`
	TotalReviews       int            `json:"total_reviews,omitempty"`
	StarDistribution   map[int]int    `json:"star_distribution,omitempty"`
	PositiveHighlights []string       `json:"positive_highlights,omitempty"`
	NegativeHighlights []string       `json:"negative_highlights,omitempty"`
}

const highlightCap = 3

var (
	overallRatingRe = regexp.MustCompile(`(\d(?:\.\d)?)\s+out of\s+5`)
	totalReviewsRe  = regexp.MustCompile(`([\d,]+)\s+(?:global\s+)?(?:ratings|reviews|customer reviews)`)
	starPercentRe   = regexp.MustCompile(`(\d)\s+stars?\D{0,20}?(\d{1,3})%`)

	positiveWordsRe = regexp.MustCompile(`(?i)\b(love|loved|great|excellent|perfect|amazing|fantastic|awesome|highly recommend)\b`)
	negativeWordsRe = regexp.MustCompile(`(?i)\b(disappoint\w*|broke|broken|poor|terrible|waste|返修|refund|returned|stopped working|cheap\s+feeling)\b`)

	sentenceSplitRe = regexp.MustCompile(`[.!?。！？]\s+`)
)

// ExtractReviewSummary runs the independent regex passes over the
// markdown rendering of a product page.
func ExtractReviewSummary(markdown string) ReviewSummary {
	var out ReviewSummary

	if m := overallRatingRe.FindStringSubmatch(markdown); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= 5 {
			out.OverallRating = v
		}
	}

	if m := totalReviewsRe.FindStringSubmatch(markdown); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.Atoi(raw); err == nil {
			out.TotalReviews = v
		}
	}

	for _, m := range starPercentRe.FindAllStringSubmatch(markdown, -1) {
		star, err1 := strconv.Atoi(m[1])
		pct, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || star < 1 || star > 5 || pct > 100 {
			continue
		}
		if out.StarDistribution == nil {
			out.StarDistribution = make(map[int]int)
		}
		// First occurrence wins; pages repeat the histogram.
		if _, ok := out.StarDistribution[star]; !ok {
			out.StarDistribution[star] = pct
		}
	}

	out.PositiveHighlights = extractHighlights(markdown, positiveWordsRe)
	out.NegativeHighlights = extractHighlights(markdown, negativeWordsRe)

	return out
}

// extractHighlights collects short keyword-bearing sentences, bounded
// to 10-200 chars and capped at highlightCap.
func extractHighlights(text string, keywordRe *regexp.Regexp) []string {
	var out []string
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		s := strings.TrimSpace(sentence)
		if len(s) < 10 || len(s) > 200 {
			continue
		}
		if !keywordRe.MatchString(s) {
			continue
		}
		if strings.Contains(s, "http") {
			continue
		}
		out = append(out, s)
		if len(out) >= highlightCap {
			break
		}
	}
	return out
}
