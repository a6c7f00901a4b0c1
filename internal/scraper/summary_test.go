package scraper

import (
	"strings"
	"testing"
)

const summaryFixture = `
4.6 out of 5
12,438 global ratings

5 stars 68%
4 stars 18%
3 stars 7%
2 stars 3%
1 star 4%
5 stars 68%

I love the build quality and the battery lasts for days. Highly recommend for travel.
The zipper broke after two weeks and the seller never replied. Complete waste of money.
Spec sheet: https://example.com/specs.jpg great resolution there.
`

func TestExtractReviewSummary(t *testing.T) {
	sum := ExtractReviewSummary(summaryFixture)

	if sum.OverallRating != 4.6 {
		t.Fatalf("OverallRating = %v, want 4.6", sum.OverallRating)
	}
	if sum.TotalReviews != 12438 {
		t.Fatalf("TotalReviews = %d, want 12438", sum.TotalReviews)
	}
	want := map[int]int{5: 68, 4: 18, 3: 7, 2: 3, 1: 4}
	if len(sum.StarDistribution) != len(want) {
		t.Fatalf("StarDistribution = %v", sum.StarDistribution)
	}
	for star, pct := range want {
		if sum.StarDistribution[star] != pct {
			t.Fatalf("star %d = %d%%, want %d%%", star, sum.StarDistribution[star], pct)
		}
	}

	if len(sum.PositiveHighlights) == 0 {
		t.Fatal("expected at least one positive highlight")
	}
	for _, h := range sum.PositiveHighlights {
		if strings.Contains(h, "http") {
			t.Fatalf("highlight contains URL: %q", h)
		}
	}
	if len(sum.NegativeHighlights) == 0 {
		t.Fatal("expected at least one negative highlight")
	}
	if !strings.Contains(sum.NegativeHighlights[0], "broke") && !strings.Contains(sum.NegativeHighlights[0], "waste") {
		t.Fatalf("negative highlight = %q", sum.NegativeHighlights[0])
	}
}

func TestExtractReviewSummaryPassesIndependent(t *testing.T) {
	// No rating or count anywhere: highlight passes still run.
	sum := ExtractReviewSummary("This thing is amazing and I love it a lot. ")
	if sum.OverallRating != 0 || sum.TotalReviews != 0 || sum.StarDistribution != nil {
		t.Fatalf("unexpected aggregates: %+v", sum)
	}
	if len(sum.PositiveHighlights) != 1 {
		t.Fatalf("PositiveHighlights = %v", sum.PositiveHighlights)
	}
}

func TestExtractReviewSummaryEmpty(t *testing.T) {
	sum := ExtractReviewSummary("")
	if sum.OverallRating != 0 || sum.TotalReviews != 0 ||
		sum.StarDistribution != nil || sum.PositiveHighlights != nil || sum.NegativeHighlights != nil {
		t.Fatalf("empty input must yield zero summary: %+v", sum)
	}
}

func TestExtractReviewSummaryRejectsOutOfRange(t *testing.T) {
	sum := ExtractReviewSummary("9.9 out of 5\n5 stars 140%")
	if sum.OverallRating != 0 {
		t.Fatalf("OverallRating = %v, want 0 for out-of-range", sum.OverallRating)
	}
	if sum.StarDistribution != nil {
		t.Fatalf("StarDistribution = %v, want nil for >100%%", sum.StarDistribution)
	}
}

func TestExtractHighlightsCap(t *testing.T) {
	text := strings.Repeat("The speaker sounds great every morning. ", 10)
	got := extractHighlights(text, positiveWordsRe)
	if len(got) != highlightCap {
		t.Fatalf("got %d highlights, want cap %d", len(got), highlightCap)
	}
}
