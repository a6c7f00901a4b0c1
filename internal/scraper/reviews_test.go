package scraper

import (
	"strings"
	"testing"
)

const structuredReviewsFixture = `
5.0 out of 5 stars Great bag
Reviewed in the United States on March 3, 2025
Verified Purchase
This backpack swallowed a week of clothes and still fit under the seat. Zippers feel solid.
142 people found this helpful
Helpful
Report
1.0 out of 5 stars Fell apart
Verified Purchase
The strap stitching unraveled within ten days of light commuting and the buckle cracked.
Helpful
Report
`

func TestStructuredBlockExtractor(t *testing.T) {
	reviews, ok := structuredBlockExtractor{}.TryExtract(structuredReviewsFixture)
	if !ok {
		t.Fatal("expected structured strategy to succeed")
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2: %+v", len(reviews), reviews)
	}

	if reviews[0].Rating == nil || *reviews[0].Rating != 5 {
		t.Fatalf("first rating = %v, want 5", reviews[0].Rating)
	}
	if !strings.Contains(reviews[0].Text, "swallowed a week of clothes") {
		t.Fatalf("first text = %q", reviews[0].Text)
	}
	if strings.Contains(reviews[0].Text, "found this helpful") ||
		strings.Contains(reviews[0].Text, "Helpful") ||
		strings.Contains(reviews[0].Text, "Report") {
		t.Fatalf("boilerplate leaked into review text: %q", reviews[0].Text)
	}

	if reviews[1].Rating == nil || *reviews[1].Rating != 1 {
		t.Fatalf("second rating = %v, want 1", reviews[1].Rating)
	}
	if !strings.Contains(reviews[1].Text, "stitching unraveled") {
		t.Fatalf("second text = %q", reviews[1].Text)
	}
}

func TestStructuredBlockExtractorLowConfidence(t *testing.T) {
	// A single recovered block is below the confidence floor.
	one := `4.0 out of 5 stars Nice
Verified Purchase
Comfortable enough and the colour matches the photos almost exactly as shown.
`
	if _, ok := (structuredBlockExtractor{}).TryExtract(one); ok {
		t.Fatal("one block must not satisfy the structured strategy")
	}
}

func TestLineStateMachineExtractor(t *testing.T) {
	text := `3.0 out of 5 stars
Size: Large
Decent jacket for the price but the hood is far too shallow to be useful in rain.
Helpful
5.0 out of 5 stars
Reviewed in Canada on June 1, 2025
Keeps me warm on the night shift and the pockets actually fit a full-size phone.
12 people found this helpful
`
	reviews, ok := lineStateMachineExtractor{}.TryExtract(text)
	if !ok {
		t.Fatal("expected state-machine strategy to succeed")
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews: %+v", len(reviews), reviews)
	}
	if reviews[0].Rating == nil || *reviews[0].Rating != 3 {
		t.Fatalf("first rating = %v, want 3", reviews[0].Rating)
	}
	if strings.Contains(reviews[0].Text, "Size:") {
		t.Fatalf("size selector leaked: %q", reviews[0].Text)
	}
	if reviews[1].Rating == nil || *reviews[1].Rating != 5 {
		t.Fatalf("second rating = %v, want 5", reviews[1].Rating)
	}
	if strings.Contains(reviews[1].Text, "Reviewed in") || strings.Contains(reviews[1].Text, "helpful") {
		t.Fatalf("boilerplate leaked: %q", reviews[1].Text)
	}
}

func TestParagraphFallbackExtractor(t *testing.T) {
	text := `Product title here

I bought this kettle for my office and after two months of daily use it still boils fast, pours cleanly, and has not picked up any smell.

Buy now
`
	reviews, ok := paragraphFallbackExtractor{}.TryExtract(text)
	if !ok || len(reviews) != 1 {
		t.Fatalf("got ok=%v reviews=%+v", ok, reviews)
	}
	if reviews[0].Rating != nil {
		t.Fatal("fallback paragraphs carry no rating")
	}
}

func TestExtractReviewsCascade(t *testing.T) {
	// Structured markers present and confident: cascade stops there.
	reviews := ExtractReviews(structuredReviewsFixture)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews", len(reviews))
	}

	// No markers at all: falls through to the paragraph strategy.
	loose := "Intro\n\n" + strings.Repeat("The stand held my tablet steady through every video call and folds flat for travel without any wobble. ", 1) + "\n\nFooter"
	reviews = ExtractReviews(loose)
	if len(reviews) != 1 {
		t.Fatalf("fallback got %d reviews: %+v", len(reviews), reviews)
	}

	// Pure boilerplate yields nothing.
	if got := ExtractReviews("Helpful\nReport\nNext page"); got != nil {
		t.Fatalf("boilerplate-only input produced %+v", got)
	}
}

func TestValidReviewText(t *testing.T) {
	long := strings.Repeat("a", 3001)
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"substantive", "This charger tops up my phone twice as fast as the stock one did.", true},
		{"too_short", "Nice.", false},
		{"too_long", long, false},
		{"url", "Check https://example.com for my full review of this charger today.", false},
		{"helpful_boilerplate", "32 people found this helpful", false},
		{"no_letter_run", "1,234 // ## 5678 ++ 90 -- 12 !! 34", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validReviewText(tc.in, 30); got != tc.want {
				t.Fatalf("validReviewText(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPolarity(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	cases := []struct {
		name   string
		rating *int
		want   *bool
	}{
		{"five_positive", intPtr(5), boolPtr(true)},
		{"four_positive", intPtr(4), boolPtr(true)},
		{"three_neutral", intPtr(3), nil},
		{"two_negative", intPtr(2), boolPtr(false)},
		{"one_negative", intPtr(1), boolPtr(false)},
		{"missing", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Polarity(Review{Rating: tc.rating})
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("got %v, want %v", *got, *tc.want)
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }
