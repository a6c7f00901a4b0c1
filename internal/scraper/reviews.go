package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Review is one extracted customer review. Rating is nil when the
// source block carried no recognizable star marker.
type Review struct {
	Text   string `json:"text"`
	Rating *int   `json:"rating,omitempty"`
}

// TextExtractor is one heuristic strategy for mining review blocks out
// of noisy page text. Strategies are composed first-success-wins so
// each stays independently testable and replaceable.
type TextExtractor interface {
	Name() string
	TryExtract(text string) ([]Review, bool)
}

const (
	maxReviews = 100

	// A structural strategy that recovers fewer than this many blocks
	// probably mis-keyed on boilerplate; fall through to the next one.
	minConfidentReviews = 2
)

var (
	ratingMarkerRe = regexp.MustCompile(`(\d(?:\.\d)?) out of 5 stars`)
	verifiedRe     = regexp.MustCompile(`(?i)verified purchase`)
	letterRunRe    = regexp.MustCompile(`[A-Za-z]{4}`)

	// UI boilerplate that must never be classified as review content.
	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*[\d,]*\s*(?:people|person) found this helpful`),
		regexp.MustCompile(`(?i)^\s*helpful\s*[|.]?\s*$`),
		regexp.MustCompile(`(?i)^\s*report(?:\s+abuse)?\s*$`),
		regexp.MustCompile(`(?i)^\s*(?:previous|next)\s+page`),
		regexp.MustCompile(`(?i)^\s*verified purchase\s*$`),
		regexp.MustCompile(`(?i)^\s*(?:size|colou?r|style|pattern(?:\s+name)?)\s*[::]`),
		regexp.MustCompile(`(?i)^\s*reviewed in (?:the )?[a-z ]+ on `),
		regexp.MustCompile(`(?i)^\s*(?:read more|see more|translate review|show original|sort by|top reviews)\s*$`),
		regexp.MustCompile(`(?i)^\s*\d+\s*(?:-|of|/)\s*\d+\s*$`),
	}
)

// ExtractReviews runs the strategy cascade over the page text and
// returns at most maxReviews reviews. False negatives are acceptable;
// the layered filters exist to keep false positives rare.
func ExtractReviews(text string) []Review {
	for _, ex := range Extractors() {
		if reviews, ok := ex.TryExtract(text); ok {
			if len(reviews) > maxReviews {
				reviews = reviews[:maxReviews]
			}
			return reviews
		}
	}
	return nil
}

// Extractors returns the strategies in priority order, strictest first.
func Extractors() []TextExtractor {
	return []TextExtractor{
		structuredBlockExtractor{},
		lineStateMachineExtractor{},
		paragraphFallbackExtractor{},
	}
}

// Polarity derives the tri-state positive/negative flag from a star
// rating; mid ratings and missing ratings stay undetermined.
func Polarity(r Review) *bool {
	if r.Rating == nil {
		return nil
	}
	switch {
	case *r.Rating >= 4:
		v := true
		return &v
	case *r.Rating <= 2:
		v := false
		return &v
	default:
		return nil
	}
}

func parseRatingMarker(m []string) *int {
	if len(m) < 2 {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || f < 1 || f > 5 {
		return nil
	}
	v := int(f + 0.5)
	if v > 5 {
		v = 5
	}
	return &v
}

func isBoilerplateLine(line string) bool {
	for _, re := range boilerplateRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// validReviewText is the shared validity filter: bounded length, no raw
// URLs, no boilerplate match, and at least one run of real letters.
func validReviewText(s string, minLen int) bool {
	n := len(s)
	if n < minLen || n > 3000 {
		return false
	}
	if strings.Contains(s, "http://") || strings.Contains(s, "https://") {
		return false
	}
	if isBoilerplateLine(s) {
		return false
	}
	return letterRunRe.MatchString(s)
}

// cleanBlock drops boilerplate and URL-bearing lines from a candidate
// block and rejoins the substantive remainder.
func cleanBlock(block string) string {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplateLine(line) {
			continue
		}
		if strings.Contains(line, "http://") || strings.Contains(line, "https://") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// ---- strategy 1: structural rating/verified-purchase blocks ----

type structuredBlockExtractor struct{}

func (structuredBlockExtractor) Name() string { return "structured-blocks" }

// TryExtract matches the strict page structure: a rating marker, a
// verified-purchase marker somewhere in the block, then content running
// up to the next rating marker.
func (structuredBlockExtractor) TryExtract(text string) ([]Review, bool) {
	locs := ratingMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}

	var out []Review
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := text[loc[1]:end]

		vp := verifiedRe.FindStringIndex(block)
		if vp == nil {
			continue
		}
		content := cleanBlock(block[vp[1]:])
		if !validReviewText(content, 30) {
			continue
		}

		rating := parseRatingMarker([]string{text[loc[0]:loc[1]], text[loc[2]:loc[3]]})
		out = append(out, Review{Text: content, Rating: rating})
		if len(out) >= maxReviews {
			break
		}
	}

	return out, len(out) >= minConfidentReviews
}

// ---- strategy 2: line-by-line state machine ----

type lineStateMachineExtractor struct{}

func (lineStateMachineExtractor) Name() string { return "line-state-machine" }

// TryExtract walks the text line by line, carrying the most recent
// rating marker as state, skipping boilerplate, and accumulating the
// remaining substantial lines into the current review until the next
// marker flushes it.
func (lineStateMachineExtractor) TryExtract(text string) ([]Review, bool) {
	var (
		out           []Review
		currentRating *int
		acc           []string
	)

	flush := func() {
		if len(acc) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(acc, " "))
		acc = nil
		if validReviewText(content, 30) {
			out = append(out, Review{Text: content, Rating: currentRating})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := ratingMarkerRe.FindStringSubmatch(line); m != nil {
			flush()
			currentRating = parseRatingMarker(m)
			continue
		}
		if line == "" || isBoilerplateLine(line) {
			continue
		}
		if strings.Contains(line, "http://") || strings.Contains(line, "https://") {
			continue
		}
		if len(line) < 20 {
			continue
		}
		acc = append(acc, line)
	}
	flush()

	return out, len(out) >= minConfidentReviews
}

// ---- strategy 3: paragraph-block fallback ----

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

type paragraphFallbackExtractor struct{}

func (paragraphFallbackExtractor) Name() string { return "paragraph-fallback" }

// TryExtract is the most permissive pass: any standalone paragraph of
// plausible review length that survives the validity filter. No rating
// can be attributed at this level.
func (paragraphFallbackExtractor) TryExtract(text string) ([]Review, bool) {
	var out []Review
	for _, para := range paragraphSplitRe.Split(text, -1) {
		p := strings.TrimSpace(para)
		if len(p) < 80 || len(p) > 2000 {
			continue
		}
		content := cleanBlock(p)
		if !validReviewText(content, 80) {
			continue
		}
		out = append(out, Review{Text: content})
		if len(out) >= maxReviews {
			break
		}
	}
	return out, len(out) > 0
}
