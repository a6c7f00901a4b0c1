package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ordered vendor image patterns, most specific and highest resolution
// first. The first match across the whole page text wins; the generic
// pattern is only a fallback when no vendor pattern matches.
var vendorImagePatterns = []*regexp.Regexp{
	// Amazon high-res product shots, e.g. ..._AC_SL1500_.jpg
	regexp.MustCompile(`https://m\.media-amazon\.com/images/I/[A-Za-z0-9+._%-]+\._AC_SL\d{3,4}_\.(?:jpg|jpeg|png|webp)`),
	// Amazon sized variants (_SX/_SY/_UX/_UY)
	regexp.MustCompile(`https://m\.media-amazon\.com/images/I/[A-Za-z0-9+._%-]+\._(?:AC_)?(?:SX|SY|UX|UY)\d{3,4}_[A-Za-z0-9_,.]*\.(?:jpg|jpeg|png|webp)`),
	// Any amazon-hosted product image
	regexp.MustCompile(`https://(?:m\.media-amazon\.com|images-na\.ssl-images-amazon\.com)/images/I/[A-Za-z0-9+._%-]+\.(?:jpg|jpeg|png|webp)`),
	// AliExpress CDN
	regexp.MustCompile(`https://ae0[1-4]\.alicdn\.com/kf/[A-Za-z0-9._/-]+\.(?:jpg|jpeg|png|webp)`),
	// Shopify CDN
	regexp.MustCompile(`https://cdn\.shopify\.com/s/files/[A-Za-z0-9._/-]+\.(?:jpg|jpeg|png|webp)`),
}

var genericImagePattern = regexp.MustCompile(`https?://[^\s<>()"']+\.(?:jpg|jpeg|png|webp)`)

// ExtractMainImage picks one primary product image URL from the page.
// Passes run in order: vendor patterns over the markdown text, an <img>
// scan of the raw HTML, then the generic URL fallback. Returns "" when
// nothing image-like is found; extraction never errors.
func ExtractMainImage(markdown, html string) string {
	for _, re := range vendorImagePatterns {
		if m := re.FindString(markdown); m != "" {
			return m
		}
	}

	if img := extractImageFromHTML(html); img != "" {
		return img
	}

	if m := genericImagePattern.FindString(markdown); m != "" {
		return m
	}
	return ""
}

// ExtractImageCandidates returns every distinct vendor-pattern match in
// page order, capped, for the product image gallery.
func ExtractImageCandidates(markdown string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range vendorImagePatterns {
		for _, m := range re.FindAllString(markdown, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// extractImageFromHTML walks <img> tags preferring explicit high-res
// attributes vendors use over plain src.
func extractImageFromHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	attrs := []string{"data-old-hires", "data-a-hires", "data-zoom-image", "src"}
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range attrs {
			v, ok := sel.Attr(attr)
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			if v == "" || strings.HasPrefix(v, "data:") {
				continue
			}
			if genericImagePattern.MatchString(v) {
				found = genericImagePattern.FindString(v)
				return false
			}
		}
		return true
	})
	return found
}
