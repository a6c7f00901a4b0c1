package scraper

import (
	"strings"
	"testing"
)

func TestExtractMainImageVendorBeatsGeneric(t *testing.T) {
	// A generic jpg appears first in the text, but the Amazon high-res
	// pattern must win because vendor patterns run before the fallback.
	markdown := strings.Join([]string{
		"![banner](https://example.com/assets/banner.jpg)",
		"Some product copy.",
		"![product](https://m.media-amazon.com/images/I/71abcDEF12L._AC_SL1500_.jpg)",
		"![alt](https://m.media-amazon.com/images/I/81xyzGHI34M._AC_SL1500_.jpg)",
		"![alt2](https://m.media-amazon.com/images/I/91uvwJKL56N._AC_SL1000_.jpg)",
	}, "\n")

	got := ExtractMainImage(markdown, "")
	want := "https://m.media-amazon.com/images/I/71abcDEF12L._AC_SL1500_.jpg"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractMainImageHiResBeatsSized(t *testing.T) {
	markdown := strings.Join([]string{
		"https://m.media-amazon.com/images/I/61xyz._AC_SX466_.jpg",
		"https://m.media-amazon.com/images/I/61xyz._AC_SL1200_.jpg",
	}, "\n")

	got := ExtractMainImage(markdown, "")
	if !strings.Contains(got, "_AC_SL1200_") {
		t.Fatalf("got %q, want the _AC_SL high-res variant", got)
	}
}

func TestExtractMainImageHTMLPassBeforeGenericFallback(t *testing.T) {
	markdown := "See https://example.com/foo/banner.jpg for details."
	html := `<html><body><img data-old-hires="https://cdn.vendor.example/hires/product.png" src="/small.gif"></body></html>`

	got := ExtractMainImage(markdown, html)
	if got != "https://cdn.vendor.example/hires/product.png" {
		t.Fatalf("got %q, want the data-old-hires URL", got)
	}
}

func TestExtractMainImageGenericFallback(t *testing.T) {
	markdown := "Photo: https://example.com/media/shot.webp done."
	got := ExtractMainImage(markdown, "")
	if got != "https://example.com/media/shot.webp" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractMainImageNothingFound(t *testing.T) {
	if got := ExtractMainImage("no images here", "<p>plain</p>"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestExtractImageCandidatesDedupeAndCap(t *testing.T) {
	url1 := "https://m.media-amazon.com/images/I/11aaa._AC_SL1500_.jpg"
	url2 := "https://m.media-amazon.com/images/I/22bbb._AC_SL1500_.jpg"
	url3 := "https://cdn.shopify.com/s/files/1/0001/shot.jpg"
	markdown := strings.Join([]string{url1, url2, url1, url3}, "\n")

	got := ExtractImageCandidates(markdown, 2)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %v", len(got), got)
	}
	if got[0] != url1 || got[1] != url2 {
		t.Fatalf("got %v", got)
	}
}
