package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
)

// ScrapeResult is the useful subset of a Firecrawl scrape response:
// the markdown rendering, the raw HTML, an optional page screenshot
// URL, and a little page metadata.
type ScrapeResult struct {
	Markdown   string
	HTML       string
	Screenshot string
	Title      string
	OGImage    string
}

type Client interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := os.Getenv("FIRECRAWL_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing FIRECRAWL_API_KEY")
	}

	baseURL := os.Getenv("FIRECRAWL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev"
	}

	timeoutSec := 120
	if v := os.Getenv("FIRECRAWL_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("service", "FirecrawlClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("firecrawl http %d: %s", e.StatusCode, e.Body)
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown   string `json:"markdown"`
		HTML       string `json:"html"`
		Screenshot string `json:"screenshot"`
		Metadata   struct {
			Title   string `json:"title"`
			OGImage string `json:"ogImage"`
		} `json:"metadata"`
	} `json:"data"`
	Error string `json:"error"`
}

func (c *client) Scrape(ctx context.Context, url string) (*ScrapeResult, error) {
	body := scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown", "html", "screenshot"},
		OnlyMainContent: false,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/scrape", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl scrape request: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed scrapeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("firecrawl decode error: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("firecrawl scrape failed: %s", parsed.Error)
	}

	return &ScrapeResult{
		Markdown:   parsed.Data.Markdown,
		HTML:       parsed.Data.HTML,
		Screenshot: parsed.Data.Screenshot,
		Title:      parsed.Data.Metadata.Title,
		OGImage:    parsed.Data.Metadata.OGImage,
	}, nil
}
