package prd

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
)

// BlockTag is the language tag on the fenced block the assistant embeds
// its structured payload in. This is the sole contract between free-form
// chat text and the structured document.
const BlockTag = "prd-data"

var fencedBlockRe = regexp.MustCompile("(?s)```" + BlockTag + "[ \\t]*\\r?\\n(.*?)```")

// Extract scans one complete assistant turn for the first fenced
// prd-data block and parses it. A missing block is the normal case for
// conversational turns and returns (nil, false); a malformed block is
// logged and also returns (nil, false) so a bad turn never loses the
// accumulated document.
func Extract(text string, log *logger.Logger) (*Data, bool) {
	m := fencedBlockRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	payload := strings.TrimSpace(m[1])
	if payload == "" {
		return nil, false
	}

	var d Data
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		if log != nil {
			log.Warn("Failed to parse prd-data block, skipping", "error", err)
		}
		return nil, false
	}
	return &d, true
}

// StripBlock removes the fenced prd-data block from assistant text so
// the conversational remainder can be shown or summarized on its own.
func StripBlock(text string) string {
	return strings.TrimSpace(fencedBlockRe.ReplaceAllString(text, ""))
}
