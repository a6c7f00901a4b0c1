package stream

import (
	"encoding/json"
	"fmt"
	"io"
)

// Normalized event shape: {choices:[{index:0,delta:{content:"..."}}]},
// matching the OpenAI-compatible framing the client decodes.
type normalizedEvent struct {
	Choices []normalizedChoice `json:"choices"`
}

type normalizedChoice struct {
	Index int             `json:"index"`
	Delta normalizedDelta `json:"delta"`
}

type normalizedDelta struct {
	Content string `json:"content"`
}

// WriteEvent writes one chunk in normalized SSE wire form.
func WriteEvent(w io.Writer, c Chunk) error {
	if c.Done {
		_, err := fmt.Fprintf(w, "data: %s\n\n", DoneSentinel)
		return err
	}
	ev := normalizedEvent{Choices: []normalizedChoice{{Index: 0, Delta: normalizedDelta{Content: c.Content}}}}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", raw)
	return err
}
