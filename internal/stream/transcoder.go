package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
)

// DoneSentinel is the literal payload terminating a normalized stream,
// mirroring the OpenAI wire convention the frontend already decodes.
const DoneSentinel = "[DONE]"

// Chunk is one normalized streaming unit: either a content delta or the
// terminal done marker. Chunks are transient and never persisted.
type Chunk struct {
	Content string
	Done    bool
}

// geminiPayload is the vendor shape on each data: line.
type geminiPayload struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Transcoder converts a vendor SSE byte stream into a lazy sequence of
// normalized chunks. It is finite and non-restartable: after the done
// chunk (or upstream EOF) every Next call returns io.EOF. Ordering
// strictly follows the input; the only buffering is line assembly.
type Transcoder struct {
	br      *bufio.Reader
	log     *logger.Logger
	pending []Chunk
	eof     bool
}

func NewTranscoder(r io.Reader, log *logger.Logger) *Transcoder {
	if log != nil {
		log = log.With("component", "Transcoder")
	}
	return &Transcoder{br: bufio.NewReader(r), log: log}
}

// Next returns the next normalized chunk. io.EOF signals exhaustion;
// any other error is an upstream read failure.
func (t *Transcoder) Next() (Chunk, error) {
	for {
		if len(t.pending) > 0 {
			c := t.pending[0]
			t.pending = t.pending[1:]
			if c.Done {
				t.eof = true
			}
			return c, nil
		}
		if t.eof {
			return Chunk{}, io.EOF
		}

		line, err := t.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Chunk{}, err
		}
		atEOF := errors.Is(err, io.EOF)

		t.pending = append(t.pending, t.transcodeLine(line)...)

		if atEOF && len(t.pending) == 0 {
			t.eof = true
			return Chunk{}, io.EOF
		}
	}
}

// transcodeLine maps one raw line to zero or more normalized chunks. A
// malformed JSON payload yields nothing: transient partial reads must
// not kill the connection.
func (t *Transcoder) transcodeLine(line string) []Chunk {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "data: ") {
		return nil
	}
	payload := strings.TrimPrefix(line, "data: ")

	if payload == DoneSentinel {
		return []Chunk{{Done: true}}
	}

	var p geminiPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		if t.log != nil {
			t.log.Debug("Skipping malformed SSE line", "error", err)
		}
		return nil
	}

	var out []Chunk
	finished := false
	for _, cand := range p.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				out = append(out, Chunk{Content: part.Text})
			}
		}
		if cand.FinishReason != "" {
			finished = true
		}
	}
	if finished {
		out = append(out, Chunk{Done: true})
	}
	return out
}
