package stream

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func drain(t *testing.T, tc *Transcoder) []Chunk {
	t.Helper()
	var out []Chunk
	for {
		chunk, err := tc.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, chunk)
	}
}

func TestTranscoderValidMalformedDone(t *testing.T) {
	// One valid delta, one malformed JSON line, one done sentinel:
	// exactly one content chunk followed by exactly one done chunk.
	input := strings.Join([]string{
		`data: {"candidates":[{"content":{"parts":[{"text":"你好"}]}}]}`,
		`data: {"candidates":[{"content":`,
		`data: [DONE]`,
		``,
	}, "\n")

	chunks := drain(t, NewTranscoder(strings.NewReader(input), nil))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].Done || chunks[0].Content != "你好" {
		t.Fatalf("first chunk = %+v, want content delta", chunks[0])
	}
	if !chunks[1].Done {
		t.Fatalf("second chunk = %+v, want done", chunks[1])
	}
}

func TestTranscoderPreservesOrder(t *testing.T) {
	input := strings.Join([]string{
		`data: {"candidates":[{"content":{"parts":[{"text":"a"}]}}]}`,
		`data: {"candidates":[{"content":{"parts":[{"text":"b"},{"text":"c"}]}}]}`,
		`data: [DONE]`,
		``,
	}, "\n")

	chunks := drain(t, NewTranscoder(strings.NewReader(input), nil))
	var text string
	for _, c := range chunks {
		text += c.Content
	}
	if text != "abc" {
		t.Fatalf("accumulated %q, want abc", text)
	}
}

func TestTranscoderFinishReasonEmitsDone(t *testing.T) {
	input := `data: {"candidates":[{"content":{"parts":[{"text":"尾声"}]},"finishReason":"STOP"}]}` + "\n"

	chunks := drain(t, NewTranscoder(strings.NewReader(input), nil))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want content+done: %+v", len(chunks), chunks)
	}
	if chunks[0].Content != "尾声" || !chunks[1].Done {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestTranscoderEmptyDeltaSkipped(t *testing.T) {
	input := strings.Join([]string{
		`data: {"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
		`data: [DONE]`,
		``,
	}, "\n")

	chunks := drain(t, NewTranscoder(strings.NewReader(input), nil))
	if len(chunks) != 1 || !chunks[0].Done {
		t.Fatalf("empty delta must produce no content chunk: %+v", chunks)
	}
}

func TestTranscoderNothingAfterDone(t *testing.T) {
	input := strings.Join([]string{
		`data: [DONE]`,
		`data: {"candidates":[{"content":{"parts":[{"text":"late"}]}}]}`,
		``,
	}, "\n")

	tc := NewTranscoder(strings.NewReader(input), nil)
	chunks := drain(t, tc)
	if len(chunks) != 1 || !chunks[0].Done {
		t.Fatalf("stream must end at done: %+v", chunks)
	}
	if _, err := tc.Next(); err != io.EOF {
		t.Fatalf("Next after done = %v, want io.EOF", err)
	}
}

func TestTranscoderIgnoresNonDataLines(t *testing.T) {
	input := strings.Join([]string{
		`: comment`,
		`event: message`,
		`data: {"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`,
		`data: [DONE]`,
		``,
	}, "\n")

	chunks := drain(t, NewTranscoder(strings.NewReader(input), nil))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks: %+v", len(chunks), chunks)
	}
}

func TestWriteEventWireShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvent(&buf, Chunk{Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	want := `data: {"choices":[{"index":0,"delta":{"content":"hi"}}]}` + "\n\n"
	if got != want {
		t.Fatalf("wire form mismatch:\n got: %q\nwant: %q", got, want)
	}

	buf.Reset()
	if err := WriteEvent(&buf, Chunk{Done: true}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "data: [DONE]\n\n" {
		t.Fatalf("done wire form = %q", buf.String())
	}
}
