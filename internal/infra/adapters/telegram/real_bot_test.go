package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkTextShortPassthrough(t *testing.T) {
	got := chunkText("hello", 10)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("chunkText = %v", got)
	}
	if got := chunkText("", 10); got != nil {
		t.Fatalf("empty input should produce no chunks, got %v", got)
	}
}

func TestChunkTextSplitsLongText(t *testing.T) {
	text := strings.Repeat("a", 25)
	chunks := chunkText(text, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("chunks must reassemble to the input")
	}
	for i, c := range chunks {
		if len(c) > 10 {
			t.Fatalf("chunk %d exceeds limit: %d bytes", i, len(c))
		}
	}
}

func TestChunkTextNeverSplitsRunes(t *testing.T) {
	// each rune below is multi-byte; a byte-index cut at most limits
	// would land inside one of them
	text := strings.Repeat("зона例🌐", 40)
	for _, limit := range []int{7, 10, 16, 4000} {
		chunks := chunkText(text, limit)
		if strings.Join(chunks, "") != text {
			t.Fatalf("limit %d: chunks must reassemble to the input", limit)
		}
		for i, c := range chunks {
			if len(c) > limit {
				t.Fatalf("limit %d: chunk %d exceeds limit (%d bytes)", limit, i, len(c))
			}
			if !utf8.ValidString(c) {
				t.Fatalf("limit %d: chunk %d is not valid UTF-8: %q", limit, i, c)
			}
		}
	}
}
