package notify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkShortText(t *testing.T) {
	chunks := Chunk("短いメッセージ", MessageLimit)
	if len(chunks) != 1 || chunks[0] != "短いメッセージ" {
		t.Errorf("Chunk() = %v", chunks)
	}
}

func TestChunkSplitsOnRunes(t *testing.T) {
	text := strings.Repeat("あ", 2500)

	chunks := Chunk(text, MessageLimit)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if n := utf8.RuneCountInString(chunks[0]); n != MessageLimit {
		t.Errorf("first chunk has %d runes, want %d", n, MessageLimit)
	}
	if n := utf8.RuneCountInString(chunks[1]); n != 500 {
		t.Errorf("second chunk has %d runes, want 500", n)
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("chunks do not reassemble into the original text")
	}
}
