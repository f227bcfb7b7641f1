package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitShortTextBelowMinimum(t *testing.T) {
	s := NewSplitter(1000, 200, 100)

	// 40 characters, below the retention threshold
	chunks := s.Split("this text is exactly forty characters ok")
	if len(chunks) != 0 {
		t.Errorf("expected zero retained chunks, got %d", len(chunks))
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(200, 40, 10)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks := s.Split(sb.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 200 {
			t.Errorf("chunk %d exceeds size limit: %d chars", i, len(c))
		}
		if len(strings.TrimSpace(c)) <= 10 {
			t.Errorf("chunk %d below minimum retained size", i)
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(80, 0, 5)

	para1 := strings.Repeat("alpha ", 10) // 60 chars
	para2 := strings.Repeat("bravo ", 10)
	chunks := s.Split(para1 + "\n\n" + para2)

	if len(chunks) != 2 {
		t.Fatalf("expected split at paragraph break, got %d chunks: %q", len(chunks), chunks)
	}
	if strings.Contains(chunks[0], "bravo") || strings.Contains(chunks[1], "alpha") {
		t.Errorf("paragraphs were mixed across chunks: %q", chunks)
	}
}

func TestSplitDeterminism(t *testing.T) {
	s := NewSplitter(150, 30, 10)

	text := "First sentence here. Second sentence follows! A third one, with a comma, trails after.\nA new line starts.\n\nAnd a fresh paragraph closes the document with a bit more text to split."

	first := s.Split(text)
	second := s.Split(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("splitting the same text twice diverged:\n%q\n%q", first, second)
	}
	if len(first) == 0 {
		t.Error("expected at least one chunk")
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(60, 20, 1)

	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen"
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// consecutive chunks share a suffix/prefix of words
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		lastWord := prevWords[len(prevWords)-1]
		if !strings.Contains(chunks[i], lastWord) {
			t.Errorf("chunk %d does not overlap with its predecessor: %q -> %q", i, chunks[i-1], chunks[i])
		}
	}
}

func TestSplitWhitespaceOnly(t *testing.T) {
	s := NewSplitter(100, 20, 10)
	if chunks := s.Split("   \n\n\t  "); chunks != nil {
		t.Errorf("expected nil for whitespace-only input, got %v", chunks)
	}
}

func TestSplitCharacterFallback(t *testing.T) {
	s := NewSplitter(50, 10, 1)

	// no separators at all, forces character-level cutting
	text := strings.Repeat("x", 180)
	chunks := s.Split(text)
	if len(chunks) < 3 {
		t.Fatalf("expected character-level split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d exceeds limit: %d", i, len(c))
		}
	}
}
