package chunker

import (
	"strings"
)

// Separators ordered from "best" to "worst" for semantic meaning. The
// splitter tries the coarsest one present in the text first and re-splits
// oversized pieces with the next one down, character level as last resort.
var defaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

type Splitter struct {
	chunkSize    int
	chunkOverlap int
	minChunkSize int
	separators   []string
}

func NewSplitter(chunkSize, chunkOverlap, minChunkSize int) *Splitter {
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		minChunkSize: minChunkSize,
		separators:   defaultSeparators,
	}
}

// Split cuts text into chunks of at most chunkSize characters with
// consecutive chunks sharing up to chunkOverlap characters. Chunks whose
// trimmed length is <= minChunkSize are discarded, not re-merged. Splitting
// is a pure function of the input: the same text always yields the same
// chunk sequence.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := s.splitRecursive(text, s.separators)

	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		if len(strings.TrimSpace(c)) > s.minChunkSize {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

func (s *Splitter) splitRecursive(text string, separators []string) []string {
	sep := ""
	var remaining []string
	for i, candidate := range separators {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			remaining = separators[i+1:]
			break
		}
	}

	pieces := splitKeep(text, sep)

	var final []string
	var good []string
	for _, p := range pieces {
		if len(p) <= s.chunkSize {
			good = append(good, p)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		// piece still too big, go one separator finer
		final = append(final, s.splitRecursive(p, remaining)...)
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// splitKeep splits on sep keeping the separator attached to the preceding
// piece, so joining pieces back with "" reconstructs the original text.
// An empty sep splits into individual characters (the last resort).
func splitKeep(text string, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// merge packs small pieces into chunks up to chunkSize, carrying the last
// pieces over into the next chunk until the overlap budget is spent.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	windowLen := 0

	flush := func() {
		joined := strings.TrimSpace(strings.Join(window, ""))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, p := range pieces {
		if windowLen+len(p) > s.chunkSize && windowLen > 0 {
			flush()
			for windowLen > s.chunkOverlap || (windowLen+len(p) > s.chunkSize && windowLen > 0) {
				windowLen -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		windowLen += len(p)
	}
	if windowLen > 0 {
		flush()
	}
	return chunks
}
