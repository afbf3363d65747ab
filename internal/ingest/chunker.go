package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

var paragraphBreakRe = regexp.MustCompile(`\n{2,}`)

// sentenceTerminators end a sentence when followed by whitespace.
var sentenceTerminators = map[rune]bool{'.': true, '!': true, '?': true, '。': true}

// SplitChunks splits cleaned text into chunks bounded by targetSize runes,
// then prepends the last overlap runes of the previous chunk to every
// chunk after the first, separated by a blank line. The size bound applies
// to the pre-overlap chunks.
func SplitChunks(text string, targetSize, overlap int) []string {
	base := splitBaseChunks(text, targetSize)
	return applyOverlap(base, overlap)
}

// splitBaseChunks greedily accumulates blank-line-separated paragraphs
// into chunks while the combined length stays under targetSize. A single
// paragraph longer than targetSize is sub-split on sentence boundaries
// with the same greedy rule.
func splitBaseChunks(text string, targetSize int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
		currentLen = 0
	}

	for _, para := range paragraphBreakRe.Split(text, -1) {
		paraLen := len([]rune(para))
		if currentLen+paraLen < targetSize {
			if currentLen > 0 {
				current.WriteString("\n\n")
				currentLen += 2
			}
			current.WriteString(para)
			currentLen += paraLen
			continue
		}

		flush()

		if paraLen <= targetSize {
			current.WriteString(para)
			currentLen = paraLen
			continue
		}

		// Oversized paragraph: accumulate sentences instead.
		for _, sentence := range splitSentences(para) {
			sentenceLen := len([]rune(sentence))
			if currentLen+sentenceLen < targetSize {
				if currentLen > 0 {
					current.WriteString(" ")
					currentLen++
				}
				current.WriteString(sentence)
				currentLen += sentenceLen
			} else {
				flush()
				current.WriteString(sentence)
				currentLen = sentenceLen
			}
		}
	}

	flush()
	return chunks
}

// splitSentences splits a paragraph after sentence-terminating punctuation
// followed by whitespace. The terminator stays with its sentence; the
// separating whitespace is dropped. A sentence longer than any target
// size is returned whole: sentences are the smallest split unit.
func splitSentences(para string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(para)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if sentenceTerminators[runes[i]] && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, current.String())
			current.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// applyOverlap prepends the tail of each previous pre-overlap chunk to the
// next chunk. Chunks whose predecessor is shorter than the overlap window
// are left as-is: a full-chunk prefix would just duplicate the neighbor.
func applyOverlap(chunks []string, overlap int) []string {
	if overlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	overlapped := make([]string, len(chunks))
	for i, chunk := range chunks {
		if i > 0 {
			prev := []rune(chunks[i-1])
			if len(prev) > overlap {
				chunk = string(prev[len(prev)-overlap:]) + "\n\n" + chunk
			}
		}
		overlapped[i] = chunk
	}
	return overlapped
}
