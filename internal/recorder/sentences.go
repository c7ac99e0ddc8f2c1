package recorder

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// A sentence is a run of non-terminal characters closed by one or more of
// . ! ?  Trailing text without terminal punctuation is not a sentence.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

const (
	// minSentenceLength is exclusive: a sentence needs more runes than this.
	minSentenceLength = 10
	// maxScanCandidates bounds the random pick of a page scan to the top of the page.
	maxScanCandidates = 5
)

// ExtractSentences returns the trimmed sentences of text that are longer than
// ten characters, in document order.
func ExtractSentences(text string) []string {
	var out []string
	for _, m := range sentencePattern.FindAllString(text, -1) {
		s := strings.TrimSpace(m)
		if utf8.RuneCountInString(s) > minSentenceLength {
			out = append(out, s)
		}
	}
	return out
}

// FirstSentence returns the first qualifying sentence of a selection.
func FirstSentence(text string) (string, bool) {
	sentences := ExtractSentences(text)
	if len(sentences) == 0 {
		return "", false
	}
	return sentences[0], true
}

// PickForScan chooses uniformly among the first five sentences. intn must
// behave like rand.IntN.
func PickForScan(sentences []string, intn func(int) int) (string, bool) {
	n := min(len(sentences), maxScanCandidates)
	if n == 0 {
		return "", false
	}
	return sentences[intn(n)], true
}
