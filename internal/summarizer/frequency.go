// Package summarizer produces extractive summaries of conversation messages
// using word-frequency scoring. The summary is composed of original message
// texts, never generated text.
package summarizer

import (
	"sort"
	"strings"

	"github.com/yashsay/message-app/internal/textutil"
)

// Frequency ranks message texts by cumulative word frequency and extracts
// the top-scoring ones, plus the most frequent content words as highlights.
// Deterministic for a fixed input sequence.
type Frequency struct {
	maxSentences  int
	maxHighlights int
	minTermLength int
}

// NewFrequency creates a summarizer that keeps up to maxSentences message
// texts and up to maxHighlights highlight terms.
func NewFrequency(maxSentences, maxHighlights int) *Frequency {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	if maxHighlights <= 0 {
		maxHighlights = 5
	}
	return &Frequency{
		maxSentences:  maxSentences,
		maxHighlights: maxHighlights,
		minTermLength: 4,
	}
}

// Summarize scores each text by the corpus-wide frequency of its content
// words, selects the top-scoring texts (kept in their original order), and
// returns them joined as the summary along with highlight terms. Stopwords
// never contribute to scores or highlights.
func (f *Frequency) Summarize(texts []string) (string, []string) {
	if len(texts) == 0 {
		return "", nil
	}

	freq := make(map[string]int)
	for _, text := range texts {
		for _, tok := range textutil.TokenizeContent(text) {
			freq[tok]++
		}
	}

	type scored struct {
		idx   int
		score int
	}
	scores := make([]scored, len(texts))
	for i, text := range texts {
		total := 0
		for _, tok := range textutil.TokenizeContent(text) {
			total += freq[tok]
		}
		scores[i] = scored{idx: i, score: total}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	keep := f.maxSentences
	if keep > len(scores) {
		keep = len(scores)
	}
	selected := make([]int, keep)
	for i := 0; i < keep; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	parts := make([]string, 0, keep)
	for _, idx := range selected {
		if t := strings.TrimSpace(texts[idx]); t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " "), f.highlights(freq)
}

// highlights returns the most frequent content words longer than the minimum
// term length, most frequent first, ties alphabetical.
func (f *Frequency) highlights(freq map[string]int) []string {
	terms := make([]string, 0, len(freq))
	for term := range freq {
		if len([]rune(term)) >= f.minTermLength {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > f.maxHighlights {
		terms = terms[:f.maxHighlights]
	}
	return terms
}
