// Package tfidf provides a self-contained TF-IDF embedder. It needs no
// external model service: the vocabulary and IDF weights are rebuilt from the
// message corpus on every index rebuild, which keeps the index a pure
// function of the store contents.
package tfidf

import (
	"errors"
	"math"
	"sort"

	"github.com/yashsay/message-app/internal/textutil"
)

// ErrNotPrepared is returned by Embed before Prepare has been called.
var ErrNotPrepared = errors.New("tfidf embedder not prepared")

// ErrEmptyCorpus is returned when Prepare is given nothing to learn from.
var ErrEmptyCorpus = errors.New("empty corpus for tf-idf prepare")

// Embedder vectorizes text as L2-normalized TF-IDF weights over a vocabulary
// learned from a corpus. A prepared Embedder is immutable and safe for
// concurrent Embed calls; build a fresh one per index rebuild.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// New creates an unprepared TF-IDF embedder.
func New() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and smoothed IDF values from the corpus.
// Terms are sorted before index assignment so identical corpora always
// produce identical vector layouts.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range textutil.TokenizeContent(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF keeps terms present in every document at a small
		// positive weight instead of zero.
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector for the given text. Text
// with no in-vocabulary tokens embeds to the zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, ErrNotPrepared
	}

	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range textutil.TokenizeContent(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}

	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}
