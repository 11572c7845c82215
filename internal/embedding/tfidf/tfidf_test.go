package tfidf

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

var corpus = []string{
	"please refill my blood pressure medication",
	"your refill request has been approved",
	"lab results are ready for review",
}

func TestEmbedBeforePrepare(t *testing.T) {
	e := New()
	if _, err := e.Embed("anything"); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := New()
	if err := e.Prepare(nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestEmbedIsL2Normalized(t *testing.T) {
	e := New()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	vec, err := e.Embed(corpus[0])
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Fatalf("vector length %d != dimension %d", len(vec), e.Dimension())
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("vector norm = %f, want 1.0", math.Sqrt(norm))
	}
}

func TestEmbedOutOfVocabulary(t *testing.T) {
	e := New()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	vec, err := e.Embed("zzz qqq xxx")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("component %d = %f, want zero vector for unseen terms", i, v)
		}
	}
}

func TestPrepareDeterministic(t *testing.T) {
	a, b := New(), New()
	if err := a.Prepare(corpus); err != nil {
		t.Fatalf("prepare a: %v", err)
	}
	if err := b.Prepare(corpus); err != nil {
		t.Fatalf("prepare b: %v", err)
	}
	if a.Dimension() != b.Dimension() {
		t.Fatalf("dimensions differ: %d vs %d", a.Dimension(), b.Dimension())
	}
	av, _ := a.Embed(corpus[1])
	bv, _ := b.Embed(corpus[1])
	if !reflect.DeepEqual(av, bv) {
		t.Error("identical corpora produced different embeddings")
	}
}

func TestSimilarTextScoresHigher(t *testing.T) {
	e := New()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	q, _ := e.Embed("refill medication")
	refill, _ := e.Embed(corpus[0])
	labs, _ := e.Embed(corpus[2])

	if dot(q, refill) <= dot(q, labs) {
		t.Error("query about refills should be closer to the refill message than to lab results")
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
