package rag

import (
	"math"
	"strings"
	"testing"
)

func TestMergeResultsWeighting(t *testing.T) {
	vector := []Candidate{{ID: "v1", Content: "vector only content", Similarity: 0.9}}
	lexical := []Candidate{{ID: "l1", Content: "lexical only content", Similarity: 0.8}}

	merged := mergeResults(vector, lexical)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged candidates, got %d", len(merged))
	}

	if math.Abs(merged[0].Similarity-0.9*vectorWeight) > 1e-9 {
		t.Errorf("vector candidate score = %f, want %f", merged[0].Similarity, 0.9*vectorWeight)
	}
	if math.Abs(merged[1].Similarity-0.8*lexicalWeight) > 1e-9 {
		t.Errorf("lexical candidate score = %f, want %f", merged[1].Similarity, 0.8*lexicalWeight)
	}
}

func TestMergeResultsAccumulatesSharedContent(t *testing.T) {
	content := "the same chunk surfaced by both retrieval paths"
	vector := []Candidate{{ID: "v1", Content: content, Similarity: 0.6}}
	lexical := []Candidate{{ID: "l1", Content: content, Similarity: 0.5}}

	merged := mergeResults(vector, lexical)
	if len(merged) != 1 {
		t.Fatalf("expected shared content to merge into 1 candidate, got %d", len(merged))
	}

	want := 0.6*vectorWeight + 0.5*lexicalWeight
	if math.Abs(merged[0].Similarity-want) > 1e-9 {
		t.Errorf("accumulated score = %f, want %f", merged[0].Similarity, want)
	}
}

func TestMergeResultsFingerprintPrefix(t *testing.T) {
	// Identical first 100 runes, different tails: treated as duplicates.
	prefix := strings.Repeat("가", fingerprintLen)
	vector := []Candidate{{ID: "v1", Content: prefix + " tail one", Similarity: 0.9}}
	lexical := []Candidate{{ID: "l1", Content: prefix + " tail two", Similarity: 0.9}}

	merged := mergeResults(vector, lexical)
	if len(merged) != 1 {
		t.Fatalf("expected prefix-duplicate candidates to merge, got %d", len(merged))
	}
	if merged[0].ID != "v1" {
		t.Errorf("merged candidate should keep the vector entry, got %q", merged[0].ID)
	}
}

func TestMergeResultsSortedDescending(t *testing.T) {
	vector := []Candidate{
		{ID: "low", Content: "low scoring vector hit", Similarity: 0.2},
		{ID: "high", Content: "high scoring vector hit", Similarity: 0.95},
	}
	lexical := []Candidate{{ID: "mid", Content: "strong lexical hit", Similarity: 1.0}}

	merged := mergeResults(vector, lexical)
	for i := 1; i < len(merged); i++ {
		if merged[i].Similarity > merged[i-1].Similarity {
			t.Fatalf("merged results not sorted descending at index %d", i)
		}
	}
	if merged[0].ID != "high" {
		t.Errorf("expected highest vector hit first, got %q", merged[0].ID)
	}
}

func TestMergeResultsDuplicateVectorEntriesDropped(t *testing.T) {
	content := "duplicate vector content"
	vector := []Candidate{
		{ID: "v1", Content: content, Similarity: 0.9},
		{ID: "v2", Content: content, Similarity: 0.8},
	}

	merged := mergeResults(vector, nil)
	if len(merged) != 1 {
		t.Fatalf("expected duplicate vector entries to collapse, got %d", len(merged))
	}
	if merged[0].ID != "v1" {
		t.Errorf("expected first occurrence kept, got %q", merged[0].ID)
	}
}
