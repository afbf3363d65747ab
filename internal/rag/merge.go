package rag

import "sort"

const (
	// fingerprintLen is the dedup key length: two chunks sharing the same
	// 100-character content prefix are treated as duplicates regardless of
	// origin. Cheap and order-sensitive; chunks that share a long common
	// prefix can false-positive merge, which is an accepted precision
	// trade-off.
	fingerprintLen = 100

	// The weighting favors the semantic signal over the lexical one while
	// letting lexical matches boost items the vector search also found.
	// Tunable policy, not a derived constant.
	vectorWeight  = 0.7
	lexicalWeight = 0.3
)

// fingerprint returns the dedup key for a candidate's content.
func fingerprint(content string) string {
	runes := []rune(content)
	if len(runes) > fingerprintLen {
		runes = runes[:fingerprintLen]
	}
	return string(runes)
}

// mergeResults deduplicates and linearly combines vector and lexical
// result sets into one ranked candidate list. Vector results enter at
// similarity×0.7; lexical results enter at similarity×0.3, accumulating
// onto an existing entry when their fingerprint was already seen.
func mergeResults(vectorResults, lexicalResults []Candidate) []Candidate {
	indexByKey := make(map[string]int)
	merged := make([]Candidate, 0, len(vectorResults)+len(lexicalResults))

	for _, candidate := range vectorResults {
		key := fingerprint(candidate.Content)
		if _, dup := indexByKey[key]; dup {
			continue
		}
		candidate.Similarity *= vectorWeight
		indexByKey[key] = len(merged)
		merged = append(merged, candidate)
	}

	for _, candidate := range lexicalResults {
		key := fingerprint(candidate.Content)
		if i, dup := indexByKey[key]; dup {
			merged[i].Similarity += candidate.Similarity * lexicalWeight
			continue
		}
		candidate.Similarity *= lexicalWeight
		indexByKey[key] = len(merged)
		merged = append(merged, candidate)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	return merged
}
