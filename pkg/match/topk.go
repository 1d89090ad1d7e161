package match

import (
	"runtime"
	"sort"
)

// scored pairs a corpus index with its similarity score. The index doubles
// as the tie-breaker so that equal scores rank identically on every call,
// which keeps paginated result sets disjoint.
type scored struct {
	idx   int
	score float32
}

func (a scored) better(b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.idx < b.idx
}

// scanChunk scans corpus vectors [startIdx, endIdx) against the query and
// returns the local top-n, ordered best first. Bounded partial selection
// with bubble-up insert: the tail beyond n is never sorted.
func scanChunk(data []float32, dim int, query []float32, startIdx, endIdx, n int) []scored {
	topN := make([]scored, 0, n)

	for idx := startIdx; idx < endIdx; idx++ {
		offset := idx * dim
		cand := scored{idx: idx, score: dotProduct(query, data[offset:offset+dim])}

		if len(topN) < n {
			topN = append(topN, cand)
			for i := len(topN) - 1; i > 0; i-- {
				if topN[i].better(topN[i-1]) {
					topN[i], topN[i-1] = topN[i-1], topN[i]
				} else {
					break
				}
			}
		} else if cand.better(topN[n-1]) {
			topN[n-1] = cand
			for i := n - 1; i > 0; i-- {
				if topN[i].better(topN[i-1]) {
					topN[i], topN[i-1] = topN[i-1], topN[i]
				} else {
					break
				}
			}
		}
	}

	return topN
}

// scanTopN runs a parallel linear scan over the flat vector buffer and
// returns the global top-n as (index, score) pairs, best first.
func scanTopN(data []float32, dim, numVectors int, query []float32, n int) []scored {
	if n <= 0 || numVectors == 0 {
		return nil
	}
	if n > numVectors {
		n = numVectors
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > numVectors {
		numWorkers = numVectors
	}
	perWorker := (numVectors + numWorkers - 1) / numWorkers

	resultCh := make(chan []scored, numWorkers)
	actualWorkers := 0
	for i := 0; i < numWorkers; i++ {
		start := i * perWorker
		end := start + perWorker
		if end > numVectors {
			end = numVectors
		}
		if start >= end {
			break
		}

		actualWorkers++
		go func(start, end int) {
			resultCh <- scanChunk(data, dim, query, start, end, n)
		}(start, end)
	}

	merged := make([]scored, 0, n*actualWorkers)
	for i := 0; i < actualWorkers; i++ {
		merged = append(merged, <-resultCh...)
	}
	close(resultCh)

	// Only the merged candidates get sorted, never the full corpus.
	sort.Slice(merged, func(i, j int) bool { return merged[i].better(merged[j]) })
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged
}
