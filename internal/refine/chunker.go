package refine

import "github.com/nguyentantai21042004/lecture-flow/internal/subtitle"

// SplitChunks groups entries into contiguous chunks of at most maxEntries
// entries spanning at most maxDuration seconds of timeline, whichever limit
// closes the chunk first. Entries are never split; a single entry longer
// than maxDuration still forms a chunk of its own. A limit of zero or less
// disables that limit.
func SplitChunks(entries []subtitle.Entry, maxEntries int, maxDuration float64) []Chunk {
	if len(entries) == 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = len(entries)
	}

	var chunks []Chunk
	start := 0
	for start < len(entries) {
		first := entries[start].Start
		end := start + 1
		for end < len(entries) {
			if end-start >= maxEntries {
				break
			}
			if maxDuration > 0 && entries[end].End-first > maxDuration {
				break
			}
			end++
		}
		chunks = append(chunks, Chunk{Ordinal: len(chunks), Entries: entries[start:end]})
		start = end
	}
	return chunks
}
