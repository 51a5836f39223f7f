package indexer

import (
	"fmt"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// Chunker splits document text into an ordered sequence of overlapping
// chunks. Splitting is deterministic: the same text and (size,
// overlap) pair always yield identical boundaries.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the (size, overlap) pair. Overlap must be
// smaller than size or the window would never advance.
func NewChunker(size, overlap int) (Chunker, error) {
	if size <= 0 {
		return Chunker{}, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return Chunker{}, fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return Chunker{size: size, overlap: overlap}, nil
}

// Split partitions text into chunks of at most size runes, each chunk
// after the first starting size-overlap runes into the previous span,
// so consecutive chunks share exactly overlap runes. The last chunk
// may be shorter. Empty text yields no chunks.
func (c Chunker) Split(docID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk

	for start, idx := 0, 0; start < len(runes); start, idx = start+step, idx+1 {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: docID,
			Index:      idx,
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
