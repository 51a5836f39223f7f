package domain

// Chunk is a contiguous slice of a source document used as a retrieval
// unit. Start and End are rune offsets into the document text; adjacent
// chunks from the same document overlap by the chunker's configured
// amount so no semantic boundary is lost at a cut.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
	Start      int
	End        int
}

// ScoredChunk pairs a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is an ordered sequence of scored chunks, at most K
// long, sorted by descending similarity with insertion-order-stable
// ties. Produced fresh per query and never cached across queries.
type RetrievalResult []ScoredChunk

// Texts returns the chunk texts in ranked order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r))
	for i, sc := range r {
		texts[i] = sc.Chunk.Text
	}
	return texts
}
