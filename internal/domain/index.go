package domain

// VectorIndex answers nearest-neighbor similarity queries over stored
// chunks. Implementations must rank by descending cosine similarity
// with insertion-order-stable ties, and must be safe for concurrent
// reads.
type VectorIndex interface {
	Insert(chunk Chunk, vec []float32) error
	Search(vec []float32, k int) (RetrievalResult, error)
	Len() int
}
