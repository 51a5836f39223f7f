package domain

// Query is a single natural-language request. Immutable once received;
// nothing about it is persisted beyond the request lifetime.
type Query struct {
	Text string
}

// Route tags a query with the handler that should serve it.
type Route string

const (
	// RouteWeather sends the query to the live weather lookup.
	RouteWeather Route = "weather"
	// RouteDocumentQA sends the query through retrieval + synthesis.
	// This is the fallback when no cue set wins: the corpus path can
	// report "not found" gracefully, a weather lookup cannot.
	RouteDocumentQA Route = "document_qa"
)

// Provenance identifies which handler produced an Answer.
type Provenance string

const (
	// ProvenanceWeather marks answers backed by a weather report.
	ProvenanceWeather Provenance = "weather"
	// ProvenanceDocumentQA marks answers backed by retrieved chunks.
	ProvenanceDocumentQA Provenance = "document_qa"
)

// Answer is the final response for one query. Retrieval is set for
// document-QA answers, Weather for weather answers; a degraded answer
// (failed lookup, empty corpus) carries neither.
type Answer struct {
	Text       string
	Provenance Provenance
	Retrieval  RetrievalResult
	Weather    *WeatherReport
}
