package domain

import "errors"

var (
	// ErrPlaceNotFound signals the weather source does not recognize
	// the place. Not retry-eligible.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrWeatherUnavailable signals a transient weather source failure
	// (timeout, network error, bad response). Retry-eligible, at most once.
	ErrWeatherUnavailable = errors.New("weather source unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexBuild signals index construction failed; a partial index
	// is never exposed.
	ErrIndexBuild = errors.New("index build failed")
	// ErrIndexNotReady signals no index is available for document QA.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrRetrieval signals retrieval could not even be attempted,
	// as opposed to retrieval finding nothing.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a language model call failure. Never
	// silently replaced by fabricated content.
	ErrGeneration = errors.New("generation failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
