package services

import "errors"

// Error taxonomy shared by the ingest, search, and summarize services.
// Handlers dispatch on these with errors.Is to pick HTTP status codes.
var (
	// ErrValidation marks a malformed incoming payload, rejected before any
	// mutation.
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks a store read/write failure; the bulk update aborts
	// with no partial merge committed.
	ErrStorage = errors.New("storage failure")

	// ErrPostProcessing marks a flatten/index rebuild failure after the
	// store write already committed: data is saved but search is stale.
	ErrPostProcessing = errors.New("post-processing failed")

	// ErrIndexBuild marks an embedding or index persistence failure.
	ErrIndexBuild = errors.New("index build failed")

	// ErrNotReady marks a query against an index that has never been built.
	ErrNotReady = errors.New("search index not ready")

	// ErrNotFound marks a request for a conversation that does not exist.
	ErrNotFound = errors.New("conversation not found")
)
