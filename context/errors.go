package context

import "errors"

// Document loading errors
var (
	// ErrDocumentTooLarge indicates a document exceeds the size cap.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrBinaryDocument indicates a document is not plain text.
	ErrBinaryDocument = errors.New("document is not plain text")
)
