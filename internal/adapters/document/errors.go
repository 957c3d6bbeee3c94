package document

import "errors"

// Sentinel kinds for document errors.
var (
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrCorruptDocument     = errors.New("document could not be parsed")
	ErrDocumentTooLarge    = errors.New("document too large")
)
