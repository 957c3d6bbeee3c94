package resume

import "errors"

// ErrUnreadableDocument is returned when the extracted text is too short to
// be a résumé.
var ErrUnreadableDocument = errors.New("document text is unreadable or too short")
