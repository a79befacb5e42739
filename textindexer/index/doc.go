package index

import (
	"time"

	"github.com/google/uuid"
)

// Document is the indexed form of a dereferenced document.
type Document struct {
	// ID of the link entry that points to this document.
	LinkID uuid.UUID

	// URL of the document.
	URL string

	// Title of the document (if available).
	Title string

	// Plain text content of the document.
	Content string

	// Mentions lists the URIs the document links or redirects to. They
	// are matched verbatim by mention queries.
	Mentions []string

	// Last time the document was indexed.
	IndexedAt time.Time
}
