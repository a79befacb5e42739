/*
	deref package schedules the dereferencing of single URIs. Requests for
	the same URI are merged through a locked status index, queued work is
	ordered by priority, and finished results are cached until a rederef
	policy asks for a fresh retrieval.
*/

package deref

import (
	"fmt"
	"time"

	"github.com/mycok/uLookup/dict"
)

// DiscoveryKind tells how a discovered URI was found.
type DiscoveryKind uint8

const (
	// DiscoveryUnknown is used when the origin of a URI is not known.
	DiscoveryUnknown DiscoveryKind = iota

	// DiscoveryRedirect marks the target of a redirect. Redirects do not
	// count as a recursion step.
	DiscoveryRedirect

	// DiscoveryLink marks a link found in a retrieved document.
	DiscoveryLink

	// DiscoverySeeAlso marks a "see also" reference such as an alternate
	// link in an HTML document.
	DiscoverySeeAlso

	// DiscoverySearchHit marks a document returned by a URI search.
	DiscoverySearchHit
)

// String returns the lower-case name of the kind.
func (k DiscoveryKind) String() string {
	switch k {
	case DiscoveryUnknown:
		return "unknown"
	case DiscoveryRedirect:
		return "redirect"
	case DiscoveryLink:
		return "link"
	case DiscoverySeeAlso:
		return "see-also"
	case DiscoverySearchHit:
		return "search-hit"
	default:
		return fmt.Sprintf("discovery(%d)", uint8(k))
	}
}

// Discovery is a URI found while processing a result.
type Discovery struct {
	ID   dict.ID
	Kind DiscoveryKind
}

// Link is a reference from a retrieved document to another URI.
type Link struct {
	// Absolute URI of the link target.
	URI string

	// How the link was found. One of DiscoveryLink or DiscoverySeeAlso.
	Kind DiscoveryKind

	// Relation of the link as declared by the document, e.g. "nofollow" or
	// "alternate". Empty for plain links.
	Relation string
}

// Document is the representation retrieved by dereferencing a URI.
type Document struct {
	// The dereferenced URI.
	URI string

	// Target of a redirect. Documents with a redirect carry no content.
	RedirectTo string

	// Content type reported by the server.
	ContentType string

	// Title and text content of the document.
	Title string
	Text  string

	// Links found in the document.
	Links []Link

	// Time at which the document was retrieved.
	RetrievedAt time.Time
}
