/*
	graph package defines the link graph the importer writes dereferenced
	documents into: links keyed by URL and relation-tagged edges between
	them.
*/

package graph

import (
	"time"

	"github.com/google/uuid"
)

// Graph should be implemented by graph data stores / types.
type Graph interface {
	// UpsertLink creates a new or updates an existing link. Links are keyed
	// by URL and the most recent RetrievedAt wins.
	UpsertLink(link *Link) error

	// FindLink performs a link lookup by id.
	FindLink(id uuid.UUID) (*Link, error)

	// FindLinkByURL performs a link lookup by URL.
	FindLinkByURL(url string) (*Link, error)

	// Links returns an iterator for the links whose ids belong to the
	// [fromID, toID) range and were retrieved before retrievedBefore.
	Links(fromID, toID uuid.UUID, retrievedBefore time.Time) (LinkIterator, error)

	// UpsertEdge creates a new or refreshes an existing edge. Edges are
	// identified by their source, destination and relation.
	UpsertEdge(edge *Edge) error

	// RemoveStaleEdges removes the edges that originate from fromID and
	// were updated before updatedBefore.
	RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error

	// Edges returns an iterator for the edges whose source ids belong to
	// the [fromID, toID) range and were updated before updatedBefore.
	Edges(fromID, toID uuid.UUID, updatedBefore time.Time) (EdgeIterator, error)

	// Related returns an iterator for the destinations of the edges that
	// leave src with the given relation.
	Related(src uuid.UUID, relation string) (LinkIterator, error)
}

// LinkIterator is implemented by types that iterate graph links.
type LinkIterator interface {
	Iterator

	// Link returns the currently fetched link object.
	Link() *Link
}

// EdgeIterator is implemented by types that iterate graph edges.
type EdgeIterator interface {
	Iterator

	// Edge returns the currently fetched Edge object.
	Edge() *Edge
}

// Iterator should be embedded / implemented by types that require
// iteration functionality.
type Iterator interface {
	// Next loads the next item, returns false when no more items
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error
}

// Link is a vertex of the graph.
type Link struct {
	ID          uuid.UUID
	URL         string
	RetrievedAt time.Time // zero until the URL has been dereferenced
}

// Edge connects Src to Dest.
type Edge struct {
	ID        uuid.UUID
	Src       uuid.UUID
	Dest      uuid.UUID
	Relation  string // "link", "redirect" or a see-also relation
	UpdatedAt time.Time
}
