package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/mycok/uLookup/linkgraph/graph"
	"github.com/mycok/uLookup/textindexer/index"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/importer MiniGraph,MiniIndexer

// MiniGraph should be implemented by objects that can upsert links and edges
// into a link graph instance.
type MiniGraph interface {
	// UpsertLink creates a new or updates an existing link.
	UpsertLink(link *graph.Link) error

	// UpsertEdge creates a new or updates an existing edge.
	UpsertEdge(edge *graph.Edge) error

	// RemoveStaleEdges removes any edge that originates from a specific link ID
	// and was updated before the specified [updatedBefore] time.
	RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error
}

// MiniIndexer should be implemented by objects that can index documents
// retrieved by the dereferencer.
type MiniIndexer interface {
	// Index adds a new document or updates an existing index entry
	// in case of an existing document.
	Index(doc *index.Document) error
}
