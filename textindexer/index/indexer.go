// Package index defines the text index the importer feeds and the search
// query processor reads.
package index

import "github.com/google/uuid"

// Indexer should be implemented by objects that can index and search
// documents.
type Indexer interface {
	// Index adds a new document or replaces an existing one.
	Index(doc *Document) error

	// FindByID looks up a document by its link ID.
	FindByID(linkID uuid.UUID) (*Document, error)

	// Search runs q and returns an iterator over the matching documents.
	Search(q Query) (Iterator, error)
}

// Iterator should be implemented by objects that can paginate search
// results.
type Iterator interface {
	// Next loads the next item, returns false when no more items
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error

	// Document returns the current document from the result set.
	Document() *Document

	// TotalCount returns the approximated total number of search results.
	TotalCount() uint64
}

// QueryType selects how the query expression is interpreted.
type QueryType uint8

const (
	// QueryTypeMatch matches documents whose title or content contain
	// some of the terms of the expression.
	QueryTypeMatch QueryType = iota

	// QueryTypePhrase matches documents whose title or content contain
	// the expression as a phrase.
	QueryTypePhrase

	// QueryTypeMention matches documents that mention the expression, a
	// URI, verbatim.
	QueryTypeMention
)

// Query describes a search.
type Query struct {
	Type       QueryType
	Expression string
	Offset     uint64 // number of results to skip
}
