package cdb

import (
	"database/sql"
	"fmt"

	"github.com/mycok/uLookup/linkgraph/graph"
)

var (
	_ graph.LinkIterator = (*linkIterator)(nil)
	_ graph.EdgeIterator = (*edgeIterator)(nil)
)

// linkIterator wraps the rows of a link query.
type linkIterator struct {
	rows    *sql.Rows
	lastErr error
	link    *graph.Link
}

// Next loads the next item, returns false when no more documents
// are available or when an error occurs.
func (i *linkIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	l := new(graph.Link)
	if i.lastErr = i.rows.Scan(&l.ID, &l.URL, &l.RetrievedAt); i.lastErr != nil {
		return false
	}

	l.RetrievedAt = l.RetrievedAt.UTC()
	i.link = l

	return true
}

// Error returns the last error encountered by the iterator.
func (i *linkIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *linkIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("link iterator: %w", err)
	}

	return nil
}

// Link returns the currently fetched link object.
func (i *linkIterator) Link() *graph.Link {
	return i.link
}

// edgeIterator wraps the rows of an edge query.
type edgeIterator struct {
	rows    *sql.Rows
	lastErr error
	edge    *graph.Edge
}

// Next advances the iterator. When no items are available or when an
// error occurs, calls to Next() return false.
func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	e := new(graph.Edge)
	if i.lastErr = i.rows.Scan(
		&e.ID, &e.Src, &e.Dest, &e.Relation, &e.UpdatedAt,
	); i.lastErr != nil {

		return false
	}

	e.UpdatedAt = e.UpdatedAt.UTC()
	i.edge = e

	return true
}

// Error returns the last error recorded by the iterator.
func (i *edgeIterator) Error() error {
	return i.lastErr
}

// Close releases any resources linked to the iterator.
func (i *edgeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("edge iterator: %w", err)
	}

	return nil
}

// Edge returns the currently fetched edge object.
func (i *edgeIterator) Edge() *graph.Edge {
	return i.edge
}
