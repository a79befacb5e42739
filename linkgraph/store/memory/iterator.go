package memory

import "github.com/mycok/uLookup/linkgraph/graph"

var (
	_ graph.LinkIterator = (*linkIterator)(nil)
	_ graph.EdgeIterator = (*edgeIterator)(nil)
)

// linkIterator is a graph.LinkIterator implementation for the in-memory graph.
type linkIterator struct {
	store        *InMemoryGraph // guards reads of the shared links
	links        []*graph.Link
	currentIndex int
}

// Next loads the next item, returns false when no more links
// are available or when an error occurs.
func (i *linkIterator) Next() bool {
	if i.currentIndex >= len(i.links) {
		return false
	}

	i.currentIndex++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *linkIterator) Error() error {
	return nil
}

// Close releases any resources allocated to the iterator.
func (i *linkIterator) Close() error {
	return nil
}

// Link returns the currently fetched link object.
func (i *linkIterator) Link() *graph.Link {
	// Upserts mutate links in place.
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()

	l := new(graph.Link)
	*l = *i.links[i.currentIndex-1]

	return l
}

// edgeIterator is a graph.EdgeIterator implementation for the in-memory graph.
type edgeIterator struct {
	store        *InMemoryGraph
	edges        []*graph.Edge
	currentIndex int
}

// Next advances the iterator. When no edges are available or when an
// error occurs, calls to Next() return false.
func (i *edgeIterator) Next() bool {
	if i.currentIndex >= len(i.edges) {
		return false
	}

	i.currentIndex++

	return true
}

// Error returns the last error recorded by the iterator.
func (i *edgeIterator) Error() error {
	return nil
}

// Close releases any resources linked to the iterator.
func (i *edgeIterator) Close() error {
	return nil
}

// Edge returns the currently fetched edge object.
func (i *edgeIterator) Edge() *graph.Edge {
	// Upserts mutate edges in place.
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()

	e := new(graph.Edge)
	*e = *i.edges[i.currentIndex-1]

	return e
}
