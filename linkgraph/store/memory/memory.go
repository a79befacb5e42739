package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mycok/uLookup/linkgraph/graph"
)

// Static and compile-time check to ensure InMemoryGraph implements
// Graph interface.
var _ graph.Graph = (*InMemoryGraph)(nil)

// edgeList contains the ids of the edges that originate from a link.
type edgeList []uuid.UUID

// InMemoryGraph implements an in-memory link and edge graph that can be
// concurrently accessed by multiple clients.
type InMemoryGraph struct {
	mu            sync.RWMutex
	links         map[uuid.UUID]*graph.Link
	edges         map[uuid.UUID]*graph.Edge
	linkURLIndex  map[string]*graph.Link
	linkToEdgeMap map[uuid.UUID]edgeList
}

// NewInMemoryGraph creates a new in-memory link graph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		links:         make(map[uuid.UUID]*graph.Link),
		edges:         make(map[uuid.UUID]*graph.Edge),
		linkURLIndex:  make(map[string]*graph.Link),
		linkToEdgeMap: make(map[uuid.UUID]edgeList),
	}
}

// UpsertLink creates a new or updates an existing link.
func (s *InMemoryGraph) UpsertLink(link *graph.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An upsert for a known URL keeps the existing id and the most recent
	// RetrievedAt value.
	if existing, exists := s.linkURLIndex[link.URL]; exists {
		link.ID = existing.ID
		if link.RetrievedAt.After(existing.RetrievedAt) {
			existing.RetrievedAt = link.RetrievedAt
		}
		link.RetrievedAt = existing.RetrievedAt

		return nil
	}

	for {
		link.ID = uuid.New()
		if _, exists := s.links[link.ID]; !exists {
			break
		}
	}

	lCopy := new(graph.Link)
	*lCopy = *link

	s.links[lCopy.ID] = lCopy
	s.linkURLIndex[lCopy.URL] = lCopy

	return nil
}

// FindLink performs a link lookup by id.
func (s *InMemoryGraph) FindLink(id uuid.UUID) (*graph.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.links[id]
	if !exists {
		return nil, fmt.Errorf("find link: %w", graph.ErrNotFound)
	}

	lCopy := new(graph.Link)
	*lCopy = *l

	return lCopy, nil
}

// FindLinkByURL performs a link lookup by URL.
func (s *InMemoryGraph) FindLinkByURL(url string) (*graph.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.linkURLIndex[url]
	if !exists {
		return nil, fmt.Errorf("find link by url: %w", graph.ErrNotFound)
	}

	lCopy := new(graph.Link)
	*lCopy = *l

	return lCopy, nil
}

// Links returns an iterator for the links whose ids belong to the
// [fromID, toID) range and were retrieved before retrievedBefore.
func (s *InMemoryGraph) Links(
	fromID, toID uuid.UUID, retrievedBefore time.Time,
) (graph.LinkIterator, error) {

	from, to := fromID.String(), toID.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*graph.Link
	for id, link := range s.links {
		idString := id.String()
		if idString >= from && idString < to && link.RetrievedAt.Before(retrievedBefore) {
			list = append(list, link)
		}
	}

	return &linkIterator{store: s, links: list}, nil
}

// UpsertEdge creates a new or refreshes an existing edge.
func (s *InMemoryGraph) UpsertEdge(edge *graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, srcExists := s.links[edge.Src]
	_, destExists := s.links[edge.Dest]
	if !srcExists || !destExists {
		return fmt.Errorf("upsert edge: %w", graph.ErrUnknownEdgeLinks)
	}

	for _, edgeID := range s.linkToEdgeMap[edge.Src] {
		existing := s.edges[edgeID]
		if existing.Dest == edge.Dest && existing.Relation == edge.Relation {
			existing.UpdatedAt = time.Now()
			*edge = *existing

			return nil
		}
	}

	for {
		edge.ID = uuid.New()
		if _, exists := s.edges[edge.ID]; !exists {
			break
		}
	}

	edge.UpdatedAt = time.Now()
	eCopy := new(graph.Edge)
	*eCopy = *edge

	s.edges[eCopy.ID] = eCopy
	s.linkToEdgeMap[eCopy.Src] = append(s.linkToEdgeMap[eCopy.Src], eCopy.ID)

	return nil
}

// RemoveStaleEdges removes the edges that originate from fromID and were
// updated before updatedBefore.
func (s *InMemoryGraph) RemoveStaleEdges(
	fromID uuid.UUID, updatedBefore time.Time,
) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	var kept edgeList
	for _, id := range s.linkToEdgeMap[fromID] {
		if s.edges[id].UpdatedAt.Before(updatedBefore) {
			delete(s.edges, id)

			continue
		}

		kept = append(kept, id)
	}

	s.linkToEdgeMap[fromID] = kept

	return nil
}

// Edges returns an iterator for the edges whose source ids belong to the
// [fromID, toID) range and were updated before updatedBefore.
func (s *InMemoryGraph) Edges(
	fromID, toID uuid.UUID, updatedBefore time.Time,
) (graph.EdgeIterator, error) {

	from, to := fromID.String(), toID.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*graph.Edge
	for id := range s.links {
		linkID := id.String()
		if linkID < from || linkID >= to {
			continue
		}

		for _, edgeID := range s.linkToEdgeMap[id] {
			if edge := s.edges[edgeID]; edge.UpdatedAt.Before(updatedBefore) {
				list = append(list, edge)
			}
		}
	}

	return &edgeIterator{store: s, edges: list}, nil
}

// Related returns an iterator for the destinations of the edges that leave
// src with the given relation, in insertion order.
func (s *InMemoryGraph) Related(src uuid.UUID, relation string) (graph.LinkIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*graph.Link
	for _, edgeID := range s.linkToEdgeMap[src] {
		if edge := s.edges[edgeID]; edge.Relation == relation {
			list = append(list, s.links[edge.Dest])
		}
	}

	return &linkIterator{store: s, links: list}, nil
}
