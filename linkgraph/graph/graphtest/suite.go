// Package graphtest holds a conformance suite for graph.Graph
// implementations.
package graphtest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/linkgraph/graph"
)

var maxUUID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

// BaseSuite defines a set of re-usable graph-related tests that can
// be executed against any concrete type that implements the graph.Graph interface.
type BaseSuite struct {
	g graph.Graph
}

// SetGraph configures the test-suite to run all tests against an instance
// of graph.Graph.
func (s *BaseSuite) SetGraph(g graph.Graph) {
	s.g = g
}

// TestLinkUpsert verifies the link upsert logic.
func (s *BaseSuite) TestLinkUpsert(c *check.C) {
	original := &graph.Link{URL: "https://example.com"}
	c.Assert(s.g.UpsertLink(original), check.IsNil)
	c.Assert(original.ID, check.Not(check.Equals), uuid.Nil)

	retrievedAt := time.Now().Truncate(time.Second).UTC()
	updated := &graph.Link{URL: original.URL, RetrievedAt: retrievedAt}
	c.Assert(s.g.UpsertLink(updated), check.IsNil)
	c.Assert(updated.ID, check.Equals, original.ID, check.Commentf("ID changed during upsert"))

	stored, err := s.g.FindLink(original.ID)
	c.Assert(err, check.IsNil)
	c.Assert(stored.RetrievedAt.Equal(retrievedAt), check.Equals, true)

	// An older RetrievedAt never overwrites a newer one.
	older := &graph.Link{URL: original.URL, RetrievedAt: retrievedAt.Add(-10 * time.Hour)}
	c.Assert(s.g.UpsertLink(older), check.IsNil)
	c.Assert(older.ID, check.Equals, original.ID)
	c.Assert(older.RetrievedAt.Equal(retrievedAt), check.Equals, true)

	stored, err = s.g.FindLink(original.ID)
	c.Assert(err, check.IsNil)
	c.Assert(stored.RetrievedAt.Equal(retrievedAt), check.Equals, true)
}

// TestFindLink verifies the link lookups by id and URL.
func (s *BaseSuite) TestFindLink(c *check.C) {
	link := &graph.Link{URL: "https://example.com/a", RetrievedAt: time.Now().Truncate(time.Second).UTC()}
	c.Assert(s.g.UpsertLink(link), check.IsNil)

	byID, err := s.g.FindLink(link.ID)
	c.Assert(err, check.IsNil)
	c.Assert(byID.URL, check.Equals, link.URL)

	byURL, err := s.g.FindLinkByURL(link.URL)
	c.Assert(err, check.IsNil)
	c.Assert(byURL.ID, check.Equals, link.ID)
	c.Assert(byURL.RetrievedAt.Equal(link.RetrievedAt), check.Equals, true)

	_, err = s.g.FindLink(uuid.New())
	c.Assert(errors.Is(err, graph.ErrNotFound), check.Equals, true)

	_, err = s.g.FindLinkByURL("https://example.com/missing")
	c.Assert(errors.Is(err, graph.ErrNotFound), check.Equals, true)
}

// TestLinksRetrievedBefore verifies that link iteration honours the
// retrieval cut-off.
func (s *BaseSuite) TestLinksRetrievedBefore(c *check.C) {
	now := time.Now().Truncate(time.Second).UTC()

	stale := &graph.Link{URL: "https://example.com/stale", RetrievedAt: now.Add(-2 * time.Hour)}
	fresh := &graph.Link{URL: "https://example.com/fresh", RetrievedAt: now}
	never := &graph.Link{URL: "https://example.com/never"}
	for _, l := range []*graph.Link{stale, fresh, never} {
		c.Assert(s.g.UpsertLink(l), check.IsNil)
	}

	it, err := s.g.Links(uuid.Nil, maxUUID, now.Add(-time.Hour))
	c.Assert(err, check.IsNil)

	c.Assert(collectLinkURLs(c, it), check.DeepEquals, map[string]bool{
		stale.URL: true,
		never.URL: true,
	})
}

// TestConcurrentLinkIterators ensures that multiple clients can concurrently
// iterate the store.
func (s *BaseSuite) TestConcurrentLinkIterators(c *check.C) {
	const numOfIterators, numOfLinks = 10, 100

	for i := 0; i < numOfLinks; i++ {
		c.Assert(s.g.UpsertLink(&graph.Link{URL: fmt.Sprint(i)}), check.IsNil)
	}

	var wg sync.WaitGroup
	wg.Add(numOfIterators)

	for i := 0; i < numOfIterators; i++ {
		go func(id int) {
			defer wg.Done()

			it, err := s.g.Links(uuid.Nil, maxUUID, time.Now())
			c.Check(err, check.IsNil)
			if err != nil {
				return
			}

			c.Check(collectLinkURLs(c, it), check.HasLen, numOfLinks, check.Commentf("iterator %d", id))
		}(i)
	}

	waitOrFail(c, &wg)
}

// TestEdgeUpsert verifies that edges are identified by source,
// destination and relation.
func (s *BaseSuite) TestEdgeUpsert(c *check.C) {
	src, dest := s.upsertLink(c, "https://example.com/src"), s.upsertLink(c, "https://example.com/dest")

	link := &graph.Edge{Src: src, Dest: dest, Relation: "link"}
	c.Assert(s.g.UpsertEdge(link), check.IsNil)
	c.Assert(link.ID, check.Not(check.Equals), uuid.Nil)
	c.Assert(link.UpdatedAt.IsZero(), check.Equals, false)

	refreshed := &graph.Edge{Src: src, Dest: dest, Relation: "link"}
	c.Assert(s.g.UpsertEdge(refreshed), check.IsNil)
	c.Assert(refreshed.ID, check.Equals, link.ID, check.Commentf("edge ID changed while upserting"))
	c.Assert(refreshed.UpdatedAt.Before(link.UpdatedAt), check.Equals, false)

	seeAlso := &graph.Edge{Src: src, Dest: dest, Relation: "seealso"}
	c.Assert(s.g.UpsertEdge(seeAlso), check.IsNil)
	c.Assert(seeAlso.ID, check.Not(check.Equals), link.ID)

	err := s.g.UpsertEdge(&graph.Edge{Src: src, Dest: uuid.New(), Relation: "link"})
	c.Assert(errors.Is(err, graph.ErrUnknownEdgeLinks), check.Equals, true)

	it, err := s.g.Edges(uuid.Nil, maxUUID, time.Now().Add(time.Minute))
	c.Assert(err, check.IsNil)

	relations := make(map[string]bool)
	for it.Next() {
		relations[it.Edge().Relation] = true
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)
	c.Assert(relations, check.DeepEquals, map[string]bool{"link": true, "seealso": true})
}

// TestRemoveStaleEdges verifies that only edges updated before the cut-off
// are removed.
func (s *BaseSuite) TestRemoveStaleEdges(c *check.C) {
	src := s.upsertLink(c, "https://example.com/src")
	a, b := s.upsertLink(c, "https://example.com/a"), s.upsertLink(c, "https://example.com/b")

	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: src, Dest: a, Relation: "link"}), check.IsNil)

	time.Sleep(50 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(50 * time.Millisecond)

	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: src, Dest: b, Relation: "link"}), check.IsNil)
	c.Assert(s.g.RemoveStaleEdges(src, cutoff), check.IsNil)

	it, err := s.g.Related(src, "link")
	c.Assert(err, check.IsNil)
	c.Assert(collectLinkURLs(c, it), check.DeepEquals, map[string]bool{"https://example.com/b": true})
}

// TestRelated verifies that only destinations reached through the requested
// relation are returned.
func (s *BaseSuite) TestRelated(c *check.C) {
	src := s.upsertLink(c, "https://example.com/src")
	a, b := s.upsertLink(c, "https://example.com/a"), s.upsertLink(c, "https://example.com/b")
	other := s.upsertLink(c, "https://example.com/other")

	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: src, Dest: a, Relation: "seealso"}), check.IsNil)
	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: src, Dest: b, Relation: "seealso"}), check.IsNil)
	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: src, Dest: b, Relation: "link"}), check.IsNil)
	c.Assert(s.g.UpsertEdge(&graph.Edge{Src: other, Dest: a, Relation: "seealso"}), check.IsNil)

	it, err := s.g.Related(src, "seealso")
	c.Assert(err, check.IsNil)
	c.Assert(collectLinkURLs(c, it), check.DeepEquals, map[string]bool{
		"https://example.com/a": true,
		"https://example.com/b": true,
	})

	it, err = s.g.Related(a, "seealso")
	c.Assert(err, check.IsNil)
	c.Assert(collectLinkURLs(c, it), check.HasLen, 0)
}

func (s *BaseSuite) upsertLink(c *check.C, url string) uuid.UUID {
	l := &graph.Link{URL: url}
	c.Assert(s.g.UpsertLink(l), check.IsNil)

	return l.ID
}

func collectLinkURLs(c *check.C, it graph.LinkIterator) map[string]bool {
	urls := make(map[string]bool)
	for it.Next() {
		url := it.Link().URL
		c.Check(urls[url], check.Equals, false, check.Commentf("link %s iterated twice", url))
		urls[url] = true
	}

	c.Check(it.Error(), check.IsNil)
	c.Check(it.Close(), check.IsNil)

	return urls
}

func waitOrFail(c *check.C, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for iterators to complete")
	}
}
