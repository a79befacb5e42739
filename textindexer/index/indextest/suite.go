// Package indextest holds a conformance suite for index.Indexer
// implementations.
package indextest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/textindexer/index"
)

// BaseSuite defines a set of re-usable index related tests that can
// be executed against any concrete type that implements the index.Indexer interface.
type BaseSuite struct {
	idx index.Indexer
}

// SetIndex sets BaseSuite's index field.
func (s *BaseSuite) SetIndex(idx index.Indexer) {
	s.idx = idx
}

// TestIndexAndFind verifies that indexing replaces existing documents.
func (s *BaseSuite) TestIndexAndFind(c *check.C) {
	doc := &index.Document{
		LinkID:   uuid.New(),
		URL:      "https://example.com",
		Title:    "test document title",
		Content:  "This should be the body text of the document",
		Mentions: []string{"https://example.com/a"},
	}
	c.Assert(s.idx.Index(doc), check.IsNil)
	c.Assert(doc.IndexedAt.IsZero(), check.Equals, false)

	updated := &index.Document{
		LinkID:   doc.LinkID,
		URL:      doc.URL,
		Title:    "updated title",
		Content:  "updated body",
		Mentions: []string{"https://example.com/b"},
	}
	c.Assert(s.idx.Index(updated), check.IsNil)

	got, err := s.idx.FindByID(doc.LinkID)
	c.Assert(err, check.IsNil)
	c.Assert(got.URL, check.Equals, updated.URL)
	c.Assert(got.Title, check.Equals, updated.Title)
	c.Assert(got.Content, check.Equals, updated.Content)
	c.Assert(got.Mentions, check.DeepEquals, updated.Mentions)

	_, err = s.idx.FindByID(uuid.New())
	c.Assert(errors.Is(err, index.ErrNotFound), check.Equals, true)

	err = s.idx.Index(&index.Document{URL: "https://example.com"})
	c.Assert(errors.Is(err, index.ErrMissingLinkID), check.Equals, true)
}

// TestMatchAndPhraseSearch verifies the full-text queries.
func (s *BaseSuite) TestMatchAndPhraseSearch(c *check.C) {
	quick := s.index(c, "Quick fox", "the quick brown fox jumps over the lazy dog")
	brown := s.index(c, "Brown fox", "a brown quick fox")
	s.index(c, "Other", "nothing to see here")

	c.Assert(s.search(c, index.QueryTypeMatch, "quick fox"), check.DeepEquals, map[uuid.UUID]bool{
		quick: true,
		brown: true,
	})

	c.Assert(s.search(c, index.QueryTypePhrase, "quick brown fox"), check.DeepEquals, map[uuid.UUID]bool{
		quick: true,
	})
}

// TestMentionSearch verifies that mention queries match whole URIs only.
func (s *BaseSuite) TestMentionSearch(c *check.C) {
	target := "http://example.com/resource#this"

	mentioning := s.indexMentions(c, target, "http://example.com/other")
	s.indexMentions(c, "http://example.com/resource")
	s.indexMentions(c)

	c.Assert(s.search(c, index.QueryTypeMention, target), check.DeepEquals, map[uuid.UUID]bool{
		mentioning: true,
	})

	c.Assert(s.search(c, index.QueryTypeMention, "example.com"), check.HasLen, 0)

	// Mentions are not part of the full-text fields.
	c.Assert(s.search(c, index.QueryTypeMatch, "resource"), check.HasLen, 0)
}

// TestPagination verifies that iterators fetch every page of results.
func (s *BaseSuite) TestPagination(c *check.C) {
	const numOfDocs = 25

	expected := make(map[uuid.UUID]bool, numOfDocs)
	for i := 0; i < numOfDocs; i++ {
		expected[s.indexMentions(c, "http://example.com/popular", fmt.Sprintf("http://example.com/%d", i))] = true
	}

	it, err := s.idx.Search(index.Query{Type: index.QueryTypeMention, Expression: "http://example.com/popular"})
	c.Assert(err, check.IsNil)
	c.Assert(it.TotalCount(), check.Equals, uint64(numOfDocs))

	got := make(map[uuid.UUID]bool)
	for it.Next() {
		got[it.Document().LinkID] = true
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)
	c.Assert(got, check.DeepEquals, expected)

	it, err = s.idx.Search(index.Query{
		Type: index.QueryTypeMention, Expression: "http://example.com/popular", Offset: numOfDocs - 5,
	})
	c.Assert(err, check.IsNil)

	var count int
	for it.Next() {
		count++
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(count, check.Equals, 5)
}

func (s *BaseSuite) index(c *check.C, title, content string) uuid.UUID {
	doc := &index.Document{
		LinkID:  uuid.New(),
		URL:     "https://example.com/" + uuid.NewString(),
		Title:   title,
		Content: content,
	}
	c.Assert(s.idx.Index(doc), check.IsNil)

	return doc.LinkID
}

func (s *BaseSuite) indexMentions(c *check.C, mentions ...string) uuid.UUID {
	doc := &index.Document{
		LinkID:   uuid.New(),
		URL:      "https://example.org/" + uuid.NewString(),
		Mentions: mentions,
	}
	c.Assert(s.idx.Index(doc), check.IsNil)

	return doc.LinkID
}

func (s *BaseSuite) search(c *check.C, qt index.QueryType, expr string) map[uuid.UUID]bool {
	it, err := s.idx.Search(index.Query{Type: qt, Expression: expr})
	c.Assert(err, check.IsNil)

	found := make(map[uuid.UUID]bool)
	for it.Next() {
		found[it.Document().LinkID] = true
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return found
}
