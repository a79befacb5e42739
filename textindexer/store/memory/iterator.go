package memory

import (
	"fmt"

	"github.com/blevesearch/bleve"

	"github.com/mycok/uLookup/textindexer/index"
)

var _ index.Iterator = (*docIterator)(nil)

// docIterator pages through bleve search results.
type docIterator struct {
	idx       *InMemoryIndex
	searchReq *bleve.SearchRequest
	searchRes *bleve.SearchResult

	cumIdx       uint64 // position in the whole result list
	searchResIdx int    // position in the current page

	doc     *index.Document
	lastErr error
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (i *docIterator) Next() bool {
	if i.lastErr != nil || i.searchRes == nil || i.cumIdx >= i.searchRes.Total {
		return false
	}

	if i.searchResIdx >= i.searchRes.Hits.Len() {
		i.searchReq.From += i.searchReq.Size
		if i.searchRes, i.lastErr = i.idx.idx.Search(i.searchReq); i.lastErr != nil {
			return false
		}

		if i.searchRes.Hits.Len() == 0 {
			return false
		}

		i.searchResIdx = 0
	}

	i.idx.mu.RLock()
	doc, exists := i.idx.docs[i.searchRes.Hits[i.searchResIdx].ID]
	i.idx.mu.RUnlock()

	if !exists {
		i.lastErr = fmt.Errorf("find by ID: %w", index.ErrNotFound)

		return false
	}

	i.doc = copyDoc(doc)
	i.searchResIdx++
	i.cumIdx++

	return true
}

// Document returns the current document from the result set.
func (i *docIterator) Document() *index.Document {
	return i.doc
}

// TotalCount returns the approximated total number of search results.
func (i *docIterator) TotalCount() uint64 {
	if i.searchRes == nil {
		return 0
	}

	return i.searchRes.Total
}

// Error returns the last error encountered by the iterator.
func (i *docIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *docIterator) Close() error {
	i.idx = nil
	i.searchReq = nil

	if i.searchRes != nil {
		i.cumIdx = i.searchRes.Total
	}

	return nil
}
