package es

import (
	"github.com/elastic/go-elasticsearch/v8"

	"github.com/mycok/uLookup/textindexer/index"
)

var _ index.Iterator = (*esIterator)(nil)

// esIterator pages through elasticsearch search results.
type esIterator struct {
	client    *elasticsearch.Client
	searchReq map[string]interface{}
	searchRes *esSearchRes

	cumIdx       uint64 // position in the whole result list
	searchResIdx int    // position in the current page

	doc     *index.Document
	lastErr error
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (i *esIterator) Next() bool {
	if i.lastErr != nil || i.searchRes == nil ||
		i.cumIdx >= i.searchRes.Hits.Total.Count {

		return false
	}

	if i.searchResIdx >= len(i.searchRes.Hits.HitList) {
		i.searchReq["from"] = i.searchReq["from"].(uint64) + batchSize
		if i.searchRes, i.lastErr = performSearch(i.client, i.searchReq); i.lastErr != nil {
			return false
		}

		if len(i.searchRes.Hits.HitList) == 0 {
			return false
		}

		i.searchResIdx = 0
	}

	i.doc = esDocToDoc(&i.searchRes.Hits.HitList[i.searchResIdx].DocSource)
	i.searchResIdx++
	i.cumIdx++

	return true
}

// Document returns the current document from the result set.
func (i *esIterator) Document() *index.Document {
	return i.doc
}

// TotalCount returns the approximated total number of search results.
func (i *esIterator) TotalCount() uint64 {
	if i.searchRes == nil {
		return 0
	}

	return i.searchRes.Hits.Total.Count
}

// Error returns the last error encountered by the iterator.
func (i *esIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *esIterator) Close() error {
	i.client = nil
	i.searchReq = nil
	if i.searchRes != nil {
		i.cumIdx = i.searchRes.Hits.Total.Count
	}

	return nil
}
