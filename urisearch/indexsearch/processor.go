/*
	indexsearch package implements a URI search query processor on top of
	the text index: documents that mention a URI are considered relevant
	for it.
*/

package indexsearch

import (
	"context"
	"fmt"

	"github.com/mycok/uLookup/textindexer/index"
	"github.com/mycok/uLookup/urisearch"
)

// DefaultMaxHits caps the number of documents returned per search when no
// explicit limit is configured.
const DefaultMaxHits = 50

// Static and compile-time check to ensure Processor implements
// urisearch.QueryProcessor interface.
var _ urisearch.QueryProcessor = (*Processor)(nil)

// Searcher should be implemented by objects that can run index queries.
type Searcher interface {
	Search(q index.Query) (index.Iterator, error)
}

// Processor finds the documents whose mentions include a URI.
type Processor struct {
	searcher Searcher
	maxHits  int
}

// New returns a processor that returns at most maxHits documents per search.
// A non-positive maxHits selects DefaultMaxHits.
func New(searcher Searcher, maxHits int) *Processor {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	return &Processor{searcher: searcher, maxHits: maxHits}
}

// Search implements urisearch.QueryProcessor.
func (p *Processor) Search(ctx context.Context, uri string) ([]string, error) {
	it, err := p.searcher.Search(index.Query{
		Type:       index.QueryTypeMention,
		Expression: uri,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", uri, err)
	}
	defer func() { _ = it.Close() }()

	var uris []string
	for len(uris) < p.maxHits && it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if doc := it.Document(); doc.URL != uri {
			uris = append(uris, doc.URL)
		}
	}

	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("search %s: %w", uri, err)
	}

	return uris, nil
}
