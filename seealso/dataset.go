/*
	seealso package exposes imported link graph data as a see-also dataset:
	the targets of the edges that leave a URI with a given relation.
*/

package seealso

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mycok/uLookup/linkgraph/graph"
)

// Graph should be implemented by link graphs that can be scanned for
// related links.
type Graph interface {
	// FindLinkByURL performs a link lookup by URL.
	FindLinkByURL(url string) (*graph.Link, error)

	// Related returns an iterator for the destinations of the edges that
	// leave src with the given relation.
	Related(src uuid.UUID, relation string) (graph.LinkIterator, error)
}

// GraphDataset answers see-also queries from a link graph.
type GraphDataset struct {
	graph Graph
}

// NewGraphDataset returns a dataset backed by g.
func NewGraphDataset(g Graph) *GraphDataset {
	return &GraphDataset{graph: g}
}

// Related returns the URLs that uri refers to with relation. URIs that are
// not part of the graph have no related URLs.
func (d *GraphDataset) Related(ctx context.Context, uri, relation string) ([]string, error) {
	link, err := d.graph.FindLinkByURL(uri)
	if errors.Is(err, graph.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("see also %s: %w", uri, err)
	}

	it, err := d.graph.Related(link.ID, relation)
	if err != nil {
		return nil, fmt.Errorf("see also %s: %w", uri, err)
	}

	var urls []string
	for it.Next() {
		if err := ctx.Err(); err != nil {
			_ = it.Close()

			return nil, err
		}

		urls = append(urls, it.Link().URL)
	}

	if err := it.Error(); err != nil {
		_ = it.Close()

		return nil, fmt.Errorf("see also %s: %w", uri, err)
	}

	return urls, it.Close()
}
