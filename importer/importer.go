/*
	importer package stores dereferenced documents. Links and their
	relation-tagged edges go into the link graph and the document text,
	together with every URI it mentions, goes into the text index.
*/

package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/crawler"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/linkgraph/graph"
	"github.com/mycok/uLookup/textindexer/index"
)

// Relations of the edges created for plain links and redirects. See-also
// links use the relation declared by the document.
const (
	RelationLink     = "link"
	RelationRedirect = "redirect"
)

// Static and compile-time check to ensure Importer implements
// deref.Importer interface.
var _ deref.Importer = (*Importer)(nil)

// Config defines configurations for the importer.
type Config struct {
	// The link graph that links and edges are written to.
	Graph MiniGraph

	// An optional text indexer. Documents are not indexed if it is nil.
	Indexer MiniIndexer

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Graph == nil {
		err = multierror.Append(err, fmt.Errorf("graph not provided"))
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Importer writes dereferenced documents into a link graph and a text index.
type Importer struct {
	config Config
}

// New creates and returns a fully configured importer.
func New(config Config) (*Importer, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("importer: config validation failed: %w", err)
	}

	return &Importer{config: config}, nil
}

// Import implements deref.Importer. It upserts the link of doc along with
// its retrieval time, upserts the link targets and the edges pointing at
// them, drops edges that doc no longer declares and finally indexes doc.
func (i *Importer) Import(ctx context.Context, doc *deref.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	retrievedAt := doc.RetrievedAt
	if retrievedAt.IsZero() {
		retrievedAt = time.Now()
	}

	src := &graph.Link{URL: doc.URI, RetrievedAt: retrievedAt}
	if err := i.config.Graph.UpsertLink(src); err != nil {
		return fmt.Errorf("import %s: %w", doc.URI, err)
	}

	// Keep track of the current time so we can drop stale edges that have
	// not been refreshed below.
	updatedBefore := time.Now()

	if doc.RedirectTo != "" {
		if err := i.link(src, doc.RedirectTo, RelationRedirect); err != nil {
			return fmt.Errorf("import %s: %w", doc.URI, err)
		}
	}

	for _, l := range doc.Links {
		relation := RelationLink
		switch {
		case l.Relation == crawler.RelationNoFollow:
			relation = ""
		case l.Kind == deref.DiscoverySeeAlso && l.Relation != "":
			relation = l.Relation
		}

		if err := i.link(src, l.URI, relation); err != nil {
			return fmt.Errorf("import %s: %w", doc.URI, err)
		}
	}

	if err := i.config.Graph.RemoveStaleEdges(src.ID, updatedBefore); err != nil {
		return fmt.Errorf("import %s: %w", doc.URI, err)
	}

	if i.config.Indexer == nil {
		return nil
	}

	if err := i.config.Indexer.Index(&index.Document{
		LinkID:   src.ID,
		URL:      doc.URI,
		Title:    doc.Title,
		Content:  doc.Text,
		Mentions: mentions(doc),
	}); err != nil {
		return fmt.Errorf("import %s: %w", doc.URI, err)
	}

	i.config.Logger.WithFields(logrus.Fields{
		"uri":   doc.URI,
		"links": len(doc.Links),
	}).Debug("imported document")

	return nil
}

// link upserts the link for url and, unless relation is empty, an edge
// from src to it.
func (i *Importer) link(src *graph.Link, url, relation string) error {
	dest := &graph.Link{URL: url}
	if err := i.config.Graph.UpsertLink(dest); err != nil {
		return err
	}

	if relation == "" {
		return nil
	}

	return i.config.Graph.UpsertEdge(&graph.Edge{
		Src:      src.ID,
		Dest:     dest.ID,
		Relation: relation,
	})
}

// mentions returns the distinct URIs referenced by doc.
func mentions(doc *deref.Document) []string {
	var (
		list []string
		seen = make(map[string]struct{}, len(doc.Links)+1)
	)

	add := func(uri string) {
		if _, exists := seen[uri]; exists || uri == "" {
			return
		}
		seen[uri] = struct{}{}
		list = append(list, uri)
	}

	add(doc.RedirectTo)
	for _, l := range doc.Links {
		add(l.URI)
	}

	return list
}
