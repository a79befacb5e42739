package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"
	"github.com/google/uuid"

	"github.com/mycok/uLookup/textindexer/index"
)

// Size of each page of results that is cached locally by the iterator.
const batchSize = 10

const mentionsField = "Mentions"

var _ index.Indexer = (*InMemoryIndex)(nil)

type bleveDoc struct {
	Title    string
	Content  string
	Mentions []string
}

// InMemoryIndex is an Indexer implementation that keeps a bleve index in
// memory.
type InMemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]*index.Document
	idx  bleve.Index
}

// NewInMemoryIndex returns a text indexer backed by an in-memory bleve
// index.
func NewInMemoryIndex() (*InMemoryIndex, error) {
	idx, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return nil, err
	}

	return &InMemoryIndex{
		idx:  idx,
		docs: make(map[string]*index.Document),
	}, nil
}

// newIndexMapping analyses mentions as single keywords and keeps them out
// of the composite field used by text queries.
func newIndexMapping() mapping.IndexMapping {
	mentions := bleve.NewTextFieldMapping()
	mentions.Analyzer = keyword.Name
	mentions.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(mentionsField, mentions)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// Close releases / frees any previously allocated resources.
func (s *InMemoryIndex) Close() error {
	return s.idx.Close()
}

// Index adds a new document or replaces an existing one.
func (s *InMemoryIndex) Index(doc *index.Document) error {
	if doc.LinkID == uuid.Nil {
		return fmt.Errorf("index: %w", index.ErrMissingLinkID)
	}

	doc.IndexedAt = time.Now()
	dCopy := copyDoc(doc)
	key := dCopy.LinkID.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idx.Index(key, bleveDoc{
		Title:    dCopy.Title,
		Content:  dCopy.Content,
		Mentions: dCopy.Mentions,
	}); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	s.docs[key] = dCopy

	return nil
}

// FindByID looks up a document by its link ID.
func (s *InMemoryIndex) FindByID(linkID uuid.UUID) (*index.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, exists := s.docs[linkID.String()]; exists {
		return copyDoc(doc), nil
	}

	return nil, fmt.Errorf("find by ID: %w", index.ErrNotFound)
}

// Search runs q and returns an iterator over the matching documents.
func (s *InMemoryIndex) Search(q index.Query) (index.Iterator, error) {
	var bleveQuery query.Query

	switch q.Type {
	case index.QueryTypePhrase:
		bleveQuery = bleve.NewMatchPhraseQuery(q.Expression)
	case index.QueryTypeMention:
		termQuery := bleve.NewTermQuery(q.Expression)
		termQuery.SetField(mentionsField)
		bleveQuery = termQuery
	default:
		bleveQuery = bleve.NewMatchQuery(q.Expression)
	}

	searchReq := bleve.NewSearchRequest(bleveQuery)
	searchReq.SortBy([]string{"-_score", "_id"})
	searchReq.Size = batchSize
	searchReq.From = int(q.Offset)

	sr, err := s.idx.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &docIterator{
		idx:       s,
		searchReq: searchReq,
		searchRes: sr,
		cumIdx:    q.Offset,
	}, nil
}

func copyDoc(doc *index.Document) *index.Document {
	dCopy := new(index.Document)
	*dCopy = *doc
	dCopy.Mentions = append([]string(nil), doc.Mentions...)

	return dCopy
}
