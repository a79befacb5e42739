package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/mycok/uLookup/textindexer/index"
)

var _ index.Indexer = (*ElasticsearchIndex)(nil)

// Size of each page of results that is cached locally by the iterator.
const batchSize = 10

// The name of the elasticsearch index to use.
const indexName = "ulookup"

// JSON data structure that defines the properties of an elasticsearch
// document.
var esMappings = `
{
  "mappings" : {
    "properties": {
      "LinkID": {"type": "keyword"},
      "URL": {"type": "keyword"},
      "Content": {"type": "text"},
      "Title": {"type": "text"},
      "Mentions": {"type": "keyword"},
      "IndexedAt": {"type": "date"}
    }
  }
}`

type esSearchRes struct {
	Hits esSearchResHits `json:"hits"`
}

type esSearchResHits struct {
	Total   esTotal        `json:"total"`
	HitList []esHitWrapper `json:"hits"`
}

type esTotal struct {
	Count uint64 `json:"value"`
}

type esHitWrapper struct {
	DocSource esDoc `json:"_source"`
}

type esDoc struct {
	LinkID    string    `json:"LinkID"`
	URL       string    `json:"URL"`
	Title     string    `json:"Title"`
	Content   string    `json:"Content"`
	Mentions  []string  `json:"Mentions"`
	IndexedAt time.Time `json:"IndexedAt"`
}

type esUpdateRes struct {
	Result string `json:"result"`
}

type esErrorRes struct {
	Error esError `json:"error"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

// ElasticsearchIndex is an Indexer implementation that uses elasticsearch
// to index / catalogue and search documents.
type ElasticsearchIndex struct {
	client      *elasticsearch.Client
	refreshOpts func(*esapi.UpdateRequest)
}

// NewEsIndexer returns an index backed by the given elasticsearch nodes.
// With shouldSyncUpdates set, writes are visible to searches as soon as
// they return.
func NewEsIndexer(
	esNodes []string, shouldSyncUpdates bool,
) (*ElasticsearchIndex, error) {

	cfg := elasticsearch.Config{
		Addresses: esNodes,
	}

	c, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err = initIndex(c); err != nil {
		return nil, err
	}

	refreshOpts := c.Update.WithRefresh("false")

	if shouldSyncUpdates {
		refreshOpts = c.Update.WithRefresh("true")
	}

	return &ElasticsearchIndex{
		client:      c,
		refreshOpts: refreshOpts,
	}, nil
}

// Index adds a new document or replaces an existing one.
func (s *ElasticsearchIndex) Index(doc *index.Document) error {
	if doc.LinkID == uuid.Nil {
		return fmt.Errorf("index: %w", index.ErrMissingLinkID)
	}

	doc.IndexedAt = time.Now()

	var (
		buf   bytes.Buffer
		esDoc = makeEsDoc(doc)
	)

	forUpdate := map[string]interface{}{
		"doc":           esDoc,
		"doc_as_upsert": true,
	}

	if err := json.NewEncoder(&buf).Encode(forUpdate); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	res, err := s.client.Update(indexName, esDoc.LinkID, &buf, s.refreshOpts)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	var updateRes esUpdateRes
	if err = unmarshalResponse(res, &updateRes); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	return nil
}

// FindByID looks up a document by its link ID.
func (s *ElasticsearchIndex) FindByID(linkID uuid.UUID) (*index.Document, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"LinkID": linkID.String(),
			},
		},
		"from": 0,
		"size": 1,
	}

	searchRes, err := performSearch(s.client, query)
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	if len(searchRes.Hits.HitList) == 0 {
		return nil, fmt.Errorf("find by ID: %w", index.ErrNotFound)
	}

	return esDocToDoc(&searchRes.Hits.HitList[0].DocSource), nil
}

// Search runs q and returns an iterator over the matching documents.
func (s *ElasticsearchIndex) Search(q index.Query) (index.Iterator, error) {
	var esQuery map[string]interface{}

	switch q.Type {
	case index.QueryTypeMention:
		esQuery = map[string]interface{}{
			"term": map[string]interface{}{
				"Mentions": q.Expression,
			},
		}
	default:
		matchType := "best_fields"
		if q.Type == index.QueryTypePhrase {
			matchType = "phrase"
		}

		esQuery = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"type":   matchType,
				"query":  q.Expression,
				"fields": []string{"Title", "Content"},
			},
		}
	}

	query := map[string]interface{}{
		"query": esQuery,
		"from":  q.Offset,
		"size":  batchSize,
	}

	searchRes, err := performSearch(s.client, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &esIterator{
		client:    s.client,
		searchReq: query,
		searchRes: searchRes,
		cumIdx:    q.Offset,
	}, nil
}

func performSearch(
	client *elasticsearch.Client, query map[string]interface{},
) (*esSearchRes, error) {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := client.Search(
		client.Search.WithContext(context.Background()),
		client.Search.WithIndex(indexName),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}

	var esRes esSearchRes
	if err = unmarshalResponse(res, &esRes); err != nil {
		return nil, err
	}

	return &esRes, nil
}

func initIndex(client *elasticsearch.Client) error {
	mappingsReader := strings.NewReader(esMappings)

	res, err := client.Indices.Create(
		indexName,
		client.Indices.Create.WithBody(mappingsReader),
	)
	if err != nil {
		return fmt.Errorf("failed to create ES index: %w", err)
	}

	if res.IsError() {
		err = unmarshalResponse(res, nil)

		if esErr, ok := err.(esError); ok && esErr.Type == "resource_already_exists_exception" {
			return nil
		}

		return fmt.Errorf("failed to create ES index: %w", err)
	}

	return res.Body.Close()
}

func unmarshalResponse(res *esapi.Response, into interface{}) error {
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errRes esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return err
		}

		return errRes.Error
	}

	return json.NewDecoder(res.Body).Decode(into)
}

func esDocToDoc(doc *esDoc) *index.Document {
	return &index.Document{
		LinkID:    uuid.MustParse(doc.LinkID),
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		Mentions:  doc.Mentions,
		IndexedAt: doc.IndexedAt.UTC(),
	}
}

func makeEsDoc(doc *index.Document) esDoc {
	return esDoc{
		LinkID:    doc.LinkID.String(),
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		Mentions:  doc.Mentions,
		IndexedAt: doc.IndexedAt.UTC(),
	}
}
