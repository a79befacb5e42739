package crawler

import (
	"bytes"
	"sync"
	"time"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/pipeline"
)

var (
	_ pipeline.Payload = (*crawlerPayload)(nil)

	payloadPool = sync.Pool{
		New: func() interface{} {
			return new(crawlerPayload)
		},
	}
)

type crawlerPayload struct {
	URL         string       // set by Dereference.
	RetrievedAt time.Time    // set by Dereference.
	RedirectTo  string       // set by the link fetcher.
	ContentType string       // set by the link fetcher.
	RawContent  bytes.Buffer // set by the link fetcher.
	Links       []deref.Link // set by the link extractor.
	Title       string       // set by the text extractor.
	TextContent string       // set by the text extractor.
}

func (p *crawlerPayload) isHTML() bool {
	return p.RedirectTo == "" && isHTMLContentType(p.ContentType)
}

// MarkAsProcessed resets the payload and returns it to the pool.
func (p *crawlerPayload) MarkAsProcessed() {
	p.URL = ""
	p.RetrievedAt = time.Time{}
	p.RedirectTo = ""
	p.ContentType = ""
	p.RawContent.Reset()
	p.Links = p.Links[:0]
	p.Title = ""
	p.TextContent = ""

	payloadPool.Put(p)
}
