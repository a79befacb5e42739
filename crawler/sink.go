package crawler

import (
	"context"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/pipeline"
)

var _ pipeline.Sink = (*documentSink)(nil)

// documentSink copies the payload into a document before the payload is
// recycled.
type documentSink struct {
	doc *deref.Document
}

func (s *documentSink) Consume(_ context.Context, p pipeline.Payload) error {
	payload := p.(*crawlerPayload)

	s.doc = &deref.Document{
		URI:         payload.URL,
		RedirectTo:  payload.RedirectTo,
		ContentType: payload.ContentType,
		Title:       payload.Title,
		Text:        payload.TextContent,
		Links:       append([]deref.Link(nil), payload.Links...),
		RetrievedAt: payload.RetrievedAt,
	}

	return nil
}
