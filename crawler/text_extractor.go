package crawler

import (
	"context"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mycok/uLookup/pipeline"
)

var _ pipeline.Processor = (*textExtractor)(nil)

var (
	titleRegex         = regexp.MustCompile(`(?i)<title.*?>(.*?)</title>`)
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)
)

type textExtractor struct {
	policyPool sync.Pool
}

func newTextExtractor() *textExtractor {
	return &textExtractor{
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Process strips every tag from HTML documents and collapses whitespace to
// populate the title and text of the payload.
func (p *textExtractor) Process(
	ctx context.Context, payload pipeline.Payload,
) (pipeline.Payload, error) {

	cPayload := payload.(*crawlerPayload)
	if !cPayload.isHTML() {
		return cPayload, nil
	}

	policy := p.policyPool.Get().(*bluemonday.Policy)
	defer p.policyPool.Put(policy)

	if titleMatch := titleRegex.FindStringSubmatch(cPayload.RawContent.String()); len(titleMatch) == 2 {
		cPayload.Title = cleanText(policy.Sanitize(titleMatch[1]))
	}

	cPayload.TextContent = cleanText(policy.SanitizeReader(&cPayload.RawContent).String())

	return cPayload, nil
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(repeatedSpaceRegex.ReplaceAllString(s, " ")))
}
