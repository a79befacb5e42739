package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mycok/uLookup/pipeline"
)

var (
	_ pipeline.Processor = (*linkFetcher)(nil)

	// Locate links that point to web pages that don't serve html content.
	exclusionRegex = regexp.MustCompile(`(?i)\.(?:jpg|jpeg|png|gif|ico|css|js)$`)
)

const acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1"

// linkFetcher retrieves the document of the payload URL. Redirects are
// recorded rather than followed; HTML bodies are kept for the following
// stages.
type linkFetcher struct {
	urlGetter    URLGetter
	netDetector  PrivateNetworkDetector
	maxBodyBytes int64
}

func newLinkFetcher(
	urlGetter URLGetter, netDetector PrivateNetworkDetector, maxBodyBytes int64,
) *linkFetcher {

	return &linkFetcher{
		urlGetter:    urlGetter,
		netDetector:  netDetector,
		maxBodyBytes: maxBodyBytes,
	}
}

func (p *linkFetcher) Process(
	ctx context.Context, payload pipeline.Payload,
) (pipeline.Payload, error) {

	cPayload := payload.(*crawlerPayload)

	if exclusionRegex.MatchString(cPayload.URL) {
		return nil, ErrExcludedContent
	}

	target, err := url.Parse(cPayload.URL)
	if err != nil {
		return nil, err
	}

	isPrivate, err := p.netDetector.IsNetworkPrivate(target.Hostname())
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", target.Hostname(), err)
	}
	if isPrivate {
		return nil, ErrPrivateNetwork
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cPayload.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := p.urlGetter.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if location := resp.Header.Get("Location"); location != "" &&
		resp.StatusCode >= 300 && resp.StatusCode <= 399 {

		redirect := resolveToAbsoluteURL(target, location)
		if redirect == nil {
			return nil, fmt.Errorf("%w: invalid redirect location %q", ErrUnexpectedStatus, location)
		}

		cPayload.RedirectTo = redirect.String()

		return cPayload, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	cPayload.ContentType = resp.Header.Get("Content-Type")
	if !isHTMLContentType(cPayload.ContentType) {
		return cPayload, nil
	}

	if _, err = io.Copy(&cPayload.RawContent, io.LimitReader(resp.Body, p.maxBodyBytes)); err != nil {
		return nil, err
	}

	return cPayload, nil
}

func isHTMLContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "html")
}
