/*
	crawler package dereferences http(s) URIs with a pipeline of three stages:
		1. linkFetcher retrieves the document, refusing private networks and
		   recording redirects instead of following them.
		2. linkExtractor resolves the anchors and the see-also <link> tags of
		   HTML documents.
		3. textExtractor extracts the title and the plain text content.
	Each call to Dereference runs a single payload through the pipeline.
*/

package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/crawler/privnet"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/pipeline"
)

var (
	_ deref.Dereferencer     = (*Crawler)(nil)
	_ PrivateNetworkDetector = (*privnet.NetDetector)(nil)
)

var (
	// ErrPrivateNetwork is returned for URIs whose host resolves to a
	// private network address.
	ErrPrivateNetwork = errors.New("crawler: host resolves to a private network")

	// ErrUnexpectedStatus is returned for responses that are neither
	// successful nor redirects.
	ErrUnexpectedStatus = errors.New("crawler: unexpected response status")

	// ErrExcludedContent is returned for URIs that point to static assets
	// such as images, scripts or style sheets.
	ErrExcludedContent = errors.New("crawler: excluded content type")
)

const defaultMaxBodyBytes = 4 << 20

// Config encapsulates the settings for configuring the crawler.
type Config struct {
	// PrivateNetworkDetector filters out hosts on private networks. If not
	// specified, the default CIDR list of the privnet package is used.
	PrivateNetworkDetector PrivateNetworkDetector

	// URLGetter executes the HTTP requests. If not specified, an
	// http.Client that does not follow redirects is used.
	URLGetter URLGetter

	// MaxBodyBytes caps the number of body bytes read per document.
	MaxBodyBytes int64

	// Clock stamps retrieved documents. If not specified, a wall-clock
	// will be used instead.
	Clock clock.Clock

	// Logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error

	if cfg.PrivateNetworkDetector == nil {
		detector, detectorErr := privnet.NewDetector()
		if detectorErr != nil {
			err = multierror.Append(err, fmt.Errorf("unable to create private network detector: %w", detectorErr))
		} else {
			cfg.PrivateNetworkDetector = detector
		}
	}

	if cfg.URLGetter == nil {
		cfg.URLGetter = NewHTTPGetter(30 * time.Second)
	}

	if cfg.MaxBodyBytes < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max body bytes, must be >= 0"))
	} else if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// NewHTTPGetter returns an http.Client that reports redirects back to the
// caller instead of following them.
func NewHTTPGetter(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Crawler dereferences http(s) URIs.
type Crawler struct {
	cfg Config
	p   *pipeline.Pipeline
}

// New returns a fully configured crawler.
func New(cfg Config) (*Crawler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("crawler: config validation failed: %w", err)
	}

	return &Crawler{
		cfg: cfg,
		p: pipeline.NewSequence(
			newLinkFetcher(cfg.URLGetter, cfg.PrivateNetworkDetector, cfg.MaxBodyBytes),
			newLinkExtractor(cfg.PrivateNetworkDetector),
			newTextExtractor(),
		),
	}, nil
}

// Dereference implements deref.Dereferencer.
func (c *Crawler) Dereference(ctx context.Context, uri string) (*deref.Document, error) {
	payload := payloadPool.Get().(*crawlerPayload)
	payload.URL = uri
	payload.RetrievedAt = c.cfg.Clock.Now()

	sink := new(documentSink)
	if err := c.p.Execute(ctx, pipeline.NewSliceSource(payload), sink); err != nil {
		return nil, fmt.Errorf("dereference %s: %w", uri, firstError(err))
	}

	if sink.doc == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dereference %s: %w", uri, err)
		}

		return nil, fmt.Errorf("dereference %s: no document produced", uri)
	}

	c.cfg.Logger.WithFields(logrus.Fields{
		"uri":          uri,
		"content_type": sink.doc.ContentType,
		"links":        len(sink.doc.Links),
		"redirect_to":  sink.doc.RedirectTo,
	}).Debug("dereferenced document")

	return sink.doc, nil
}

// firstError unwraps a pipeline multierror that holds a single error.
func firstError(err error) error {
	var merr *multierror.Error
	if errors.As(err, &merr) && len(merr.Errors) == 1 {
		return merr.Errors[0]
	}

	return err
}
