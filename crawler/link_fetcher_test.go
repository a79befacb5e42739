package crawler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/crawler/mocks"
)

var _ = check.Suite(new(linkFetcherTestSuite))

type linkFetcherTestSuite struct {
	urlGetter   *mocks.MockURLGetter
	netDetector *mocks.MockPrivateNetworkDetector
}

func (s *linkFetcherTestSuite) SetUpTest(c *check.C) {
	ctrl := gomock.NewController(c)

	s.urlGetter = mocks.NewMockURLGetter(ctrl)
	s.netDetector = mocks.NewMockPrivateNetworkDetector(ctrl)
}

func (s *linkFetcherTestSuite) TestExcludedExtension(c *check.C) {
	_, err := s.fetch("http://example.com/bar.jpg")
	c.Assert(errors.Is(err, ErrExcludedContent), check.Equals, true)
}

func (s *linkFetcherTestSuite) TestPrivateNetwork(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("169.254.169.254").Return(true, nil)

	_, err := s.fetch("http://169.254.169.254/latest/meta-data")
	c.Assert(errors.Is(err, ErrPrivateNetwork), check.Equals, true)
}

func (s *linkFetcherTestSuite) TestUnresolvableHost(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("nowhere.invalid").Return(false, errors.New("no such host"))

	_, err := s.fetch("http://nowhere.invalid/")
	c.Assert(err, check.ErrorMatches, `resolving "nowhere.invalid": no such host`)
}

func (s *linkFetcherTestSuite) TestPortNumberAndAcceptHeader(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.urlGetter.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		c.Assert(req.URL.String(), check.Equals, "http://example.com:1234/index.html")
		c.Assert(req.Header.Get("Accept"), check.Equals, acceptHeader)

		return makeResponse(200, "text/html; charset=utf-8", "hello", ""), nil
	})

	payload, err := s.fetch("http://example.com:1234/index.html")
	c.Assert(err, check.IsNil)
	c.Assert(payload.RawContent.String(), check.Equals, "hello")
	c.Assert(payload.ContentType, check.Equals, "text/html; charset=utf-8")
}

func (s *linkFetcherTestSuite) TestUnexpectedStatus(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.urlGetter.EXPECT().Do(gomock.Any()).Return(makeResponse(500, "application/json", `{"error": "boom"}`, ""), nil)

	_, err := s.fetch("http://example.com/index.html")
	c.Assert(errors.Is(err, ErrUnexpectedStatus), check.Equals, true)
	c.Assert(err, check.ErrorMatches, ".*: 500")
}

func (s *linkFetcherTestSuite) TestRedirectIsRecorded(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.urlGetter.EXPECT().Do(gomock.Any()).Return(makeResponse(303, "text/html", "see other", "/docs/resource"), nil)

	payload, err := s.fetch("http://example.com/id/resource")
	c.Assert(err, check.IsNil)
	c.Assert(payload.RedirectTo, check.Equals, "http://example.com/docs/resource")
	c.Assert(payload.RawContent.Len(), check.Equals, 0)
}

func (s *linkFetcherTestSuite) TestNonHTMLBodyIsSkipped(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.urlGetter.EXPECT().Do(gomock.Any()).Return(makeResponse(200, "application/json", `{"a": 1}`, ""), nil)

	payload, err := s.fetch("http://example.com/list/products")
	c.Assert(err, check.IsNil)
	c.Assert(payload.ContentType, check.Equals, "application/json")
	c.Assert(payload.RawContent.Len(), check.Equals, 0)
}

func (s *linkFetcherTestSuite) TestBodyIsCapped(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.urlGetter.EXPECT().Do(gomock.Any()).Return(makeResponse(200, "text/html", "0123456789", ""), nil)

	payload := &crawlerPayload{URL: "http://example.com/"}
	_, err := newLinkFetcher(s.urlGetter, s.netDetector, 4).Process(context.TODO(), payload)
	c.Assert(err, check.IsNil)
	c.Assert(payload.RawContent.String(), check.Equals, "0123")
}

func (s *linkFetcherTestSuite) fetch(url string) (*crawlerPayload, error) {
	payload := &crawlerPayload{URL: url}

	out, err := newLinkFetcher(s.urlGetter, s.netDetector, defaultMaxBodyBytes).Process(context.TODO(), payload)
	if err != nil {
		return nil, err
	}

	return out.(*crawlerPayload), nil
}

func makeResponse(code int, contentType, body, location string) *http.Response {
	resp := &http.Response{
		StatusCode: code,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}

	if location != "" {
		resp.Header.Set("Location", location)
	}

	return resp
}
