package crawler

import (
	"context"
	"net/url"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/crawler/mocks"
	"github.com/mycok/uLookup/deref"
)

var (
	_ = check.Suite(new(linkExtractorTestSuite))
	_ = check.Suite(new(resolveURLTestSuite))
)

type resolveURLTestSuite struct{}

func (s *resolveURLTestSuite) TestNetworkPathReference(c *check.C) {
	assertResolvedURL(c, "https://www.example.com/users", "//www.myshop.com/users", "https://www.myshop.com/users")
	assertResolvedURL(c, "http://www.example.com/users", "//www.myshop.com/users", "http://www.myshop.com/users")
}

func (s *resolveURLTestSuite) TestAbsoluteURL(c *check.C) {
	assertResolvedURL(c, "https://www.example.com/users", "https://www.myshop.com/users", "https://www.myshop.com/users")
}

func (s *resolveURLTestSuite) TestRelativeURL(c *check.C) {
	assertResolvedURL(c, "http://example.com/foo/", "bar/baz", "http://example.com/foo/bar/baz")
	assertResolvedURL(c, "http://example.com/foo/", "/bar/baz", "http://example.com/bar/baz")
	assertResolvedURL(c, "http://example.com/foo/secret/", "./bar/baz", "http://example.com/foo/secret/bar/baz")

	// Without a trailing slash "secret" is a file.
	assertResolvedURL(c, "http://example.com/foo/secret", "./bar/baz", "http://example.com/foo/bar/baz")
}

func (s *resolveURLTestSuite) TestEmptyTarget(c *check.C) {
	assertResolvedURL(c, "http://example.com/", "", "")
}

func assertResolvedURL(c *check.C, base, target, expected string) {
	baseURL, err := url.Parse(base)
	c.Assert(err, check.IsNil)

	var resolved string
	if u := resolveToAbsoluteURL(baseURL, target); u != nil {
		resolved = u.String()
	}

	c.Assert(resolved, check.Equals, expected)
}

type linkExtractorTestSuite struct {
	netDetector *mocks.MockPrivateNetworkDetector
}

func (s *linkExtractorTestSuite) SetUpTest(c *check.C) {
	s.netDetector = mocks.NewMockPrivateNetworkDetector(gomock.NewController(c))
}

func (s *linkExtractorTestSuite) TestNonHTTPLinksAreSkipped(c *check.C) {
	links := s.extract(c, "http://test.com", `<a href="ftp://example.com">An FTP site</a>`)
	c.Assert(links, check.HasLen, 0)
}

func (s *linkExtractorTestSuite) TestRelativeLinks(c *check.C) {
	content := `
<a href="./foo.html">link to foo</a>
<a href="../private/data.html">login required</a>
`
	c.Assert(s.extract(c, "http://test.com/content/intro.html", content), check.DeepEquals, []deref.Link{
		{URI: "http://test.com/content/foo.html", Kind: deref.DiscoveryLink},
		{URI: "http://test.com/private/data.html", Kind: deref.DiscoveryLink},
	})
}

func (s *linkExtractorTestSuite) TestBaseTag(c *check.C) {
	content := `
<head><base href="https://test.com/base"/></head>
<a href="./foo.html">link to foo</a>
`
	c.Assert(s.extract(c, "http://test.com/content/", content), check.DeepEquals, []deref.Link{
		{URI: "https://test.com/base/foo.html", Kind: deref.DiscoveryLink},
	})
}

func (s *linkExtractorTestSuite) TestPrivateNetworkLinks(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil)
	s.netDetector.EXPECT().IsNetworkPrivate("169.254.169.254").Return(true, nil)

	content := `
<a href="https://example.com">link to foo</a>
<a href="http://169.254.169.254/api/credentials">login required</a>
`
	c.Assert(s.extract(c, "http://test.com/content/", content), check.DeepEquals, []deref.Link{
		{URI: "https://example.com", Kind: deref.DiscoveryLink},
	})
}

func (s *linkExtractorTestSuite) TestAnchorsAndSeeAlsoTags(c *check.C) {
	s.netDetector.EXPECT().IsNetworkPrivate("example.com").Return(false, nil).Times(2)
	s.netDetector.EXPECT().IsNetworkPrivate("foo.com").Return(false, nil).Times(2)
	s.netDetector.EXPECT().IsNetworkPrivate("data.example.org").Return(false, nil)

	content := `
<html>
<head>
	<link rel="stylesheet" href="/style.css">
	<link rel="alternate" type="text/turtle" href="/resource.ttl">
	<link href="http://data.example.org/about" rel="seeAlso">
</head>
<body>
	<a href="https://example.com"/>
	<a href="//foo.com"></a>
	<a href="/absolute/link"></a>
	<a href="./local" rel="nofollow"></a>

	<!-- duplicates, even with fragments, are skipped -->
	<a href="https://example.com#important"/>
	<a href="//foo.com"></a>
	<a href="/absolute/link#some-anchor"></a>
	<a href="/resource.ttl">turtle</a>
</body>
</html>
`
	c.Assert(s.extract(c, "http://test.com", content), check.DeepEquals, []deref.Link{
		{URI: "http://test.com/resource.ttl", Kind: deref.DiscoverySeeAlso, Relation: "alternate"},
		{URI: "http://data.example.org/about", Kind: deref.DiscoverySeeAlso, Relation: "seealso"},
		{URI: "https://example.com", Kind: deref.DiscoveryLink},
		{URI: "http://foo.com", Kind: deref.DiscoveryLink},
		{URI: "http://test.com/absolute/link", Kind: deref.DiscoveryLink},
		{URI: "http://test.com/local", Kind: deref.DiscoveryLink, Relation: RelationNoFollow},
	})
}

func (s *linkExtractorTestSuite) TestRedirectsAreNotParsed(c *check.C) {
	payload := &crawlerPayload{URL: "http://test.com", ContentType: "text/html", RedirectTo: "http://test.com/doc"}
	_, err := payload.RawContent.WriteString(`<a href="/absolute/link"></a>`)
	c.Assert(err, check.IsNil)

	_, err = newLinkExtractor(s.netDetector).Process(context.TODO(), payload)
	c.Assert(err, check.IsNil)
	c.Assert(payload.Links, check.HasLen, 0)
}

func (s *linkExtractorTestSuite) extract(c *check.C, pageURL, content string) []deref.Link {
	payload := &crawlerPayload{URL: pageURL, ContentType: "text/html"}
	_, err := payload.RawContent.WriteString(content)
	c.Assert(err, check.IsNil)

	out, err := newLinkExtractor(s.netDetector).Process(context.TODO(), payload)
	c.Assert(err, check.IsNil)
	c.Assert(out, check.Equals, payload)

	return payload.Links
}
