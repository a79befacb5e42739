package crawler

import (
	"context"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(textExtractorTestSuite))

type textExtractorTestSuite struct{}

func (s *textExtractorTestSuite) TestTextOnly(c *check.C) {
	content := `<div>Some<span> content</span> rock &amp; roll</div>
<buttton>Search</button>
`
	assertExtractedText(c, content, "", "Some content rock & roll Search")
}

func (s *textExtractorTestSuite) TestTitleAndText(c *check.C) {
	content := `<html>
<head>
<title>Test   title</title>
</head>
<body>
<div>Some<span> content</span></div>
</body>
</html>
`
	assertExtractedText(c, content, "Test title", "Some content")
}

func (s *textExtractorTestSuite) TestNonHTMLPayloadIsUntouched(c *check.C) {
	payload := &crawlerPayload{ContentType: "application/json"}
	_, err := payload.RawContent.WriteString(`{"title": "x"}`)
	c.Assert(err, check.IsNil)

	_, err = newTextExtractor().Process(context.TODO(), payload)
	c.Assert(err, check.IsNil)
	c.Assert(payload.Title, check.Equals, "")
	c.Assert(payload.TextContent, check.Equals, "")
}

func assertExtractedText(c *check.C, content, expectedTitle, expectedText string) {
	payload := &crawlerPayload{ContentType: "text/html"}
	_, err := payload.RawContent.WriteString(content)
	c.Assert(err, check.IsNil)

	out, err := newTextExtractor().Process(context.TODO(), payload)
	c.Assert(err, check.IsNil)
	c.Assert(out, check.Equals, payload)
	c.Assert(payload.Title, check.Equals, expectedTitle)
	c.Assert(payload.TextContent, check.Equals, expectedText)
}
