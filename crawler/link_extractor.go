package crawler

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/pipeline"
)

var _ pipeline.Processor = (*linkExtractor)(nil)

// RelationNoFollow tags anchors carrying rel="nofollow".
const RelationNoFollow = "nofollow"

var (
	// Locate the <base href="xxx"> tag and return the value of the href attribute.
	baseHrefRegex = regexp.MustCompile(`(?i)<base.*?href\s*?=\s*?"(.*?)\s*?"`)
	// Locate the <a href="xxx"> tag and return the value of the href attribute.
	findLinkRegex = regexp.MustCompile(`(?i)<a.*?href\s*?=\s*?"\s*?(.*?)\s*?".*?>`)
	noFollowRegex = regexp.MustCompile(`(?i)rel\s*?=\s*?"?nofollow"?`)

	// <link> tags and their attributes.
	linkTagRegex  = regexp.MustCompile(`(?i)<link\s[^>]*>`)
	relAttrRegex  = regexp.MustCompile(`(?i)\brel\s*=\s*"([^"]*)"`)
	hrefAttrRegex = regexp.MustCompile(`(?i)\bhref\s*=\s*"\s*([^"]*?)\s*"`)

	// Relations of <link> tags that point to related descriptions.
	seeAlsoRelations = map[string]struct{}{
		"alternate": {},
		"meta":      {},
		"seealso":   {},
	}
)

// linkExtractor resolves the anchors and see-also <link> tags of HTML
// documents into absolute links.
type linkExtractor struct {
	netDetector PrivateNetworkDetector
}

func newLinkExtractor(netDetector PrivateNetworkDetector) *linkExtractor {
	return &linkExtractor{netDetector}
}

func (p *linkExtractor) Process(
	ctx context.Context, payload pipeline.Payload,
) (pipeline.Payload, error) {

	cPayload := payload.(*crawlerPayload)
	if !cPayload.isHTML() {
		return cPayload, nil
	}

	relativeTo, err := url.Parse(cPayload.URL)
	if err != nil {
		return nil, err
	}

	content := cPayload.RawContent.String()

	// A <base href> tag overrides the document URL for relative links.
	if baseMatches := baseHrefRegex.FindStringSubmatch(content); len(baseMatches) == 2 && baseMatches[1] != "" {
		if baseURL := resolveToAbsoluteURL(relativeTo, ensureTrailingSlash(baseMatches[1])); baseURL != nil {
			relativeTo = baseURL
		}
	}

	seen := make(map[string]struct{})
	add := func(target string, kind deref.DiscoveryKind, relation string) {
		resolved := resolveToAbsoluteURL(relativeTo, target)
		if !p.shouldRetainURL(relativeTo.Hostname(), resolved) {
			return
		}

		resolved.Fragment = ""
		resolved.RawFragment = ""
		link := resolved.String()

		if exclusionRegex.MatchString(link) {
			return
		}

		if _, exists := seen[link]; exists {
			return
		}
		seen[link] = struct{}{}

		cPayload.Links = append(cPayload.Links, deref.Link{URI: link, Kind: kind, Relation: relation})
	}

	for _, tag := range linkTagRegex.FindAllString(content, -1) {
		rel := relAttrRegex.FindStringSubmatch(tag)
		href := hrefAttrRegex.FindStringSubmatch(tag)
		if len(rel) != 2 || len(href) != 2 {
			continue
		}

		if relation, ok := seeAlsoRelation(rel[1]); ok {
			add(href[1], deref.DiscoverySeeAlso, relation)
		}
	}

	for _, match := range findLinkRegex.FindAllStringSubmatch(content, -1) {
		var relation string
		if noFollowRegex.MatchString(match[0]) {
			relation = RelationNoFollow
		}

		add(match[1], deref.DiscoveryLink, relation)
	}

	return cPayload, nil
}

// seeAlsoRelation returns the first see-also relation of a rel attribute.
func seeAlsoRelation(rel string) (string, bool) {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if _, ok := seeAlsoRelations[token]; ok {
			return token, true
		}
	}

	return "", false
}

func (p *linkExtractor) shouldRetainURL(srcHost string, url *url.URL) bool {
	if url == nil {
		return false
	}

	if url.Scheme != "http" && url.Scheme != "https" {
		return false
	}

	// Same-host links passed the private network check in the fetcher.
	if srcHost == url.Hostname() {
		return true
	}

	isPrivate, err := p.netDetector.IsNetworkPrivate(url.Hostname())
	if err != nil || isPrivate {
		return false
	}

	return true
}

func ensureTrailingSlash(s string) string {
	if !strings.HasSuffix(s, "/") {
		return s + "/"
	}

	return s
}

// resolveToAbsoluteURL expands target into an absolute URL. Targets that
// start with '//' inherit the scheme of relativeTo; every other target is
// resolved as a reference relative to it. It returns nil for empty or
// unparsable targets.
func resolveToAbsoluteURL(relativeTo *url.URL, target string) *url.URL {
	if target == "" {
		return nil
	}

	if strings.HasPrefix(target, "//") {
		target = relativeTo.Scheme + ":" + target
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return nil
	}

	return relativeTo.ResolveReference(parsedURL)
}
