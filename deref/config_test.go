package deref

import (
	"context"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/dict"
)

var _ = check.Suite(new(ConfigTestSuite))

type ConfigTestSuite struct{}

type dereferencerFunc func(ctx context.Context, uri string) (*Document, error)

func (f dereferencerFunc) Dereference(ctx context.Context, uri string) (*Document, error) {
	return f(ctx, uri)
}

func (s *ConfigTestSuite) TestConfigValidation(c *check.C) {
	originalConfig := Config{
		Dereferencer: dereferencerFunc(nil),
		Dictionary:   dict.New(),
		NumOfWorkers: 2,
	}

	config := originalConfig
	c.Assert(config.validate(), check.IsNil)
	c.Assert(config.Clock, check.Not(check.IsNil), check.Commentf("default clock was not assigned"))
	c.Assert(config.Logger, check.Not(check.IsNil), check.Commentf("default logger was not assigned"))

	config = originalConfig
	config.Dereferencer = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*dereferencer not provided.*")

	config = originalConfig
	config.Dictionary = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*dictionary not provided.*")

	config = originalConfig
	config.NumOfWorkers = 0
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*invalid value for workers.*")
}

func (s *ConfigTestSuite) TestDiscoveries(c *check.C) {
	d := dict.New()
	mgr := &Manager{config: Config{Dictionary: d}}
	t := &derefTask{id: d.Intern("http://example.com/"), mgr: mgr}

	found := t.discoveries(&Document{
		URI: "http://example.com/",
		Links: []Link{
			{URI: "http://example.com/a", Kind: DiscoveryLink},
			{URI: "http://example.com/a", Kind: DiscoveryLink},
			{URI: "http://example.com/", Kind: DiscoveryLink},
			{URI: "http://example.com/alt", Kind: DiscoverySeeAlso, Relation: "alternate"},
			{URI: "http://example.com/b"},
			{URI: ""},
		},
	})

	c.Assert(found, check.DeepEquals, []Discovery{
		{ID: d.Intern("http://example.com/a"), Kind: DiscoveryLink},
		{ID: d.Intern("http://example.com/alt"), Kind: DiscoverySeeAlso},
		{ID: d.Intern("http://example.com/b"), Kind: DiscoveryLink},
	})

	found = t.discoveries(&Document{URI: "http://example.com/", RedirectTo: "http://example.com/moved"})
	c.Assert(found, check.DeepEquals, []Discovery{
		{ID: d.Intern("http://example.com/moved"), Kind: DiscoveryRedirect},
	})
}
