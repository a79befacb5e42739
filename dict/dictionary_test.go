package dict

import (
	"fmt"
	"sync"
	"testing"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(DictionaryTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type DictionaryTestSuite struct{}

func (s *DictionaryTestSuite) TestInternIsStable(c *check.C) {
	d := New()

	a := d.Intern("http://example.com/a")
	b := d.Intern("http://example.com/b")

	c.Assert(a, check.Not(check.Equals), Unknown)
	c.Assert(b, check.Not(check.Equals), a)
	c.Assert(d.Intern("http://example.com/a"), check.Equals, a)
	c.Assert(d.Len(), check.Equals, 2)

	uri, ok := d.URI(b)
	c.Assert(ok, check.Equals, true)
	c.Assert(uri, check.Equals, "http://example.com/b")
}

func (s *DictionaryTestSuite) TestUnknown(c *check.C) {
	d := New()

	c.Assert(d.Intern(""), check.Equals, Unknown)

	_, ok := d.URI(Unknown)
	c.Assert(ok, check.Equals, false)

	_, ok = d.URI(ID(42))
	c.Assert(ok, check.Equals, false)

	_, ok = d.Lookup("http://example.com")
	c.Assert(ok, check.Equals, false)
}

func (s *DictionaryTestSuite) TestConcurrentIntern(c *check.C) {
	var (
		d       = New()
		wg      sync.WaitGroup
		results = make([][]ID, 8)
	)

	for i := 0; i < len(results); i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				results[i] = append(results[i], d.Intern(fmt.Sprintf("http://example.com/%d", j)))
			}
		}(i)
	}

	wg.Wait()

	c.Assert(d.Len(), check.Equals, 100)
	for i := 1; i < len(results); i++ {
		c.Assert(results[i], check.DeepEquals, results[0])
	}
}
