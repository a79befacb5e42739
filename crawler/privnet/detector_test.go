package privnet_test

import (
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/crawler/privnet"
)

var _ = check.Suite(new(DetectorTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type DetectorTestSuite struct{}

func (s *DetectorTestSuite) TestDefaultBlocks(c *check.C) {
	detector, err := privnet.NewDetector()
	c.Assert(err, check.IsNil)

	specs := []struct {
		descr    string
		host     string
		expected bool
	}{
		{descr: "loopback", host: "127.0.0.1", expected: true},
		{descr: "IPv6 loopback", host: "::1", expected: true},
		{descr: "10.x.x.x", host: "10.0.0.128", expected: true},
		{descr: "192.168.x.x", host: "192.168.0.127", expected: true},
		{descr: "172.16.x.x", host: "172.16.10.10", expected: true},
		{descr: "link-local", host: "169.254.169.254", expected: true},
		{descr: "public IPv4", host: "8.8.8.8", expected: false},
		{descr: "public IPv6", host: "2001:4860:4860::8888", expected: false},
	}

	for _, spec := range specs {
		isPrivate, err := detector.IsNetworkPrivate(spec.host)
		c.Assert(err, check.IsNil, check.Commentf(spec.descr))
		c.Assert(isPrivate, check.Equals, spec.expected, check.Commentf(spec.descr))
	}
}

func (s *DetectorTestSuite) TestCustomBlocks(c *check.C) {
	detector, err := privnet.NewDetectorFromCIDRs("8.8.8.8/16")
	c.Assert(err, check.IsNil)

	isPrivate, err := detector.IsNetworkPrivate("8.8.4.4")
	c.Assert(err, check.IsNil)
	c.Assert(isPrivate, check.Equals, true)

	isPrivate, err = detector.IsNetworkPrivate("127.0.0.1")
	c.Assert(err, check.IsNil)
	c.Assert(isPrivate, check.Equals, false)
}

func (s *DetectorTestSuite) TestInvalidCIDR(c *check.C) {
	_, err := privnet.NewDetectorFromCIDRs("not-a-cidr")
	c.Assert(err, check.NotNil)
}
