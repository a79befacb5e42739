package partition

import (
	"errors"
	"net"
	"os"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(DetectorTestSuite))

type DetectorTestSuite struct{}

func (s *DetectorTestSuite) TearDownTest(c *check.C) {
	getHostname = os.Hostname
	lookupSRV = net.LookupSRV
}

func (s *DetectorTestSuite) TestDetectFromSRVRecords(c *check.C) {
	getHostname = func() (string, error) { return "ulookup-refresh-2", nil }
	lookupSRV = func(service, proto, name string) (string, []*net.SRV, error) {
		c.Assert(name, check.Equals, "ulookup-headless")

		return name, make([]*net.SRV, 3), nil
	}

	partition, numOfPartitions, err := DetectFromSRVRecords("ulookup-headless").PartitionInfo()
	c.Assert(err, check.IsNil)
	c.Assert(partition, check.Equals, 2)
	c.Assert(numOfPartitions, check.Equals, 3)
}

func (s *DetectorTestSuite) TestSRVRecordsNotPublishedYet(c *check.C) {
	getHostname = func() (string, error) { return "ulookup-0", nil }
	lookupSRV = func(string, string, string) (string, []*net.SRV, error) {
		return "", nil, errors.New("no such host")
	}

	_, _, err := DetectFromSRVRecords("ulookup-headless").PartitionInfo()
	c.Assert(errors.Is(err, ErrNoPartitionDataAvailableYet), check.Equals, true)
}

func (s *DetectorTestSuite) TestHostNameWithoutOrdinal(c *check.C) {
	getHostname = func() (string, error) { return "laptop", nil }

	_, _, err := DetectFromSRVRecords("ulookup-headless").PartitionInfo()
	c.Assert(err, check.ErrorMatches, `.*host name "laptop" has no ordinal suffix`)
}

func (s *DetectorTestSuite) TestFromMode(c *check.C) {
	det, err := FromMode("single")
	c.Assert(err, check.IsNil)
	c.Assert(det, check.Equals, Detector(Fixed{Partition: 0, NumOfPartitions: 1}))

	det, err = FromMode("dns=ulookup-headless")
	c.Assert(err, check.IsNil)
	c.Assert(det, check.Equals, Detector(SRVRecord{srvName: "ulookup-headless"}))

	_, err = FromMode("dns=")
	c.Assert(err, check.ErrorMatches, ".*missing service name")

	_, err = FromMode("zookeeper")
	c.Assert(err, check.ErrorMatches, "unsupported partition detector mode.*")
}
