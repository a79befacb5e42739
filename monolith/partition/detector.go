package partition

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

var (
	// Overridden by tests.
	getHostname = os.Hostname
	lookupSRV   = net.LookupSRV

	// ErrNoPartitionDataAvailableYet is returned by the SRV detector while
	// the SRV records of the service are not published yet. This happens
	// for a short while after a stateful set is deployed.
	ErrNoPartitionDataAvailableYet = errors.New("no partition data available yet")
)

// Detector should be implemented by types that assign the running replica
// to a partition of the link graph.
type Detector interface {
	// PartitionInfo returns the partition of this replica and the total
	// number of partitions.
	PartitionInfo() (int, int, error)
}

// Fixed is a Detector with a static assignment. Fixed{0, 1} makes a single
// replica responsible for the whole graph.
type Fixed struct {
	Partition       int
	NumOfPartitions int
}

// PartitionInfo implements Detector.
func (d Fixed) PartitionInfo() (int, int, error) {
	return d.Partition, d.NumOfPartitions, nil
}

// SRVRecord derives the partition from the ordinal suffix of the host name
// (NAME-ORDINAL, as assigned to stateful set pods) and the number of
// partitions from the number of SRV records of a headless service.
type SRVRecord struct {
	srvName string
}

// DetectFromSRVRecords returns a detector that queries the SRV records of
// the srvName service.
func DetectFromSRVRecords(srvName string) SRVRecord {
	return SRVRecord{srvName: srvName}
}

// PartitionInfo implements Detector.
func (d SRVRecord) PartitionInfo() (int, int, error) {
	hostname, err := getHostname()
	if err != nil {
		return -1, -1, fmt.Errorf("partition detector: unable to detect host name: %w", err)
	}

	ordinal := hostname[strings.LastIndex(hostname, "-")+1:]
	partition, err := strconv.Atoi(ordinal)
	if err != nil {
		return -1, -1, fmt.Errorf("partition detector: host name %q has no ordinal suffix", hostname)
	}

	_, addrs, err := lookupSRV("", "", d.srvName)
	if err != nil {
		return -1, -1, ErrNoPartitionDataAvailableYet
	}

	return partition, len(addrs), nil
}

// FromMode builds a detector from its command-line form: "single" for a
// lone replica or "dns=SERVICE" for SRV based detection.
func FromMode(mode string) (Detector, error) {
	switch {
	case mode == "single":
		return Fixed{Partition: 0, NumOfPartitions: 1}, nil
	case strings.HasPrefix(mode, "dns="):
		name := strings.TrimPrefix(mode, "dns=")
		if name == "" {
			return nil, fmt.Errorf("partition detector mode %q: missing service name", mode)
		}

		return DetectFromSRVRecords(name), nil
	default:
		return nil, fmt.Errorf("unsupported partition detector mode: %q", mode)
	}
}
