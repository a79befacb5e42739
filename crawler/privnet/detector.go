// Package privnet detects hosts that resolve to private network addresses.
package privnet

import "net"

var defaultPrivateCIDRs = []string{
	// Loopback / Localhost.
	"127.0.0.0/8", // IPv4
	"::1/128",     // IPv6
	// Private networks.
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	// Link-local addresses.
	"169.254.0.0/16",
	"fe80::/10",
	// Misc.
	"0.0.0.0/8",          // All IP addresses on a local machine.
	"255.255.255.255/32", // Broadcast address for the current network.
	"fc00::/7",           // IPv6 unique local addr.
}

// NetDetector checks whether a host name resolves to a private network address.
type NetDetector struct {
	privateNetBlocks []*net.IPNet
}

// NewDetector returns a detector for the loopback, RFC1918, link-local and
// IPv6 unique local ranges.
func NewDetector() (*NetDetector, error) {
	return NewDetectorFromCIDRs(defaultPrivateCIDRs...)
}

// NewDetectorFromCIDRs returns a detector for the given CIDR blocks only.
func NewDetectorFromCIDRs(privateNetworkCIDRs ...string) (*NetDetector, error) {
	netBlocks, err := parseCIDRs(privateNetworkCIDRs...)
	if err != nil {
		return nil, err
	}

	return &NetDetector{privateNetBlocks: netBlocks}, nil
}

// IsNetworkPrivate reports whether any address the host resolves to lies
// in a private block. Literal IPs are checked without a lookup.
func (d *NetDetector) IsNetworkPrivate(host string) (bool, error) {
	ips := []net.IP{net.ParseIP(host)}
	if ips[0] == nil {
		resolved, err := net.LookupIP(host)
		if err != nil {
			return false, err
		}
		ips = resolved
	}

	for _, ip := range ips {
		for _, netBlock := range d.privateNetBlocks {
			if netBlock.Contains(ip) {
				return true, nil
			}
		}
	}

	return false, nil
}

func parseCIDRs(cidrs ...string) ([]*net.IPNet, error) {
	var err error
	ipNets := make([]*net.IPNet, len(cidrs))

	for i, host := range cidrs {
		if _, ipNets[i], err = net.ParseCIDR(host); err != nil {
			return nil, err
		}
	}

	return ipNets, nil
}
