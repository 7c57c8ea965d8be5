package routing

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

var (
	// ErrMalformedAddress is returned for a prefix that is neither IPv4 CIDR
	// nor an IPv6 literal.
	ErrMalformedAddress = errors.New("malformed address")
	// ErrSkippedIPv6 is returned by Convert for IPv6 prefixes. No route is
	// produced for them.
	ErrSkippedIPv6 = errors.New("IPv6 prefix skipped")
)

// Convert splits an A.B.C.D/N prefix into its network address and subnet
// mask. The network address is returned as written; host bits beyond N are
// not cleared (see HasHostBits).
func Convert(cidr string) (network, mask net.IP, err error) {
	if strings.Contains(cidr, ":") {
		return nil, nil, ErrSkippedIPv6
	}

	parts := strings.Split(strings.TrimSpace(cidr), "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: %q is not in A.B.C.D/N form", ErrMalformedAddress, cidr)
	}

	ones, err := strconv.Atoi(parts[1])
	if err != nil || strings.HasPrefix(parts[1], "+") || strings.HasPrefix(parts[1], "-") || ones > 32 {
		return nil, nil, fmt.Errorf("%w: %q has invalid prefix length %q", ErrMalformedAddress, cidr, parts[1])
	}

	network = net.ParseIP(parts[0]).To4()
	if network == nil {
		return nil, nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrMalformedAddress, parts[0])
	}

	return network, net.IP(net.CIDRMask(ones, 32)), nil
}

// HasHostBits reports whether network has bits set outside of mask, i.e. it
// is not a network address.
func HasHostBits(network, mask net.IP) bool {
	return !network.Mask(net.IPMask(mask.To4())).Equal(network)
}
