// Package routing turns IPv4 prefixes into static routes and writes them to a
// system routing table.
package routing

import (
	"fmt"
	"net"
)

type ipv4Addr [4]byte

func toIPv4Addr(ip net.IP) (a ipv4Addr) {
	copy(a[:], ip.To4())
	return a
}

// Route is a static route to be added to the system routing table. Network
// and Mask are in the form the OS `route` tools expect: a network address and
// a dotted-quad subnet mask.
type Route struct {
	Network net.IP
	Mask    net.IP
	Gateway net.IP
	Metric  int
}

type routeKey struct {
	network ipv4Addr
	mask    ipv4Addr
	gateway ipv4Addr
	metric  int
}

func (r Route) key() routeKey {
	return routeKey{
		network: toIPv4Addr(r.Network),
		mask:    toIPv4Addr(r.Mask),
		gateway: toIPv4Addr(r.Gateway),
		metric:  r.Metric,
	}
}

// Equal reports whether r and o describe the same route.
func (r Route) Equal(o Route) bool {
	return r.key() == o.key()
}

// IPNet returns the destination of r as a *net.IPNet.
func (r Route) IPNet() *net.IPNet {
	return &net.IPNet{
		IP:   r.Network.To4(),
		Mask: net.IPMask(r.Mask.To4()),
	}
}

func (r Route) String() string {
	return fmt.Sprintf("%s mask %s via %s metric %d", r.Network, r.Mask, r.Gateway, r.Metric)
}

// RouteTable is the system routing table. AddRoute is called concurrently by
// Install, so implementations must be safe for concurrent use.
type RouteTable interface {
	AddRoute(r Route) error
}
