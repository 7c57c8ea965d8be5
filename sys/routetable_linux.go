package sys

import (
	"fmt"
	"net"

	"github.com/songgao/tagroutesd/routing"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

type netlinkRouteTable struct {
	logger *zap.Logger
}

// NewRouteTable returns the system routing table.
func NewRouteTable(logger *zap.Logger) routing.RouteTable {
	return &netlinkRouteTable{logger: logger}
}

func toNetlinkRoute(r routing.Route) *netlink.Route {
	return &netlink.Route{
		Family:   netlink.FAMILY_V4,
		Dst:      r.IPNet(),
		Gw:       r.Gateway.To4(),
		Priority: r.Metric,
		Protocol: netlink.RouteProtocol(unix.RTPROT_STATIC),
	}
}

func (t *netlinkRouteTable) AddRoute(r routing.Route) error {
	t.logger.Sugar().Debugf("adding route %s", r)
	if err := netlink.RouteAdd(toNetlinkRoute(r)); err != nil {
		return fmt.Errorf("netlink: %w", err)
	}
	return nil
}

func interfaceIPv4(name string) (net.IP, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, err
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		if ip := addr.IP.To4(); ip != nil {
			return ip, nil
		}
	}
	return nil, fmt.Errorf("interface %s has no IPv4 address", name)
}
