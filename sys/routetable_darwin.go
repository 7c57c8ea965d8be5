package sys

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"syscall"

	"github.com/songgao/tagroutesd/routing"
	"go.uber.org/zap"
	"golang.org/x/net/route"
)

const (
	routeMessageVersion = 5
)

type ipv4Addr [4]byte

func toIPv4Addr(ip net.IP) (a ipv4Addr) {
	copy(a[:], ip.To4())
	return a
}

type routeSocketTable struct {
	logger *zap.Logger
	seq    int32
}

// NewRouteTable returns the system routing table. BSD routes have no metric,
// so Route.Metric is not written.
func NewRouteTable(logger *zap.Logger) routing.RouteTable {
	return &routeSocketTable{logger: logger}
}

func toRouteMessage(r routing.Route, seq int) *route.RouteMessage {
	return &route.RouteMessage{
		Version: routeMessageVersion,
		Type:    syscall.RTM_ADD,
		Flags:   syscall.RTF_UP | syscall.RTF_GATEWAY | syscall.RTF_STATIC,
		ID:      uintptr(os.Getpid()),
		Seq:     seq,
		Addrs: []route.Addr{
			syscall.RTAX_DST:     &route.Inet4Addr{IP: toIPv4Addr(r.Network)},
			syscall.RTAX_GATEWAY: &route.Inet4Addr{IP: toIPv4Addr(r.Gateway)},
			syscall.RTAX_NETMASK: &route.Inet4Addr{IP: toIPv4Addr(r.Mask)},
		},
	}
}

func (t *routeSocketTable) AddRoute(r routing.Route) error {
	seq := int(atomic.AddInt32(&t.seq, 1))
	b, err := toRouteMessage(r, seq).Marshal()
	if err != nil {
		return err
	}

	fd, err := syscall.Socket(syscall.AF_ROUTE, syscall.SOCK_RAW, 0)
	if err != nil {
		return err
	}
	defer syscall.Close(fd)

	t.logger.Sugar().Debugf("writing ADD (seq %d) for route %s", seq, r)
	if _, err = syscall.Write(fd, b); err != nil {
		return fmt.Errorf("writing route message seq %d: %w", seq, err)
	}
	return nil
}

func interfaceIPv4(name string) (net.IP, error) {
	b, err := route.FetchRIB(syscall.AF_INET, route.RIBTypeInterface, 0)
	if err != nil {
		return nil, err
	}
	msgs, err := route.ParseRIB(route.RIBTypeInterface, b)
	if err != nil {
		return nil, err
	}

	index := 0
loopLink:
	for _, msg := range msgs {
		m, ok := msg.(*route.InterfaceMessage)
		if !ok {
			continue
		}
		for _, addr := range m.Addrs {
			if linkAddr, ok := addr.(*route.LinkAddr); ok && linkAddr.Name == name {
				index = linkAddr.Index
				break loopLink
			}
		}
	}
	if index == 0 {
		return nil, errors.New("interface not found")
	}

	for _, msg := range msgs {
		m, ok := msg.(*route.InterfaceAddrMessage)
		if !ok || m.Index != index || len(m.Addrs) <= syscall.RTAX_IFA {
			continue
		}
		if ipAddr, ok := m.Addrs[syscall.RTAX_IFA].(*route.Inet4Addr); ok {
			return net.IP(ipAddr.IP[:]).To4(), nil
		}
	}
	return nil, fmt.Errorf("interface %s has no IPv4 address", name)
}
