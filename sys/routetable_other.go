//go:build !linux && !darwin && !windows

package sys

import (
	"fmt"
	"net"
	"runtime"

	"github.com/songgao/tagroutesd/routing"
	"go.uber.org/zap"
)

type unsupportedRouteTable struct{}

// NewRouteTable returns a table that fails every route on this platform.
func NewRouteTable(logger *zap.Logger) routing.RouteTable {
	logger.Sugar().Warnf("adding routes is not supported on %s", runtime.GOOS)
	return unsupportedRouteTable{}
}

func (unsupportedRouteTable) AddRoute(r routing.Route) error {
	return fmt.Errorf("adding routes is not supported on %s", runtime.GOOS)
}

func interfaceIPv4(name string) (net.IP, error) {
	ifce, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	addrs, err := ifce.Addrs()
	if err != nil {
		return nil, err
	}
	return firstIPv4(name, addrs)
}
