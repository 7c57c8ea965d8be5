package sys

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/songgao/tagroutesd/routing"
	"go.uber.org/zap"
)

type routeCmdTable struct {
	logger *zap.Logger
}

// NewRouteTable returns the system routing table.
func NewRouteTable(logger *zap.Logger) routing.RouteTable {
	return &routeCmdTable{logger: logger}
}

func routeAddArgs(r routing.Route) []string {
	return []string{
		"ADD", r.Network.String(),
		"MASK", r.Mask.String(),
		r.Gateway.String(),
		"METRIC", strconv.Itoa(r.Metric),
	}
}

func (t *routeCmdTable) AddRoute(r routing.Route) error {
	args := routeAddArgs(r)
	t.logger.Sugar().Debugf("running route %s", strings.Join(args, " "))
	out, err := exec.Command("route", args...).CombinedOutput()
	msg := strings.TrimSpace(string(out))
	if err != nil {
		return fmt.Errorf("route %s: %v: %s", args[0], err, msg)
	}
	// route.exe exits 0 on some failures
	if strings.Contains(strings.ToLower(msg), "failed") {
		return fmt.Errorf("route %s: %s", args[0], msg)
	}
	return nil
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
