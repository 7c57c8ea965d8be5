// Package sys talks to the operating system: it writes routes to the system
// routing table and finds the address of the VPN interface.
package sys

import (
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
)

// ErrNoGateway is returned when neither a gateway nor a VPN interface is
// known and the interface can't be detected on this platform.
var ErrNoGateway = errors.New("no VPN gateway: set a gateway or a VPN interface")

// GatewayArgs specifies how the VPN gateway is found.
type GatewayArgs struct {
	// Gateway, when set, is used as is.
	Gateway net.IP
	// Interface is the VPN interface whose IPv4 address is the gateway. Leave
	// empty to auto detect.
	Interface string
}

var (
	lookupInterfaceIPv4 = interfaceIPv4
	detectVPNInterface  = autoDetectVPNInterface
)

// ResolveGateway returns the IPv4 next hop routes should go through.
func ResolveGateway(logger *zap.Logger, args GatewayArgs) (net.IP, error) {
	logger.Debug("+ ResolveGateway")
	defer logger.Debug("- ResolveGateway")

	if args.Gateway != nil {
		gw := args.Gateway.To4()
		if gw == nil {
			return nil, fmt.Errorf("gateway %v is not an IPv4 address", args.Gateway)
		}
		return gw, nil
	}

	name := args.Interface
	if len(name) == 0 {
		var err error
		if name, err = detectVPNInterface(logger); err != nil {
			return nil, err
		}
		logger.Sugar().Debugf("auto detected VPN interface %s", name)
	}

	ip, err := lookupInterfaceIPv4(name)
	if err != nil {
		return nil, fmt.Errorf("reading address of VPN interface %s: %w", name, err)
	}
	logger.Sugar().Debugf("VPN interface %s has address %s", name, ip)
	return ip, nil
}

// firstIPv4 returns the first IPv4 address of addrs.
func firstIPv4(name string, addrs []net.Addr) (net.IP, error) {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, fmt.Errorf("interface %s has no IPv4 address", name)
}
