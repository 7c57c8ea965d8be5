package sys

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubLookups(t *testing.T, addrs map[string]net.IP, detected string) {
	origLookup, origDetect := lookupInterfaceIPv4, detectVPNInterface
	t.Cleanup(func() {
		lookupInterfaceIPv4, detectVPNInterface = origLookup, origDetect
	})
	lookupInterfaceIPv4 = func(name string) (net.IP, error) {
		ip, ok := addrs[name]
		if !ok {
			return nil, errors.New("interface not found")
		}
		return ip, nil
	}
	detectVPNInterface = func(logger *zap.Logger) (string, error) {
		if detected == "" {
			return "", ErrNoGateway
		}
		return detected, nil
	}
}

func TestResolveGatewayExplicit(t *testing.T) {
	stubLookups(t, nil, "")
	gw, err := ResolveGateway(zap.NewNop(), GatewayArgs{Gateway: net.ParseIP("10.8.0.1"), Interface: "ppp0"})
	require.NoError(t, err)
	assert.Equal(t, "10.8.0.1", gw.String())
	assert.Len(t, gw, net.IPv4len)

	_, err = ResolveGateway(zap.NewNop(), GatewayArgs{Gateway: net.ParseIP("2001:db8::1")})
	assert.Error(t, err)
}

func TestResolveGatewayFromInterface(t *testing.T) {
	stubLookups(t, map[string]net.IP{"ppp0": net.IPv4(10, 8, 0, 6)}, "")
	gw, err := ResolveGateway(zap.NewNop(), GatewayArgs{Interface: "ppp0"})
	require.NoError(t, err)
	assert.Equal(t, "10.8.0.6", gw.String())

	_, err = ResolveGateway(zap.NewNop(), GatewayArgs{Interface: "tun9"})
	assert.Error(t, err)
}

func TestResolveGatewayAutoDetect(t *testing.T) {
	stubLookups(t, map[string]net.IP{"utun6": net.IPv4(10, 100, 0, 2)}, "utun6")
	gw, err := ResolveGateway(zap.NewNop(), GatewayArgs{})
	require.NoError(t, err)
	assert.Equal(t, "10.100.0.2", gw.String())

	stubLookups(t, nil, "")
	_, err = ResolveGateway(zap.NewNop(), GatewayArgs{})
	assert.ErrorIs(t, err, ErrNoGateway)
}

func TestFirstIPv4(t *testing.T) {
	ip, err := firstIPv4("en0", []net.Addr{
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPNet{IP: net.IPv4(192, 168, 1, 10), Mask: net.CIDRMask(24, 32)},
	})
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", ip.String())

	_, err = firstIPv4("en0", []net.Addr{&net.IPAddr{IP: net.ParseIP("fe80::1")}})
	assert.Error(t, err)
}
