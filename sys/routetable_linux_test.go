package sys

import (
	"net"
	"testing"

	"github.com/songgao/tagroutesd/routing"
	"github.com/stretchr/testify/assert"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

func TestToNetlinkRoute(t *testing.T) {
	nr := toNetlinkRoute(routing.Route{
		Network: net.IPv4(13, 69, 105, 0),
		Mask:    net.IPv4(255, 255, 255, 0),
		Gateway: net.IPv4(10, 8, 0, 1),
		Metric:  7,
	})

	assert.Equal(t, netlink.FAMILY_V4, nr.Family)
	assert.Equal(t, "13.69.105.0/24", nr.Dst.String())
	assert.Equal(t, "10.8.0.1", nr.Gw.String())
	assert.Equal(t, 7, nr.Priority)
	assert.Equal(t, netlink.RouteProtocol(unix.RTPROT_STATIC), nr.Protocol)
}
