package sys

import (
	"net"
	"syscall"
	"testing"

	"github.com/songgao/tagroutesd/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/route"
)

func TestToRouteMessage(t *testing.T) {
	msg := toRouteMessage(routing.Route{
		Network: net.IPv4(13, 69, 105, 0),
		Mask:    net.IPv4(255, 255, 255, 0),
		Gateway: net.IPv4(10, 100, 0, 2),
		Metric:  1,
	}, 3)

	assert.Equal(t, syscall.RTM_ADD, msg.Type)
	assert.Equal(t, 3, msg.Seq)
	assert.NotZero(t, msg.Flags&syscall.RTF_GATEWAY)
	assert.Equal(t, &route.Inet4Addr{IP: [4]byte{13, 69, 105, 0}}, msg.Addrs[syscall.RTAX_DST])
	assert.Equal(t, &route.Inet4Addr{IP: [4]byte{255, 255, 255, 0}}, msg.Addrs[syscall.RTAX_NETMASK])

	_, err := msg.Marshal()
	require.NoError(t, err)
}
