package sys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scutilOutput = `Network information

IPv4 network interface information
   utun6 : flags      : 0x5 (IPv4,DNS)
           address    : 10.100.0.2
           VPN server : 127.0.0.1
           reach      : 0x00000003 (Reachable,Transient Connection)
     en0 : flags      : 0x5 (IPv4,DNS)
           address    : 10.0.1.7
           reach      : 0x00000002 (Reachable)

   REACH : flags 0x00000003 (Reachable,Transient Connection)

IPv6 network interface information
   No IPv6 states found


   REACH : flags 0x00000000 (Not Reachable)

Network interfaces: utun6 en0
`

func TestFindIfces(t *testing.T) {
	ifces, err := findIfces([]byte(scutilOutput))
	require.NoError(t, err)
	assert.Equal(t, []ifceForAutoDetect{
		{ifceName: "utun6", isVPN: true},
		{ifceName: "en0", isVPN: false},
	}, ifces)

	name, err := pickVPNIfce(ifces)
	require.NoError(t, err)
	assert.Equal(t, "utun6", name)
}

func TestFindIfcesWithoutIPv6Section(t *testing.T) {
	ifces, err := findIfces([]byte("IPv4 network interface information\n     en0 : flags      : 0x5 (IPv4,DNS)\n"))
	require.NoError(t, err)
	assert.Equal(t, []ifceForAutoDetect{{ifceName: "en0"}}, ifces)

	_, err = findIfces([]byte("No network information\n"))
	assert.Error(t, err)
}

func TestPickVPNIfce(t *testing.T) {
	name, err := pickVPNIfce([]ifceForAutoDetect{{ifceName: "en0"}, {ifceName: "utun3"}})
	require.NoError(t, err)
	assert.Equal(t, "utun3", name)

	_, err = pickVPNIfce([]ifceForAutoDetect{{ifceName: "en0"}, {ifceName: "en1"}})
	assert.Error(t, err)

	_, err = pickVPNIfce([]ifceForAutoDetect{{ifceName: "utun1", isVPN: true}, {ifceName: "utun2", isVPN: true}})
	assert.Error(t, err)
}
