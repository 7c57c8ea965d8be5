package sys

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
)

/* Example output of `scutil --nwi`:

Network information

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

*/

var reScutilStart = regexp.MustCompile("IPv4 network interface information")
var reScutilEnd = regexp.MustCompile("IPv6 network interface information")
var reScutilInterfaceStart = regexp.MustCompile(`([a-z0-9]+) : flags\s+: 0x(\S+)`)
var reScutilInterfaceVPNServer = regexp.MustCompile(`\s+VPN server\s+: (\S+)`)
var reUTUN = regexp.MustCompile(`^utun\d+$`)

type ifceForAutoDetect struct {
	ifceName string
	isVPN    bool
}

func findIfces(output []byte) (ifces []ifceForAutoDetect, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))

	started := false
	for scanner.Scan() {
		if reScutilStart.Match(scanner.Bytes()) {
			started = true
			break
		}
	}
	if !started {
		return nil, fmt.Errorf("no IPv4 section in scutil output")
	}

	current := ifceForAutoDetect{}
	for scanner.Scan() {
		line := scanner.Bytes()
		if matches := reScutilInterfaceStart.FindSubmatch(line); len(matches) > 0 {
			if len(current.ifceName) > 0 {
				ifces = append(ifces, current)
			}
			current = ifceForAutoDetect{ifceName: string(matches[1])}
		} else if reScutilInterfaceVPNServer.Match(line) {
			current.isVPN = true
		} else if reScutilEnd.Match(line) {
			break
		}
	}
	if len(current.ifceName) > 0 {
		ifces = append(ifces, current)
	}
	return ifces, scanner.Err()
}

// pickVPNIfce picks the VPN interface out of the interfaces reported by
// scutil. Interfaces flagged with a VPN server win; otherwise a single utun
// interface is taken.
func pickVPNIfce(ifces []ifceForAutoDetect) (string, error) {
	var vpn, utun []string
	for _, ifce := range ifces {
		if ifce.isVPN {
			vpn = append(vpn, ifce.ifceName)
		}
		if reUTUN.MatchString(ifce.ifceName) {
			utun = append(utun, ifce.ifceName)
		}
	}

	switch {
	case len(vpn) == 1:
		return vpn[0], nil
	case len(vpn) > 1:
		return "", fmt.Errorf("failed to auto detect: multiple interfaces have a VPN server: %v", vpn)
	case len(utun) == 1:
		return utun[0], nil
	default:
		return "", fmt.Errorf("failed to auto detect: no VPN server and %d utun interfaces in %#+v", len(utun), ifces)
	}
}
