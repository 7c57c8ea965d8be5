// Package dns resolves extra domains that should be routed through the VPN
// alongside the catalog ranges.
package dns

import (
	"bytes"
	"net"
	"sort"

	"go.uber.org/zap"
)

func sameIPs(a, b []net.IP) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[ipv4Addr]bool)
	for _, ip := range a {
		set[ipToArray(ip)] = true
	}
	for _, ip := range b {
		if !set[ipToArray(ip)] {
			return false
		}
	}
	return true
}

// GetIPs returns IP address for domains. The IP address include both currently
// resolved addresses from the DNS, and any addresses from previously seen
// records that haven't expired.
func (r *Resolver) GetIPs(logger *zap.Logger, dnsServer net.IP, domains []string) (ips []net.IP, changed bool) {
	logger.Debug("+ GetIPs")
	defer logger.Debug("- GetIPs")
	logger.Sugar().Debugf("using %s for DNS lookups", dnsServer)
	for _, domain := range domains {
		domainIPs := r.get(logger, dnsServer, domain)
		logger.Sugar().Debugf("resolved IPs for %s: %s", domain, domainIPs)
		ips = append(ips, domainIPs...)
	}

	r.lock.Lock()
	changed = !sameIPs(r.lastIPs, ips)
	r.lastIPs = ips
	r.lock.Unlock()
	return ips, changed
}

// Prefixes is like GetIPs but returns deduplicated /32 prefixes in a stable
// order, ready to be appended to catalog prefixes.
func (r *Resolver) Prefixes(logger *zap.Logger, dnsServer net.IP, domains []string) (prefixes []string, changed bool) {
	ips, changed := r.GetIPs(logger, dnsServer, domains)
	sort.Slice(ips, func(i, j int) bool {
		return bytes.Compare(ips[i].To4(), ips[j].To4()) < 0
	})
	seen := make(map[ipv4Addr]bool)
	for _, ip := range ips {
		if seen[ipToArray(ip)] {
			continue
		}
		seen[ipToArray(ip)] = true
		prefixes = append(prefixes, ip.String()+"/32")
	}
	return prefixes, changed
}
