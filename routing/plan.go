package routing

import (
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
)

// Plan is an ordered, deduplicated list of routes built from catalog
// prefixes.
type Plan struct {
	Routes []Route
	// Skipped is the number of IPv6 prefixes that were left out.
	Skipped int
}

// Build converts prefixes into routes via gateway with the given metric.
// Routes keep the order of prefixes and duplicates are dropped. A malformed
// prefix aborts the build; no partial plan is returned.
func Build(logger *zap.Logger, prefixes []string, gateway net.IP, metric int) (*Plan, error) {
	logger.Debug("+ Build")
	defer logger.Debug("- Build")

	gw := gateway.To4()
	if gw == nil {
		return nil, fmt.Errorf("gateway %v is not an IPv4 address", gateway)
	}
	if metric < 0 {
		return nil, fmt.Errorf("invalid metric %d", metric)
	}

	plan := &Plan{}
	seen := make(map[routeKey]bool)
	for _, prefix := range prefixes {
		network, mask, err := Convert(prefix)
		if errors.Is(err, ErrSkippedIPv6) {
			plan.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		if HasHostBits(network, mask) {
			logger.Sugar().Warnf("prefix %s has host bits set; route is added as written", prefix)
		}

		r := Route{
			Network: network,
			Mask:    mask,
			Gateway: gw,
			Metric:  metric,
		}
		if seen[r.key()] {
			logger.Sugar().Debugf("dropping duplicate route: %s", r)
			continue
		}
		seen[r.key()] = true
		plan.Routes = append(plan.Routes, r)
	}

	logger.Sugar().Debugf("planned %d routes (%d IPv6 prefixes skipped)", len(plan.Routes), plan.Skipped)
	return plan, nil
}
