// Package provision ties catalog filtering, route planning and route
// installation together.
package provision

import (
	"net"

	"github.com/songgao/tagroutesd/catalog"
	"github.com/songgao/tagroutesd/routing"
	"go.uber.org/zap"
)

// Provisioner computes and installs the routes for a catalog. Gateway and
// Metric apply to every route of a plan.
type Provisioner struct {
	Logger  *zap.Logger
	Entries []catalog.Entry
	// ExtraPrefixes are routed in addition to the catalog prefixes that match
	// the filter.
	ExtraPrefixes []string
	Gateway       net.IP
	Metric        int
	Concurrency   int
	Table         routing.RouteTable
}

// PlanSummary describes a route plan.
type PlanSummary struct {
	// Matched is the number of catalog entries selected by the filter.
	Matched int
	Routes  int
	// Skipped is the number of IPv6 prefixes left out of the plan.
	Skipped int
	Plan    *routing.Plan
}

// InstallSummary describes the result of installing a plan.
type InstallSummary struct {
	PlanSummary
	Attempted int
	Succeeded int
	Failed    int
	Outcomes  []routing.Outcome
}

func (p *Provisioner) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Provisioner) plan(f catalog.Filter) (PlanSummary, error) {
	logger := p.logger()
	matched := catalog.Matched(p.Entries, f)
	logger.Sugar().Debugf("filter %s matched %d catalog entries", f, len(matched))

	prefixes := catalog.Select(matched, catalog.Filter{})
	prefixes = append(prefixes, p.ExtraPrefixes...)

	plan, err := routing.Build(logger, prefixes, p.Gateway, p.Metric)
	if err != nil {
		return PlanSummary{}, err
	}
	return PlanSummary{
		Matched: len(matched),
		Routes:  len(plan.Routes),
		Skipped: plan.Skipped,
		Plan:    plan,
	}, nil
}

// Explain builds the plan Enable would install for f without installing it.
func (p *Provisioner) Explain(f catalog.Filter) (PlanSummary, error) {
	p.logger().Debug("+ Explain")
	defer p.logger().Debug("- Explain")
	return p.plan(f)
}

// Enable builds the plan for f and adds its routes to the routing table.
// Failed routes are counted in the summary; only a malformed catalog or bad
// parameters return an error.
func (p *Provisioner) Enable(f catalog.Filter) (InstallSummary, error) {
	logger := p.logger()
	logger.Debug("+ Enable")
	defer logger.Debug("- Enable")

	ps, err := p.plan(f)
	if err != nil {
		return InstallSummary{}, err
	}

	s := routing.Install(logger, p.Table, ps.Plan, p.Concurrency)
	if s.Failed > 0 {
		logger.Sugar().Warnf("%d of %d routes failed to install", s.Failed, s.Attempted)
	}
	return InstallSummary{
		PlanSummary: ps,
		Attempted:   s.Attempted,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		Outcomes:    s.Outcomes,
	}, nil
}
