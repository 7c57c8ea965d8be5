package routing

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of routes Install adds at the same time
// when no limit is given.
const DefaultConcurrency = 10

// InstallError is the failure of a single route.
type InstallError struct {
	Route Route
	Err   error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("adding route %s: %v", e.Route, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Outcome is the result of adding one route. Err is nil on success.
type Outcome struct {
	Route Route
	Err   error
}

// Succeeded reports whether the route was added.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary aggregates the outcomes of an Install call. Outcomes are in plan
// order.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Install adds every route of plan to table with at most concurrency additions
// in flight. A failed route is counted and does not stop the others; nothing
// is retried. Install returns once every route has been attempted.
func Install(logger *zap.Logger, table RouteTable, plan *Plan, concurrency int) Summary {
	logger.Debug("+ Install")
	defer logger.Debug("- Install")

	if plan == nil || len(plan.Routes) == 0 {
		return Summary{}
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	// one slot per route, so workers never share a write target
	outcomes := make([]Outcome, len(plan.Routes))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, r := range plan.Routes {
		i, r := i, r
		g.Go(func() error {
			outcomes[i] = addRoute(logger, table, r)
			return nil
		})
	}
	// tasks never return an error; Wait only blocks until all are done
	g.Wait()

	summary := Summary{
		Attempted: len(outcomes),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		if o.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	logger.Sugar().Debugf("installed %d/%d routes", summary.Succeeded, summary.Attempted)
	return summary
}

func addRoute(logger *zap.Logger, table RouteTable, r Route) (o Outcome) {
	o.Route = r
	defer func() {
		if p := recover(); p != nil {
			o.Err = &InstallError{Route: r, Err: fmt.Errorf("panic: %v", p)}
			logger.Warn("route add panicked", zap.Stringer("route", r), zap.Error(o.Err))
		}
	}()

	if err := table.AddRoute(r); err != nil {
		o.Err = &InstallError{Route: r, Err: err}
		logger.Warn("route add failed", zap.Stringer("route", r), zap.Error(err))
		return o
	}
	logger.Debug("route added", zap.Stringer("route", r))
	return o
}
