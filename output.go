package main

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/fatih/color"
	"github.com/songgao/tagroutesd/catalog"
	"github.com/songgao/tagroutesd/provision"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
)

func printList(w io.Writer, entries []catalog.Entry) {
	services := catalog.Services(entries)
	regions := catalog.Regions(entries)

	fmt.Fprintf(w, "%s (%d)\n", bold("Services"), len(services))
	for _, s := range services {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintf(w, "%s (%d)\n", bold("Regions"), len(regions))
	for _, r := range regions {
		fmt.Fprintf(w, "  %s\n", r)
	}
}

func printPlan(w io.Writer, f catalog.Filter, gateway net.IP, ps provision.PlanSummary, routes bool) {
	fmt.Fprintf(w, "%s via %s\n", f, gateway)
	fmt.Fprintf(w, "  matched entries: %d\n", ps.Matched)
	fmt.Fprintf(w, "  routes:          %s\n", green(ps.Routes))
	if ps.Skipped > 0 {
		fmt.Fprintf(w, "  skipped IPv6:    %s\n", yellow(ps.Skipped))
	} else {
		fmt.Fprintf(w, "  skipped IPv6:    %d\n", ps.Skipped)
	}
	if routes && ps.Plan != nil {
		for _, r := range ps.Plan.Routes {
			fmt.Fprintf(w, "    %s\n", r)
		}
	}
}

func printInstall(w io.Writer, f catalog.Filter, gateway net.IP, is provision.InstallSummary) {
	printPlan(w, f, gateway, is.PlanSummary, false)
	fmt.Fprintf(w, "  succeeded:       %s\n", green(is.Succeeded))
	if is.Failed == 0 {
		fmt.Fprintf(w, "  failed:          %d\n", is.Failed)
		return
	}
	fmt.Fprintf(w, "  failed:          %s\n", red(is.Failed))
	var failed []string
	for _, o := range is.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o.Route.String())
		}
	}
	fmt.Fprintf(w, "    %s\n", strings.Join(failed, "\n    "))
}
