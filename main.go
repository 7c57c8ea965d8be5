package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/songgao/tagroutesd/sys"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	fConfig      = pflag.StringP("config", "c", "", "path or https URL of a TOML config file")
	fCatalog     = pflag.String("catalog", "", "path or https URL of the IP range catalog (overrides config)")
	fGateway     = pflag.StringP("gateway", "g", "", "IPv4 gateway of the VPN (overrides config)")
	fInterface   = pflag.StringP("interface", "i", "", "VPN interface whose address is used as gateway (overrides config)")
	fServices    = pflag.StringSliceP("service", "s", nil, `services to route through the VPN, or "All" (overrides config)`)
	fRegions     = pflag.StringSliceP("region", "r", nil, "regions to route through the VPN; empty means any (overrides config)")
	fMetric      = pflag.Int("metric", 1, "metric of the added routes (overrides config)")
	fConcurrency = pflag.Int("concurrency", 10, "max number of routes added at the same time (overrides config)")
	fInterval    = pflag.Duration("interval", 0, "with enable, re-check config, catalog and DNS at this interval and re-apply on changes")
	fVerbose     = pflag.BoolP("verbose", "v", false, "enable debug logging")
)

const usage = `Usage: tagroutesd [flags] <command>

Routes the IP ranges of selected cloud services and regions through a VPN.

Commands:
  explain   print how many routes would be added, add nothing
  enable    add the routes to the system routing table
  list      list the services and regions of the catalog

Flags:
`

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(exitError)
	}
	cmd := command(pflag.Arg(0))
	switch cmd {
	case cmdExplain, cmdEnable, cmdList:
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		pflag.Usage()
		os.Exit(exitError)
	}

	logger, err := newLogger(*fVerbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger error: %v\n", err)
		os.Exit(exitError)
	}
	defer logger.Sync()

	r := newRunner(sys.NewRouteTable(logger), os.Stdout)

	if cmd != cmdEnable || *fInterval <= 0 {
		result := r.run(logger, cmd)
		logger.Sugar().Debugf("run result: %+v", result)
		logger.Sync()
		os.Exit(result.exitCode)
	}

	// watch mode
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(*fInterval)
	defer ticker.Stop()
	for {
		result := r.run(logger, cmd)
		logger.Sugar().Infof("config: %s | catalog: %s | dns: %s | routes: %s",
			result.config, result.catalog, result.dns, result.routes)
		select {
		case <-ticker.C:
		case sig := <-sigs:
			logger.Sugar().Infof("received %s, exiting", sig)
			return
		}
	}
}
