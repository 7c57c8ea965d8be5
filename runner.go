package main

import (
	"fmt"
	"io"
	"net"

	"github.com/songgao/tagroutesd/catalog"
	"github.com/songgao/tagroutesd/config"
	"github.com/songgao/tagroutesd/dns"
	"github.com/songgao/tagroutesd/provision"
	"github.com/songgao/tagroutesd/routing"
	"github.com/songgao/tagroutesd/sys"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type command string

const (
	cmdExplain command = "explain"
	cmdEnable  command = "enable"
	cmdList    command = "list"
)

const (
	exitOK      = 0
	exitError   = 1
	exitPartial = 2
)

type runResult struct {
	config   string
	catalog  string
	dns      string
	routes   string
	exitCode int
}

type runner struct {
	table    routing.RouteTable
	out      io.Writer
	loader   config.Loader
	resolver *dns.Resolver
	source   *catalog.Source
	// sourceKey identifies what source was created for, so config changes
	// create a new one.
	sourceKey string
	read      catalog.ReadFunc

	// flags overrides config values; nil means pflag.CommandLine.
	flags *pflag.FlagSet
	// applied is set once routes were added via lastGateway without failures.
	applied     bool
	lastGateway net.IP
}

func newRunner(table routing.RouteTable, out io.Writer) *runner {
	return &runner{
		table:    table,
		out:      out,
		resolver: dns.NewResolver(),
		read:     config.Read,
		flags:    pflag.CommandLine,
	}
}

// loadConfig loads the config file if one is given and applies the command
// line overrides on top of it.
func (r *runner) loadConfig(logger *zap.Logger) (cfg config.Config, changed bool, err error) {
	if len(*fConfig) > 0 {
		if cfg, changed, err = r.loader.Load(logger, *fConfig); err != nil {
			return config.Config{}, false, err
		}
	} else {
		if len(*fCatalog) == 0 {
			return config.Config{}, false, fmt.Errorf("either --config or --catalog is required")
		}
		cfg = config.Defaults(*fCatalog)
	}

	if r.flags.Changed("catalog") {
		cfg.Catalog = *fCatalog
	}
	if r.flags.Changed("gateway") {
		cfg.Gateway = net.ParseIP(*fGateway).To4()
		if cfg.Gateway == nil {
			return config.Config{}, false, fmt.Errorf("%s is not a valid IPv4 address", *fGateway)
		}
	}
	if r.flags.Changed("interface") {
		cfg.Interface = *fInterface
	}
	if r.flags.Changed("service") {
		cfg.Services = *fServices
	}
	if r.flags.Changed("region") {
		cfg.Regions = *fRegions
	}
	if r.flags.Changed("metric") || len(*fConfig) == 0 {
		if *fMetric < 0 {
			return config.Config{}, false, fmt.Errorf("invalid metric %d", *fMetric)
		}
		cfg.Metric = *fMetric
	}
	if r.flags.Changed("concurrency") || len(*fConfig) == 0 {
		cfg.Concurrency = *fConcurrency
	}
	return cfg, changed, nil
}

func (r *runner) catalogSource(cfg config.Config) *catalog.Source {
	key := fmt.Sprintf("%s|%s", cfg.Catalog, cfg.CatalogTTL)
	if r.source == nil || r.sourceKey != key {
		r.source = catalog.NewSource(cfg.Catalog, cfg.CatalogTTL, r.read)
		r.sourceKey = key
	}
	return r.source
}

func (r *runner) run(logger *zap.Logger, cmd command) (result runResult) {
	logger.Debug("+ run")
	defer logger.Debug("- run")

	result.exitCode = exitError
	defer func() {
		if cmd == cmdEnable && result.exitCode == exitError {
			r.applied = false
		}
	}()

	cfg, cfgChanged, err := r.loadConfig(logger)
	if err != nil {
		logger.Sugar().Errorf("loading config error: %v", err)
		result.config = "ERR"
		return result
	}
	result.config = changedString(cfgChanged)
	logger.Sugar().Debugf("using config: %s", cfg)

	entries, catalogChanged, err := r.catalogSource(cfg).Entries(logger)
	if err != nil {
		logger.Sugar().Errorf("loading catalog error: %v", err)
		result.catalog = "ERR"
		return result
	}
	result.catalog = changedString(catalogChanged)

	filter := catalog.NewFilter(cfg.Services, cfg.Regions)
	if cmd == cmdList {
		printList(r.out, catalog.Matched(entries, filter))
		result.exitCode = exitOK
		return result
	}

	extra := append([]string(nil), cfg.ExtraPrefixes...)
	dnsChanged := false
	if len(cfg.ExtraDomains) > 0 {
		var domainPrefixes []string
		domainPrefixes, dnsChanged = r.resolver.Prefixes(logger, cfg.DNSServer, cfg.ExtraDomains)
		logger.Sugar().Debugf("prefixes from DNS: %s", domainPrefixes)
		extra = append(extra, domainPrefixes...)
	}
	result.dns = changedString(dnsChanged)

	gateway, err := sys.ResolveGateway(logger, sys.GatewayArgs{
		Gateway:   cfg.Gateway,
		Interface: cfg.Interface,
	})
	if err != nil {
		logger.Sugar().Errorf("resolving VPN gateway error: %v", err)
		result.routes = "ERR"
		return result
	}

	p := &provision.Provisioner{
		Logger:        logger,
		Entries:       entries,
		ExtraPrefixes: extra,
		Gateway:       gateway,
		Metric:        cfg.Metric,
		Concurrency:   cfg.Concurrency,
		Table:         r.table,
	}

	if cmd == cmdExplain {
		ps, err := p.Explain(filter)
		if err != nil {
			logger.Sugar().Errorf("planning routes error: %v", err)
			result.routes = "ERR"
			return result
		}
		printPlan(r.out, filter, gateway, ps, *fVerbose)
		result.routes = "PLANNED"
		result.exitCode = exitOK
		return result
	}

	gatewayChanged := !gateway.Equal(r.lastGateway)
	if gatewayChanged {
		logger.Sugar().Debugf("VPN gateway changed from %v to %s", r.lastGateway, gateway)
	}
	if r.applied && !cfgChanged && !catalogChanged && !dnsChanged && !gatewayChanged {
		result.routes = "UNCHANGED"
		result.exitCode = exitOK
		return result
	}

	is, err := p.Enable(filter)
	if err != nil {
		logger.Sugar().Errorf("installing routes error: %v", err)
		result.routes = "ERR"
		return result
	}
	printInstall(r.out, filter, gateway, is)

	r.applied = is.Failed == 0
	r.lastGateway = gateway
	if is.Failed > 0 {
		result.routes = "PARTIAL"
		result.exitCode = exitPartial
		return result
	}
	result.routes = "CHANGED"
	result.exitCode = exitOK
	return result
}

func changedString(changed bool) string {
	if changed {
		return "CHANGED"
	}
	return "UNCHANGED"
}
