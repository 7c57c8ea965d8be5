package config

import (
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
)

const (
	defaultDNSServer   = "8.8.8.8"
	defaultCatalogTTL  = 24 * time.Hour
	defaultMetric      = 1
	defaultConcurrency = 10
)

type configToml struct {
	Catalog     string   `toml:"catalog" validate:"required"`
	CatalogTTL  string   `toml:"catalog_ttl"`
	Gateway     string   `toml:"gateway" validate:"omitempty,ipv4"`
	Interface   string   `toml:"interface"`
	Metric      *int     `toml:"metric" validate:"omitempty,gte=0"`
	Concurrency *int     `toml:"concurrency" validate:"omitempty,gte=0"`
	Services    []string `toml:"services"`
	Regions     []string `toml:"regions"`
	DNSServer   string   `toml:"dns_server" validate:"omitempty,ip"`
	Extra       struct {
		Domains []string `toml:"domains"`
		IPs     []string `toml:"ips"`
	} `toml:"extra"`
}

var validate = validator.New()

// Config holds config fields for tagroutesd.
type Config struct {
	// Catalog is a filesystem path or https URL of the IP range catalog.
	Catalog    string
	CatalogTTL time.Duration
	// Gateway is the VPN gateway. When nil it's resolved from Interface.
	Gateway     net.IP
	Interface   string
	Metric      int
	Concurrency int
	Services    []string
	Regions     []string
	DNSServer   net.IP
	// ExtraDomains are resolved and routed as /32s in addition to the catalog.
	ExtraDomains []string
	// ExtraPrefixes are routed in addition to the catalog.
	ExtraPrefixes []string
}

func (c Config) String() string {
	return fmt.Sprintf("catalog=%s ttl=%s gateway=%v interface=%q metric=%d concurrency=%d services=%v regions=%v dns=%s extra_domains=%v extra_prefixes=%v",
		c.Catalog, c.CatalogTTL, c.Gateway, c.Interface, c.Metric, c.Concurrency,
		c.Services, c.Regions, c.DNSServer, c.ExtraDomains, c.ExtraPrefixes)
}

// Loader loads a config and remembers the last document it read so reloads
// can report changes.
type Loader struct {
	lock           sync.Mutex
	lastConfigData []byte
}

// Load reads and parses a tagroutesd config file from p, which can be one of
// the following:
//  1. filesystem path, e.g.
//     /etc/tagroutesd.toml
//  2. https URL, e.g.
//     https://internal.example.com/vpn/tagroutesd.toml
func (l *Loader) Load(logger *zap.Logger, p string) (cfg Config, changed bool, err error) {
	data, err := Read(logger, p)
	if err != nil {
		return Config{}, false, fmt.Errorf("reading config file error: %w", err)
	}

	l.lock.Lock()
	changed = !bytes.Equal(l.lastConfigData, data)
	l.lastConfigData = data
	l.lock.Unlock()

	cfg, err = Parse(logger, data)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, changed, nil
}

// Defaults returns the config used when no config file is given.
func Defaults(catalog string) Config {
	return Config{
		Catalog:     catalog,
		CatalogTTL:  defaultCatalogTTL,
		Metric:      defaultMetric,
		Concurrency: defaultConcurrency,
		DNSServer:   net.ParseIP(defaultDNSServer),
	}
}

// Parse parses and validates a TOML config document, filling in defaults.
func Parse(logger *zap.Logger, data []byte) (cfg Config, err error) {
	var cfgToml configToml
	if err = toml.Unmarshal(data, &cfgToml); err != nil {
		return Config{}, fmt.Errorf("parsing config file error: %w", err)
	}
	if err = validate.Struct(cfgToml); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	cfg = Defaults(cfgToml.Catalog)
	cfg.Interface = cfgToml.Interface
	cfg.Services = cfgToml.Services
	cfg.Regions = cfgToml.Regions
	cfg.ExtraDomains = cfgToml.Extra.Domains

	if len(cfgToml.CatalogTTL) > 0 {
		if cfg.CatalogTTL, err = time.ParseDuration(cfgToml.CatalogTTL); err != nil {
			return Config{}, fmt.Errorf("invalid catalog_ttl %q: %w", cfgToml.CatalogTTL, err)
		}
	}

	if len(cfgToml.Gateway) > 0 {
		cfg.Gateway = net.ParseIP(cfgToml.Gateway).To4()
	}

	if cfgToml.Metric != nil {
		cfg.Metric = *cfgToml.Metric
	}
	if cfgToml.Concurrency != nil && *cfgToml.Concurrency > 0 {
		cfg.Concurrency = *cfgToml.Concurrency
	}

	if len(cfgToml.DNSServer) == 0 {
		logger.Sugar().Debugf("dns_server missing; using %s", defaultDNSServer)
	} else {
		cfg.DNSServer = net.ParseIP(cfgToml.DNSServer)
	}

	for _, s := range cfgToml.Extra.IPs {
		if _, ipNet, err := net.ParseCIDR(s); err == nil {
			if ipNet.IP.To4() == nil {
				logger.Sugar().Warnf("ignoring non-IPv4 prefix: %s", s)
				continue
			}
			cfg.ExtraPrefixes = append(cfg.ExtraPrefixes, s)
			continue
		}
		ip := net.ParseIP(s)
		if ip == nil {
			logger.Sugar().Warnf("ignoring invalid IP: %s", s)
			continue
		}
		if ip.To4() == nil {
			logger.Sugar().Warnf("ignoring non-IPv4 IP: %v", ip)
			continue
		}
		cfg.ExtraPrefixes = append(cfg.ExtraPrefixes, ip.To4().String()+"/32")
	}

	return cfg, nil
}
