// Package catalog loads cloud service IP range catalogs and selects the
// prefixes of the services and regions to route through the VPN.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned by Decode for documents that are neither
// a plain entry list nor a service tags document.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Entry is a named group of IP ranges. Region is nil for services that are
// not scoped to a region.
type Entry struct {
	Service  string   `json:"service"`
	Region   *string  `json:"region"`
	Prefixes []string `json:"prefixes"`
}

// RegionName returns the region of e, or "" when it has none.
func (e Entry) RegionName() string {
	if e.Region == nil {
		return ""
	}
	return *e.Region
}

func (e Entry) String() string {
	if e.Region == nil {
		return fmt.Sprintf("%s (%d prefixes)", e.Service, len(e.Prefixes))
	}
	return fmt.Sprintf("%s/%s (%d prefixes)", e.Service, *e.Region, len(e.Prefixes))
}

// serviceTagsDoc is the layout of the service tags files published by cloud
// providers, e.g.
//
//	{"values": [{"name": "AzureSQL.WestEurope",
//	             "properties": {"systemService": "AzureSQL", "region": "westeurope",
//	                            "addressPrefixes": ["13.69.105.0/24", ...]}}]}
type serviceTagsDoc struct {
	Values []struct {
		Name       string `json:"name"`
		Properties struct {
			SystemService   string   `json:"systemService"`
			Region          string   `json:"region"`
			AddressPrefixes []string `json:"addressPrefixes"`
		} `json:"properties"`
	} `json:"values"`
}

// Decode parses a catalog. Both a JSON list of entries and a service tags
// document are accepted.
func Decode(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnsupportedFormat)
	}

	switch data[0] {
	case '[':
		var entries []Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing catalog entries: %w", err)
		}
		return entries, nil
	case '{':
		var doc serviceTagsDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing service tags: %w", err)
		}
		if doc.Values == nil {
			return nil, fmt.Errorf("%w: object without \"values\"", ErrUnsupportedFormat)
		}
		entries := make([]Entry, 0, len(doc.Values))
		for _, v := range doc.Values {
			e := Entry{
				Service:  v.Properties.SystemService,
				Prefixes: v.Properties.AddressPrefixes,
			}
			if e.Service == "" {
				// "AzureCloud.westeurope" style tags carry no systemService
				e.Service = strings.SplitN(v.Name, ".", 2)[0]
			}
			if v.Properties.Region != "" {
				region := v.Properties.Region
				e.Region = &region
			}
			entries = append(entries, e)
		}
		return entries, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}
