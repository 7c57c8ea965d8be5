package catalog

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const entriesKey = "entries"

// ReadFunc reads the raw catalog document at location.
type ReadFunc func(logger *zap.Logger, location string) ([]byte, error)

// Source fetches and decodes a catalog, keeping the decoded entries for a TTL
// so that repeated runs don't download the catalog every time.
type Source struct {
	location string
	read     ReadFunc
	entries  *cache.Cache

	lock     sync.Mutex
	lastData []byte
}

// NewSource returns a Source reading location with read. A ttl <= 0 disables
// caching.
func NewSource(location string, ttl time.Duration, read ReadFunc) *Source {
	s := &Source{
		location: location,
		read:     read,
	}
	if ttl > 0 {
		s.entries = cache.New(ttl, 2*ttl)
	}
	return s
}

// Entries returns the catalog entries. changed reports whether the document
// differs from the one seen on the previous fetch; cached results are never
// changed.
func (s *Source) Entries(logger *zap.Logger) (entries []Entry, changed bool, err error) {
	logger.Debug("+ Entries")
	defer logger.Debug("- Entries")

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.entries != nil {
		if v, ok := s.entries.Get(entriesKey); ok {
			logger.Sugar().Debugf("using cached catalog from %s", s.location)
			return v.([]Entry), false, nil
		}
	}

	data, err := s.read(logger, s.location)
	if err != nil {
		return nil, false, fmt.Errorf("reading catalog error: %w", err)
	}
	entries, err = Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding catalog %s: %w", s.location, err)
	}

	changed = !bytes.Equal(s.lastData, data)
	s.lastData = data
	if s.entries != nil {
		s.entries.Set(entriesKey, entries, cache.DefaultExpiration)
	}
	logger.Sugar().Debugf("loaded %d catalog entries from %s", len(entries), s.location)
	return entries, changed, nil
}
