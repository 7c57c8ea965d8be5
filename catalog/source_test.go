package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	docs  []string
	calls int
}

func (f *fakeReader) read(logger *zap.Logger, location string) ([]byte, error) {
	if f.calls >= len(f.docs) {
		return nil, errors.New("no more documents")
	}
	doc := f.docs[f.calls]
	f.calls++
	return []byte(doc), nil
}

const docA = `[{"service": "AzureSQL", "region": "westeurope", "prefixes": ["10.0.0.0/24"]}]`
const docB = `[{"service": "AzureSQL", "region": "westeurope", "prefixes": ["10.0.1.0/24"]}]`

func TestSourceCachesEntries(t *testing.T) {
	r := &fakeReader{docs: []string{docA}}
	s := NewSource("catalog.json", time.Hour, r.read)

	entries, changed, err := s.Entries(zap.NewNop())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, entries, 1)

	entries, changed, err = s.Entries(zap.NewNop())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, r.calls)
}

func TestSourceWithoutCache(t *testing.T) {
	r := &fakeReader{docs: []string{docA, docA, docB}}
	s := NewSource("catalog.json", 0, r.read)

	_, changed, err := s.Entries(zap.NewNop())
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = s.Entries(zap.NewNop())
	require.NoError(t, err)
	assert.False(t, changed)

	entries, changed, err := s.Entries(zap.NewNop())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"10.0.1.0/24"}, entries[0].Prefixes)
}

func TestSourceErrors(t *testing.T) {
	_, _, err := NewSource("catalog.json", time.Hour, (&fakeReader{}).read).Entries(zap.NewNop())
	assert.Error(t, err)

	_, _, err = NewSource("catalog.json", time.Hour, (&fakeReader{docs: []string{"nope"}}).read).Entries(zap.NewNop())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
