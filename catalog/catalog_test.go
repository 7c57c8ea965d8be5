package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntries(t *testing.T) {
	entries, err := Decode([]byte(`[
		{"service": "AzureSQL", "region": "westeurope", "prefixes": ["10.0.0.0/24", "2001:db8::/32"]},
		{"service": "AzureActiveDirectory", "region": null, "prefixes": ["20.190.128.0/18"]}
	]`))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "AzureSQL", entries[0].Service)
	assert.Equal(t, "westeurope", entries[0].RegionName())
	assert.Equal(t, []string{"10.0.0.0/24", "2001:db8::/32"}, entries[0].Prefixes)
	assert.Nil(t, entries[1].Region)
	assert.Equal(t, "", entries[1].RegionName())
}

func TestDecodeServiceTags(t *testing.T) {
	entries, err := Decode([]byte(`{
		"changeNumber": 312,
		"cloud": "Public",
		"values": [
			{"name": "AzureSQL.WestEurope", "id": "AzureSQL.WestEurope",
			 "properties": {"systemService": "AzureSQL", "region": "westeurope",
			                "addressPrefixes": ["13.69.105.0/24", "2603:1020:200::/120"]}},
			{"name": "AzureCloud", "id": "AzureCloud",
			 "properties": {"systemService": "", "region": "", "addressPrefixes": ["13.64.0.0/16"]}},
			{"name": "AzureCloud.northeurope", "id": "AzureCloud.northeurope",
			 "properties": {"region": "northeurope", "addressPrefixes": ["13.69.128.0/17"]}}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "AzureSQL", entries[0].Service)
	assert.Equal(t, "westeurope", entries[0].RegionName())
	assert.Len(t, entries[0].Prefixes, 2)

	assert.Equal(t, "AzureCloud", entries[1].Service)
	assert.Nil(t, entries[1].Region)

	assert.Equal(t, "AzureCloud", entries[2].Service)
	assert.Equal(t, "northeurope", entries[2].RegionName())
}

func TestDecodeUnsupported(t *testing.T) {
	for _, doc := range []string{"", "   ", "service,region", `{"foo": []}`, `"x"`} {
		_, err := Decode([]byte(doc))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "%q", doc)
	}

	_, err := Decode([]byte(`[{"service": 1}]`))
	assert.Error(t, err)
}
