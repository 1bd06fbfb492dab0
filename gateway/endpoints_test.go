package gateway_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/gateway"
	"github.com/stretchr/testify/require"
)

func TestEndpointKeys(t *testing.T) {
	require.Equal(t, []string{"cases", "district-performance", "special-drives", "statistics", "trends"}, gateway.EndpointKeys())

	for _, key := range gateway.EndpointKeys() {
		e, ok := gateway.LookupEndpoint(key)
		require.True(t, ok)
		require.Equal(t, key, e.Key)
		require.NotEmpty(t, e.Path)
		require.NotEmpty(t, e.FailureMessage)
	}

	_, ok := gateway.LookupEndpoint("good-work")
	require.False(t, ok, "writes are not fetchable endpoints")
}

func TestUpstreamParams(t *testing.T) {
	e, ok := gateway.LookupEndpoint(gateway.KeyTrends)
	require.True(t, ok)

	newYear := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, url.Values{"year": {"2027"}, "months": {"6"}}, e.UpstreamParams(nil, newYear))

	params := e.UpstreamParams(url.Values{"months": {" 12 "}, "district": {""}}, newYear)
	require.Equal(t, url.Values{"year": {"2027"}, "months": {"12"}}, params)
}
