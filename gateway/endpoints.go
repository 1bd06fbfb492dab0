package gateway

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	KeyStatistics          = "statistics"
	KeyCases               = "cases"
	KeyDistrictPerformance = "district-performance"
	KeyTrends              = "trends"
	KeySpecialDrives       = "special-drives"

	goodWorkPath    = "/good-work/submit"
	goodWorkFailure = "Failed to submit good work entry"
)

// param is a query parameter forwarded upstream. A nil fallback means the
// parameter is omitted when the caller leaves it empty.
type param struct {
	name     string
	fallback func(now time.Time) string
}

func fixed(v string) func(time.Time) string {
	return func(time.Time) string { return v }
}

func currentYear(now time.Time) string {
	return strconv.Itoa(now.Year())
}

// Endpoint describes one read-only upstream analytics query.
type Endpoint struct {
	Key            string
	Path           string
	FailureMessage string
	params         []param
}

var endpoints = map[string]Endpoint{
	KeyStatistics: {
		Key:            KeyStatistics,
		Path:           "/statistics/overall",
		FailureMessage: "Failed to fetch statistics",
		params: []param{
			{name: "state", fallback: fixed("ALL")},
			{name: "district", fallback: fixed("ALL")},
			{name: "startDate"},
			{name: "endDate"},
		},
	},
	KeyCases: {
		Key:            KeyCases,
		Path:           "/cases/list",
		FailureMessage: "Failed to fetch cases",
		params: []param{
			{name: "status"},
			{name: "district"},
			{name: "startDate"},
			{name: "endDate"},
			{name: "limit", fallback: fixed("50")},
			{name: "offset", fallback: fixed("0")},
		},
	},
	KeyDistrictPerformance: {
		Key:            KeyDistrictPerformance,
		Path:           "/performance/districts",
		FailureMessage: "Failed to fetch district performance",
		params: []param{
			{name: "state", fallback: fixed("ALL")},
			{name: "month"},
			{name: "year"},
		},
	},
	KeyTrends: {
		Key:            KeyTrends,
		Path:           "/analytics/trends",
		FailureMessage: "Failed to fetch trends",
		params: []param{
			{name: "district"},
			{name: "year", fallback: currentYear},
			{name: "months", fallback: fixed("6")},
		},
	},
	KeySpecialDrives: {
		Key:            KeySpecialDrives,
		Path:           "/operations/special-drives",
		FailureMessage: "Failed to fetch special drives data",
		params: []param{
			{name: "district"},
			{name: "startDate"},
			{name: "endDate"},
		},
	},
}

// LookupEndpoint returns the endpoint registered under key.
func LookupEndpoint(key string) (Endpoint, bool) {
	e, ok := endpoints[key]
	return e, ok
}

// EndpointKeys lists the registered endpoint keys in sorted order.
func EndpointKeys() []string {
	keys := make([]string, 0, len(endpoints))
	for k := range endpoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UpstreamParams builds the query forwarded upstream: only the endpoint's
// known parameters, with defaults applied.
func (e Endpoint) UpstreamParams(query url.Values, now time.Time) url.Values {
	out := url.Values{}
	for _, p := range e.params {
		v := strings.TrimSpace(query.Get(p.name))
		if v == "" && p.fallback != nil {
			v = p.fallback(now)
		}
		if v != "" {
			out.Set(p.name, v)
		}
	}
	return out
}
