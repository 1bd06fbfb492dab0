package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/upstream"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func newClient(t *testing.T, baseURL string, mutate ...func(*config.UpstreamConfig)) *upstream.Client {
	t.Helper()
	cfg := config.UpstreamConfig{
		BaseURL: baseURL + "/api/v1",
		APIKey:  testAPIKey,
		Timeout: 2 * time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := upstream.New(cfg)
	require.NoError(t, err)
	return c
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/statistics/overall", r.URL.Path)
		require.Equal(t, testAPIKey, r.Header.Get("X-API-Key"))
		require.Equal(t, "ALL", r.URL.Query().Get("state"))
		require.Equal(t, "Mysuru", r.URL.Query().Get("district"))
		_, _ = w.Write([]byte(`{"totalCases": 120}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	body, err := c.Get(context.Background(), "/statistics/overall", url.Values{"state": {"ALL"}, "district": {"Mysuru"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"totalCases": 120}`, string(body))
	require.Equal(t, `{"totalCases": 120}`, string(body))
}

func TestPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/good-work/submit", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, testAPIKey, r.Header.Get("X-API-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "asha", body["submittedBy"])
		_, _ = w.Write([]byte(`{"reference":"GW-1"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	body, err := c.Post(context.Background(), "/good-work/submit", map[string]any{"submittedBy": "asha"})
	require.NoError(t, err)
	require.JSONEq(t, `{"reference":"GW-1"}`, string(body))
}

func TestFailures(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newClient(t, srv.URL).Get(context.Background(), "/cases/list", nil)
		var statusErr *upstream.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		require.Contains(t, statusErr.Body, "maintenance")
	})

	t.Run("not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>login</html>`))
		}))
		defer srv.Close()

		_, err := newClient(t, srv.URL).Get(context.Background(), "/cases/list", nil)
		require.ErrorIs(t, err, upstream.ErrInvalidResponse)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := newClient(t, srv.URL, func(cfg *config.UpstreamConfig) { cfg.Timeout = 50 * time.Millisecond })
		start := time.Now()
		_, err := c.Get(context.Background(), "/analytics/trends", nil)
		require.Error(t, err)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := newClient(t, addr).Get(context.Background(), "/statistics/overall", nil)
		require.Error(t, err)
	})
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := upstream.New(config.UpstreamConfig{BaseURL: "not a url", Timeout: time.Second})
	require.Error(t, err)
}

func TestOAuthClientCredentials(t *testing.T) {
	var tokenRequests atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		body, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		require.Equal(t, "client_credentials", form.Get("grant_type"))
		require.Equal(t, "analytics.read", form.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"upstream-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer upstream-token", r.Header.Get("Authorization"))
		require.Equal(t, testAPIKey, r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer apiSrv.Close()

	c := newClient(t, apiSrv.URL, func(cfg *config.UpstreamConfig) {
		cfg.OAuthURL = tokenSrv.URL
		cfg.ClientID = "gateway"
		cfg.ClientSecret = "secret"
		cfg.Scope = "analytics.read"
	})

	for i := 0; i < 2; i++ {
		body, err := c.Get(context.Background(), "/operations/special-drives", nil)
		require.NoError(t, err)
		require.Equal(t, `[]`, string(body))
	}
	require.Equal(t, int32(1), tokenRequests.Load())
}
