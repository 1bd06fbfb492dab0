package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	fakecacherepo "github.com/sounak286/RAKSHA-SATHI/cache/repofake"
	"github.com/sounak286/RAKSHA-SATHI/gateway"
	"github.com/sounak286/RAKSHA-SATHI/goodwork"
	fakegoodworkrepo "github.com/sounak286/RAKSHA-SATHI/goodwork/repofake"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
	"github.com/sounak286/RAKSHA-SATHI/users"
	"github.com/stretchr/testify/require"
)

var errUpstreamDown = errors.New("connection refused")

type upstreamCall struct {
	path   string
	params url.Values
	body   any
	ctxErr error
}

// fakeUpstream returns queued responses and records every call.
type fakeUpstream struct {
	lock      sync.Mutex
	payload   json.RawMessage
	err       error
	blockTill bool
	calls     []upstreamCall
}

func (u *fakeUpstream) respond(payload string, err error) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.payload, u.err = json.RawMessage(payload), err
}

func (u *fakeUpstream) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return u.call(ctx, upstreamCall{path: path, params: params})
}

func (u *fakeUpstream) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return u.call(ctx, upstreamCall{path: path, body: body})
}

func (u *fakeUpstream) call(ctx context.Context, c upstreamCall) (json.RawMessage, error) {
	u.lock.Lock()
	block := u.blockTill
	u.lock.Unlock()
	if block {
		<-ctx.Done()
	}

	u.lock.Lock()
	defer u.lock.Unlock()
	c.ctxErr = ctx.Err()
	u.calls = append(u.calls, c)
	if block {
		return nil, ctx.Err()
	}
	return u.payload, u.err
}

func (u *fakeUpstream) lastCall() upstreamCall {
	u.lock.Lock()
	defer u.lock.Unlock()
	return u.calls[len(u.calls)-1]
}

type testFixture struct {
	upstream *fakeUpstream
	cache    *fakecacherepo.FakeCacheRepo
	goodWork *fakegoodworkrepo.FakeGoodWorkRepo
	gateway  *gateway.Gateway
	now      time.Time
}

func setupTestFixture(t *testing.T, options ...gateway.Option) *testFixture {
	t.Helper()
	f := &testFixture{
		upstream: &fakeUpstream{},
		cache:    fakecacherepo.NewFakeCacheRepo(),
		goodWork: fakegoodworkrepo.NewFakeGoodWorkRepo(),
		now:      time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
	}
	options = append([]gateway.Option{gateway.WithNowTime(func() time.Time { return f.now })}, options...)
	g, err := gateway.New(f.upstream, f.cache, f.goodWork, options...)
	require.NoError(t, err)
	f.gateway = g
	t.Cleanup(g.Close)
	return f
}

var reporter = &token.Claims{UserID: 5, Username: "asha", Role: users.RoleUser}

func TestFetch_ReturnsLivePayloadAndCachesIt(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.upstream.respond(`{"totalCases":120}`, nil)

	payload, err := f.gateway.Fetch(ctx, gateway.KeyStatistics, nil)
	require.NoError(t, err)
	require.Equal(t, `{"totalCases":120}`, string(payload))

	f.gateway.Close()
	entry, err := f.cache.Latest(ctx, gateway.KeyStatistics)
	require.NoError(t, err)
	require.Equal(t, `{"totalCases":120}`, string(entry.Payload))
	require.Equal(t, f.now, entry.CachedAt)
}

func TestFetch_FallsBackToLatestCachedPayload(t *testing.T) {
	ctx := context.Background()

	for _, key := range gateway.EndpointKeys() {
		t.Run(key, func(t *testing.T) {
			f := setupTestFixture(t)

			f.upstream.respond(`{"v":1}`, nil)
			_, err := f.gateway.Fetch(ctx, key, nil)
			require.NoError(t, err)
			f.gateway.Close()

			f.upstream.respond("", errUpstreamDown)
			payload, err := f.gateway.Fetch(ctx, key, nil)
			require.NoError(t, err)
			require.Equal(t, `{"v":1}`, string(payload))
		})
	}
}

func TestFetch_NoCacheReturnsUpstreamUnavailable(t *testing.T) {
	messages := map[string]string{
		gateway.KeyStatistics:          "Failed to fetch statistics",
		gateway.KeyCases:               "Failed to fetch cases",
		gateway.KeyDistrictPerformance: "Failed to fetch district performance",
		gateway.KeyTrends:              "Failed to fetch trends",
		gateway.KeySpecialDrives:       "Failed to fetch special drives data",
	}

	for key, message := range messages {
		t.Run(key, func(t *testing.T) {
			f := setupTestFixture(t)
			f.upstream.respond("", errUpstreamDown)

			_, err := f.gateway.Fetch(context.Background(), key, nil)
			require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
			require.Equal(t, message, apperrors.PublicMessage(err))
		})
	}
}

func TestFetch_CacheReadErrorTreatedAsMiss(t *testing.T) {
	f := setupTestFixture(t)
	f.upstream.respond("", errUpstreamDown)
	f.cache.FailReads(errors.New("database is locked"))

	_, err := f.gateway.Fetch(context.Background(), gateway.KeyCases, nil)
	require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestFetch_CacheWriteErrorIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.upstream.respond(`[1,2,3]`, nil)
	f.cache.FailWrites(errors.New("disk full"))

	payload, err := f.gateway.Fetch(ctx, gateway.KeyTrends, nil)
	require.NoError(t, err)
	require.Equal(t, `[1,2,3]`, string(payload))

	f.gateway.Close()
	require.Zero(t, f.cache.Count(gateway.KeyTrends))
}

func TestFetch_UnknownEndpoint(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.gateway.Fetch(context.Background(), "payroll", nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Empty(t, f.upstream.calls)
}

func TestFetch_ForwardsKnownParamsWithDefaults(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.upstream.respond(`{}`, nil)

	query := url.Values{"district": {"Mysuru"}, "startDate": {"2026-01-01"}, "token": {"leak"}}
	_, err := f.gateway.Fetch(ctx, gateway.KeyStatistics, query)
	require.NoError(t, err)
	call := f.upstream.lastCall()
	require.Equal(t, "/statistics/overall", call.path)
	require.Equal(t, url.Values{
		"state":     {"ALL"},
		"district":  {"Mysuru"},
		"startDate": {"2026-01-01"},
	}, call.params)

	_, err = f.gateway.Fetch(ctx, gateway.KeyCases, url.Values{"status": {"open"}})
	require.NoError(t, err)
	require.Equal(t, url.Values{"status": {"open"}, "limit": {"50"}, "offset": {"0"}}, f.upstream.lastCall().params)

	_, err = f.gateway.Fetch(ctx, gateway.KeyTrends, nil)
	require.NoError(t, err)
	require.Equal(t, "/analytics/trends", f.upstream.lastCall().path)
	require.Equal(t, url.Values{"year": {"2026"}, "months": {"6"}}, f.upstream.lastCall().params)

	_, err = f.gateway.Fetch(ctx, gateway.KeyDistrictPerformance, url.Values{"month": {"7"}, "year": {"2025"}})
	require.NoError(t, err)
	require.Equal(t, "/performance/districts", f.upstream.lastCall().path)
	require.Equal(t, url.Values{"state": {"ALL"}, "month": {"7"}, "year": {"2025"}}, f.upstream.lastCall().params)

	_, err = f.gateway.Fetch(ctx, gateway.KeySpecialDrives, nil)
	require.NoError(t, err)
	require.Equal(t, "/operations/special-drives", f.upstream.lastCall().path)
	require.Empty(t, f.upstream.lastCall().params)
}

func TestFetch_TimeoutFallsBack(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, gateway.WithTimeout(20*time.Millisecond))
	require.NoError(t, f.cache.Write(ctx, gateway.KeyStatistics, []byte(`{"cached":true}`), f.now.Add(-time.Hour)))

	f.upstream.blockTill = true
	payload, err := f.gateway.Fetch(ctx, gateway.KeyStatistics, nil)
	require.NoError(t, err)
	require.Equal(t, `{"cached":true}`, string(payload))
	require.ErrorIs(t, f.upstream.lastCall().ctxErr, context.DeadlineExceeded)
}

func TestFetch_UpstreamCallSurvivesRequestCancellation(t *testing.T) {
	f := setupTestFixture(t)
	f.upstream.respond(`{"ok":true}`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload, err := f.gateway.Fetch(ctx, gateway.KeyStatistics, nil)
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(payload))
	require.NoError(t, f.upstream.lastCall().ctxErr)

	f.gateway.Close()
	require.Equal(t, 1, f.cache.Count(gateway.KeyStatistics))
}

func TestSubmitGoodWork(t *testing.T) {
	ctx := context.Background()
	submission := goodwork.Submission{
		OfficerName: "Asha Rao",
		BadgeNumber: "KA-1021",
		District:    "Mysuru",
		Achievement: "Recovered 12 stolen vehicles",
		Category:    "Recovery",
		Date:        "2026-08-01",
	}

	t.Run("success records a local entry", func(t *testing.T) {
		f := setupTestFixture(t)
		f.upstream.respond(`{"reference":"GW-77"}`, nil)

		payload, err := f.gateway.SubmitGoodWork(ctx, submission, reporter)
		require.NoError(t, err)
		require.Equal(t, `{"reference":"GW-77"}`, string(payload))

		call := f.upstream.lastCall()
		require.Equal(t, "/good-work/submit", call.path)
		body, err := json.Marshal(call.body)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"officerName": "Asha Rao",
			"badgeNumber": "KA-1021",
			"district": "Mysuru",
			"achievement": "Recovered 12 stolen vehicles",
			"category": "Recovery",
			"date": "2026-08-01",
			"description": "",
			"submittedBy": "asha",
			"submittedById": 5
		}`, string(body))

		entries := f.goodWork.Entries()
		require.Len(t, entries, 1)
		require.Equal(t, int64(5), entries[0].SubmittedBy)
		require.Equal(t, submission, entries[0].Submission)
	})

	t.Run("upstream failure does not fall back or record", func(t *testing.T) {
		f := setupTestFixture(t)
		f.upstream.respond("", errUpstreamDown)

		_, err := f.gateway.SubmitGoodWork(ctx, submission, reporter)
		require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
		require.Equal(t, "Failed to submit good work entry", apperrors.PublicMessage(err))
		require.Empty(t, f.goodWork.Entries())
	})

	t.Run("local insert failure is internal", func(t *testing.T) {
		f := setupTestFixture(t)
		f.upstream.respond(`{}`, nil)
		f.goodWork.FailInserts(errors.New("constraint failed"))

		_, err := f.gateway.SubmitGoodWork(ctx, submission, reporter)
		require.ErrorIs(t, err, apperrors.ErrInternal)
	})
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := gateway.New(nil, fakecacherepo.NewFakeCacheRepo(), fakegoodworkrepo.NewFakeGoodWorkRepo())
	require.Error(t, err)
	_, err = gateway.New(&fakeUpstream{}, nil, fakegoodworkrepo.NewFakeGoodWorkRepo())
	require.Error(t, err)
	_, err = gateway.New(&fakeUpstream{}, fakecacherepo.NewFakeCacheRepo(), nil)
	require.Error(t, err)
}
