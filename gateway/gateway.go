package gateway

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sounak286/RAKSHA-SATHI/cache"
	"github.com/sounak286/RAKSHA-SATHI/goodwork"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
)

const (
	defaultUpstreamTimeout = 30 * time.Second
	cacheTimeout           = 10 * time.Second
)

// Upstream is the subset of upstream.Client the gateway needs.
type Upstream interface {
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Gateway forwards analytics queries upstream and falls back to the most
// recent cached response when the upstream fails.
type Gateway struct {
	upstream Upstream
	cache    cache.Repo
	goodWork goodwork.Repo
	logger   zerolog.Logger
	timeout  time.Duration
	nowTime  func() time.Time
	pending  sync.WaitGroup
}

type Option func(*Gateway)

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithTimeout bounds each upstream call. Defaults to 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

func WithNowTime(nowFunc func() time.Time) Option {
	return func(g *Gateway) {
		g.nowTime = nowFunc
	}
}

func New(up Upstream, cacheRepo cache.Repo, goodWorkRepo goodwork.Repo, options ...Option) (*Gateway, error) {
	if up == nil {
		return nil, errors.New("[gateway New] upstream client is required")
	}
	if cacheRepo == nil {
		return nil, errors.New("[gateway New] cache repo is required")
	}
	if goodWorkRepo == nil {
		return nil, errors.New("[gateway New] good work repo is required")
	}

	g := &Gateway{
		upstream: up,
		cache:    cacheRepo,
		goodWork: goodWorkRepo,
		logger:   zerolog.Nop(),
		timeout:  defaultUpstreamTimeout,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Fetch queries the endpoint registered under key. A successful response is
// returned verbatim and cached in the background. On failure the newest
// cached response for key is returned instead, if there is one.
func (g *Gateway) Fetch(ctx context.Context, key string, query url.Values) (json.RawMessage, error) {
	endpoint, ok := LookupEndpoint(key)
	if !ok {
		return nil, apperrors.New(apperrors.ErrNotFound, "Unknown analytics endpoint")
	}

	// Detached from the request so a client disconnect still lets a slow
	// upstream response reach the cache.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	payload, err := g.upstream.Get(callCtx, endpoint.Path, endpoint.UpstreamParams(query, g.nowTime()))
	if err == nil {
		g.storeAsync(key, payload)
		return payload, nil
	}

	logger := g.logger.With().Str("endpoint", key).Logger()
	logger.Warn().Err(err).Msg("upstream request failed, trying cache")

	readCtx, cancelRead := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancelRead()

	entry, cacheErr := g.cache.Latest(readCtx, key)
	switch {
	case cacheErr == nil:
		logger.Info().Time("cached_at", entry.CachedAt).Msg("serving cached response")
		return json.RawMessage(entry.Payload), nil
	case !errors.Is(cacheErr, cache.ErrEntryNotFound):
		logger.Error().Err(cacheErr).Msg("cache read failed")
	}
	return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, endpoint.FailureMessage, err)
}

// storeAsync writes payload to the cache without holding up the response.
// Failures are logged only.
func (g *Gateway) storeAsync(key string, payload json.RawMessage) {
	at := g.nowTime().UTC()
	data := append([]byte(nil), payload...)

	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		defer cancel()
		if err := g.cache.Write(ctx, key, data, at); err != nil {
			g.logger.Error().Err(err).Str("endpoint", key).Msg("cache write failed")
		}
	}()
}

type goodWorkRequest struct {
	goodwork.Submission
	SubmittedBy   string `json:"submittedBy"`
	SubmittedByID int64  `json:"submittedById"`
}

// SubmitGoodWork forwards a good-work entry upstream and records it locally
// once the upstream has accepted it. Writes never fall back to the cache.
func (g *Gateway) SubmitGoodWork(ctx context.Context, submission goodwork.Submission, claims *token.Claims) (json.RawMessage, error) {
	if claims == nil {
		return nil, apperrors.New(apperrors.ErrAuthentication, "Access token required")
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	payload, err := g.upstream.Post(callCtx, goodWorkPath, goodWorkRequest{
		Submission:    submission,
		SubmittedBy:   claims.Username,
		SubmittedByID: claims.UserID,
	})
	if err != nil {
		g.logger.Warn().Err(err).Int64("user_id", claims.UserID).Msg("good work submission failed")
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, goodWorkFailure, err)
	}

	entry := &goodwork.Entry{
		Submission:  submission,
		SubmittedBy: claims.UserID,
		CreatedAt:   g.nowTime().UTC(),
	}
	if _, err := g.goodWork.Insert(callCtx, entry); err != nil {
		return nil, apperrors.Internal(errors.Wrap(err, "[SubmitGoodWork] record entry"))
	}
	return payload, nil
}

// Close waits for background cache writes to finish.
func (g *Gateway) Close() {
	g.pending.Wait()
}
