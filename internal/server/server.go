// Package server exposes evaluations over HTTP.
package server

import (
	"bytes"
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"rentab/internal/cache"
	apperrors "rentab/internal/errors"
	"rentab/internal/logging"
	"rentab/internal/projection"
	"rentab/internal/rentability"
	"rentab/internal/scenario"
)

// cacheTimeout bounds each cache round trip.
const cacheTimeout = time.Second

// Options configures a Server.
type Options struct {
	Addr              string
	NotaryFeesPercent float64
	Defaults          scenario.Scenario
	CacheTTL          time.Duration
	RateLimit         float64 // requests per second, 0 disables
	RateBurst         int
}

// EvaluateResponse is the body of a successful POST /evaluate.
type EvaluateResponse struct {
	ID         string                `json:"id"`
	Result     rentability.Result    `json:"result"`
	Projection projection.Projection `json:"projection"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type cachedEvaluation struct {
	Result     rentability.Result    `json:"result"`
	Projection projection.Projection `json:"projection"`
}

// Server serves the evaluation API.
type Server struct {
	opts    Options
	cache   cache.Repository
	limiter *RateLimiter
	logger  zerolog.Logger
	newID   func() string
}

// New creates a server. A nil repo disables caching.
func New(opts Options, repo cache.Repository, logger zerolog.Logger) *Server {
	s := &Server{
		opts:   opts,
		cache:  repo,
		logger: logging.WithOperation(logger, "serve"),
		newID:  func() string { return uuid.New().String() },
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}
	return s
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "rentab",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving on %s: %w", s.opts.Addr, err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown()
	}
}

// Handler routes a request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	requestID := s.newID()
	logger := logging.WithRequestID(s.logger, requestID)
	ctx.Response.Header.Set("X-Request-ID", requestID)

	cached := false
	switch string(ctx.Path()) {
	case "/evaluate":
		if !ctx.IsPost() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			break
		}
		if s.limiter != nil && !s.limiter.Allow() {
			s.writeError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
			break
		}
		cached = s.handleEvaluate(ctx, requestID, logger)
	case "/health":
		if !ctx.IsGet() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			break
		}
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not found")
	}

	logging.LogRequest(logger, string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(), time.Since(start), cached)
}

// handleEvaluate reports whether the response came from the cache.
func (s *Server) handleEvaluate(ctx *fasthttp.RequestCtx, requestID string, logger zerolog.Logger) bool {
	sc := s.opts.Defaults
	dec := json.NewDecoder(bytes.NewReader(ctx.PostBody()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	key, err := cache.Key(sc, s.opts.NotaryFeesPercent)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return false
	}

	cacheCtx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	cacheCtx = logging.WithLogger(cacheCtx, logger)

	if entry, ok := s.lookup(cacheCtx, key); ok {
		ctx.Response.Header.Set("X-Cache", "HIT")
		s.writeJSON(ctx, fasthttp.StatusOK, EvaluateResponse{
			ID:         requestID,
			Result:     entry.Result,
			Projection: entry.Projection,
		})
		return true
	}

	start := time.Now()
	result, err := sc.Evaluate(s.opts.NotaryFeesPercent)
	if err != nil {
		logging.LogEvaluationError(logger, err)
		s.writeError(ctx, statusFor(err), err.Error())
		return false
	}
	logging.LogEvaluation(logger, result, time.Since(start))

	entry := cachedEvaluation{Result: result, Projection: projection.FromResult(result)}
	s.store(cacheCtx, key, entry)

	ctx.Response.Header.Set("X-Cache", "MISS")
	s.writeJSON(ctx, fasthttp.StatusOK, EvaluateResponse{
		ID:         requestID,
		Result:     entry.Result,
		Projection: entry.Projection,
	})
	return false
}

// Cache failures degrade to a recomputation. Both helpers log through the
// request logger carried by ctx.
func (s *Server) lookup(ctx context.Context, key string) (cachedEvaluation, bool) {
	var entry cachedEvaluation
	if s.cache == nil {
		return entry, false
	}
	logger := logging.FromContext(ctx)

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return entry, false
	}
	if !ok {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return entry, false
	}
	return entry, true
}

func (s *Server) store(ctx context.Context, key string, entry cachedEvaluation) {
	if s.cache == nil {
		return
	}
	logger := logging.FromContext(ctx)
	data, err := json.Marshal(entry)
	if err != nil {
		logger.Warn().Err(err).Msg("Encoding cache entry failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func statusFor(err error) int {
	switch {
	case apperrors.IsInvalidArgument(err):
		return fasthttp.StatusBadRequest
	case apperrors.IsComputationFailed(err):
		return fasthttp.StatusUnprocessableEntity
	default:
		return fasthttp.StatusInternalServerError
	}
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.Error(`{"status":500,"message":"encoding response"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	s.writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
