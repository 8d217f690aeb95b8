// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/telemetry"
)

// Configuration constants for the chat backend.
const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests. Answers are
	// generated synchronously by the backend so this is generous.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the default maximum response body size.
	MaxResponseSize = 10 * 1024 * 1024

	// RequestIDHeader carries a per-request UUID for log correlation.
	RequestIDHeader = "X-Request-ID"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat backend. It is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	userAgent   string
	maxResponse int64

	limiter *rate.Limiter
	lists   *gocache.Cache

	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *telemetry.ClientMetrics
	tracker *telemetry.Tracker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxResponseSize caps response bodies at n bytes.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponse = n
		}
	}
}

// WithRateLimit paces requests to rps per second with the given burst.
// rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithListCacheTTL keeps the conversation list for ttl. 0 disables caching.
func WithListCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.lists = nil
			return
		}
		c.lists = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("client")
		}
	}
}

// WithTelemetry records spans and metrics through p.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(c *Client) {
		if p == nil {
			return
		}
		c.tracer = p.Tracer
		if m, err := telemetry.NewClientMetrics(p.Meter); err == nil {
			c.metrics = m
		}
	}
}

// WithTracker records every request in t.
func WithTracker(t *telemetry.Tracker) Option {
	return func(c *Client) { c.tracker = t }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		userAgent:   "ragchat",
		maxResponse: MaxResponseSize,
		logger:      zap.NewNop(),
		tracer:      telemetry.Noop().Tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the backend section of the config.
func NewFromConfig(cfg config.BackendConfig, opts ...Option) *Client {
	base := []Option{
		WithTimeout(cfg.Timeout()),
		WithMaxResponseSize(cfg.MaxResponseBytes()),
		WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		WithListCacheTTL(cfg.ListCacheTTL()),
	}
	return New(cfg.URL, append(base, opts...)...)
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage posts text to the backend. conversationID is omitted from the
// request when nil, which asks the backend to start a new conversation.
func (c *Client) SendMessage(ctx context.Context, text string, conversationID *int64) (*ChatReply, error) {
	payload, err := json.Marshal(chatRequest{Message: text, ConversationID: conversationID})
	if err != nil {
		return nil, &TransportError{Kind: DecodeError, Op: "send", Err: err}
	}

	body, err := c.do(ctx, "send", http.MethodPost, "/chat", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	reply, err := decodeChatResponse(body)
	if err != nil {
		return nil, &TransportError{Kind: DecodeError, Op: "send", Err: err}
	}

	c.InvalidateList()
	return reply, nil
}

// LoadConversation fetches a conversation with its full message history.
func (c *Client) LoadConversation(ctx context.Context, id int64) (*model.Conversation, error) {
	body, err := c.do(ctx, "load", http.MethodGet, conversationPath(id), nil, "")
	if err != nil {
		return nil, err
	}

	conv, err := decodeConversation(body)
	if err != nil {
		return nil, &TransportError{Kind: DecodeError, Op: "load", Err: err}
	}
	if conv.ID == 0 {
		conv.ID = id
	}
	return conv, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "client."+op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	))
	defer span.End()

	start := time.Now()
	status, respBody, err := c.roundTrip(ctx, op, method, path, body, contentType)
	elapsed := time.Since(start)

	kind := KindOf(err)
	c.record(ctx, op, status, elapsed, kind)

	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed))
	return respBody, nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &TransportError{Kind: NetworkFailure, Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, &TransportError{Kind: NetworkFailure, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	requestID := uuid.NewString()
	c.setHeaders(req, contentType, requestID)

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Kind: NetworkFailure, Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp, c.maxResponse)
	if err != nil {
		if errors.Is(err, errResponseTooLarge) {
			return resp.StatusCode, nil, &TransportError{Kind: DecodeError, Op: op, Err: err}
		}
		return resp.StatusCode, nil, &TransportError{Kind: NetworkFailure, Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, handleErrorResponse(op, resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

// setHeaders sets the headers shared by all backend requests.
func (c *Client) setHeaders(req *http.Request, contentType, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
}

func (c *Client) record(ctx context.Context, op string, status int, d time.Duration, kind Kind) {
	label := ""
	if kind != 0 {
		label = kind.String()
	}
	c.metrics.Record(ctx, op, status, d, label)
	c.tracker.Record(op, status, d, kind != 0)
}

var errResponseTooLarge = errors.New("response too large")

// readResponse reads the response body, failing when it exceeds limit bytes.
func readResponse(resp *http.Response, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", errResponseTooLarge, limit)
	}
	return body, nil
}

func conversationPath(id int64) string {
	return "/api/conversations/" + strconv.FormatInt(id, 10)
}
