package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
)

const refreshPath = "/api/account/refresh-token"

// Session is the token holder the client reads bearer tokens from and
// writes refreshed tokens to.
type Session interface {
	Tokens() model.TokenPair
	Set(ctx context.Context, pair model.TokenPair) error
	Clear(ctx context.Context) error
}

// Navigator sends the operator back to the login view after the session
// could not be renewed.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// Payload is a request body that can be produced again for a replay.
type Payload interface {
	ContentType() string
	Reader() io.Reader
}

type rawPayload struct {
	contentType string
	body        []byte
}

func (p rawPayload) ContentType() string { return p.contentType }

func (p rawPayload) Reader() io.Reader { return bytes.NewReader(p.body) }

// JSON encodes v once as an application/json payload.
func JSON(v any) (Payload, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return rawPayload{contentType: "application/json", body: body}, nil
}

// Option tweaks a single request.
type Option func(*call)

// WithoutRefresh disables the 401 refresh-and-replay step. Used for the
// unauthenticated account endpoints whose 401 means wrong credentials.
func WithoutRefresh() Option {
	return func(c *call) { c.refreshable = false }
}

// call is one logical request. It is copied, never mutated, between attempts.
type call struct {
	method      string
	path        string
	payload     Payload
	attempt     int
	refreshable bool
}

func (c call) retry() call {
	c.attempt++
	return c
}

func (c call) canRefresh() bool { return c.refreshable && c.attempt == 0 }

// Client talks to the translation backend, injecting the bearer token and
// renewing it once on 401.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    Session
	navigator  Navigator
	logger     *slog.Logger

	refreshMu sync.Mutex
}

// NewClient validates baseURL and builds a client with the given timeout.
func NewClient(baseURL string, timeout time.Duration, session Session, navigator Navigator, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("backend url must be absolute")
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(context.Context) {})
	}
	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		navigator:  navigator,
		logger:     logger,
	}, nil
}

// Get issues a GET and returns the raw 2xx body.
func (c *Client) Get(ctx context.Context, p string, opts ...Option) ([]byte, error) {
	return c.do(ctx, newCall(http.MethodGet, p, nil, opts))
}

// Post issues a POST with payload, which may be nil.
func (c *Client) Post(ctx context.Context, p string, payload Payload, opts ...Option) ([]byte, error) {
	return c.do(ctx, newCall(http.MethodPost, p, payload, opts))
}

// Patch issues a PATCH with payload, which may be nil.
func (c *Client) Patch(ctx context.Context, p string, payload Payload, opts ...Option) ([]byte, error) {
	return c.do(ctx, newCall(http.MethodPatch, p, payload, opts))
}

func newCall(method, p string, payload Payload, opts []Option) call {
	cl := call{method: method, path: p, payload: payload, refreshable: true}
	for _, opt := range opts {
		opt(&cl)
	}
	return cl
}

func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	token := c.session.Tokens().AccessToken
	status, body, err := c.send(ctx, cl, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && cl.canRefresh() {
		if refreshErr := c.refresh(ctx, token); refreshErr != nil {
			c.logger.Warn("session renewal failed",
				slog.String("path", cl.path),
				slog.String("error", refreshErr.Error()),
			)
			c.teardown(ctx)
			return nil, &domainErrors.HTTPError{Status: status, Body: body}
		}
		return c.do(ctx, cl.retry())
	}

	if status < 200 || status > 299 {
		return nil, &domainErrors.HTTPError{Status: status, Body: body}
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, cl call, token string) (int, []byte, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join("/", endpoint.Path, cl.path)

	var body io.Reader
	if cl.payload != nil {
		body = cl.payload.Reader()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint.String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.payload != nil {
		req.Header.Set("Content-Type", cl.payload.ContentType())
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.Int("attempt", cl.attempt),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, transportError(err)
	}

	c.logger.Info("backend request",
		slog.String("method", cl.method),
		slog.String("path", cl.path),
		slog.Int("status", resp.StatusCode),
		slog.Int("attempt", cl.attempt),
		slog.String("request_id", requestID),
		slog.Duration("latency", time.Since(start)),
	)
	return resp.StatusCode, payload, nil
}

// refresh renews the token pair. staleToken is the access token the failed
// request carried; when another request already renewed it, nothing is sent.
func (c *Client) refresh(ctx context.Context, staleToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.session.Tokens()
	if current.AccessToken != "" && current.AccessToken != staleToken {
		return nil
	}
	if current.RefreshToken == "" {
		return domainErrors.ErrNoRefreshToken
	}

	payload, err := JSON(map[string]string{"refreshToken": current.RefreshToken})
	if err != nil {
		return err
	}
	body, err := c.do(ctx, newCall(http.MethodPost, refreshPath, payload, []Option{WithoutRefresh()}))
	pair, err := Decode[model.TokenPair](body, err).Unwrap()
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	if pair.AccessToken == "" {
		return fmt.Errorf("refresh token: empty access token")
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = current.RefreshToken
	}
	if err := c.session.Set(ctx, pair); err != nil {
		return fmt.Errorf("store refreshed tokens: %w", err)
	}
	return nil
}

func (c *Client) teardown(ctx context.Context) {
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session", slog.String("error", err.Error()))
	}
	c.navigator.ToLogin(ctx)
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domainErrors.TimeoutError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domainErrors.TimeoutError{Err: err}
	}
	return &domainErrors.NetworkError{Err: err}
}

type requestIDKey struct{}

// WithRequestID attaches an inbound request id so backend calls reuse it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
