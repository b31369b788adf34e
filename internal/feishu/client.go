// Package feishu provides a Feishu open platform client for directory lookups.
package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the Feishu open platform host.
const DefaultBaseURL = "https://open.feishu.cn"

const tokenPath = "/open-apis/auth/v3/app_access_token/internal/"

// Client issues authenticated calls against the Feishu open platform.
// The app access token and the home department are resolved on first use
// and kept for the lifetime of the client.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	tokens     oauth2.TokenSource

	mu             sync.Mutex
	token          *oauth2.Token
	homeDepartment string
	fill           singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host (e.g. open.larksuite.com).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTokenSource makes the client take its access token from ts instead of
// exchanging the app credentials at the token endpoint.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// NewClient creates a client for the given app credentials. No request is
// made until the first operation.
func NewClient(appID, appSecret string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the app access token, fetching it on first call.
func (c *Client) Token(ctx context.Context) (string, error) {
	tok, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Headers returns the Authorization header sent with every authenticated call.
func (c *Client) Headers(ctx context.Context) (http.Header, error) {
	tok, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	return h, nil
}

func (c *Client) accessToken(ctx context.Context) (*oauth2.Token, error) {
	if tok := c.cachedToken(); tok.Valid() {
		return tok, nil
	}

	v, err := c.shared(ctx, "token", func(ctx context.Context) (any, error) {
		// A fill that finished after our first check already stored a token.
		if tok := c.cachedToken(); tok.Valid() {
			return tok, nil
		}
		tok, err := c.fetchToken(ctx)
		if err != nil {
			return nil, &AuthError{Err: err}
		}
		c.mu.Lock()
		c.token = tok
		c.mu.Unlock()
		c.logger.Debug("app access token acquired")
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

func (c *Client) cachedToken() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// shared runs fill once for all concurrent callers of key. The fill is not
// cancelled with the caller that started it; each caller stops waiting when
// its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fill func(context.Context) (any, error)) (any, error) {
	ch := c.fill.DoChan(key, func() (any, error) {
		return fill(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) fetchToken(ctx context.Context) (*oauth2.Token, error) {
	if c.tokens != nil {
		return c.tokens.Token()
	}

	payload, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	var resp struct {
		Code           int    `json:"code"`
		Msg            string `json:"msg"`
		AppAccessToken string `json:"app_access_token"`
	}
	if err := c.do(ctx, http.MethodPost, tokenPath, nil, nil, payload, &resp); err != nil {
		return nil, err
	}
	if resp.AppAccessToken == "" {
		if resp.Code != 0 {
			return nil, &DecodeError{Path: tokenPath, Err: fmt.Errorf("%w: app_access_token (code %d: %s)", ErrMissingField, resp.Code, resp.Msg)}
		}
		return nil, &DecodeError{Path: tokenPath, Err: fmt.Errorf("%w: app_access_token", ErrMissingField)}
	}

	// No Expiry: the token is trusted for the lifetime of the client.
	return &oauth2.Token{AccessToken: resp.AppAccessToken, TokenType: "Bearer"}, nil
}

// get issues an authenticated GET and returns the decoded body unmodified.
func (c *Client) get(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	header, err := c.Headers(ctx)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := c.do(ctx, http.MethodGet, path, params, header, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, header http.Header, body []byte, target any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("feishu request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	c.logger.Debug("feishu request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), 300),
		}
	}

	// UseNumber keeps 64-bit ids intact through decode and re-encode.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &DecodeError{Path: path, Err: errors.New("unexpected data after JSON body")}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
