package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/zapper/internal/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "zapper"
	maxPlaylistSize  = 16 << 20
)

// Options configures a Client
type Options struct {
	Timeout   time.Duration
	UserAgent string
	VerifyTLS bool
}

// Client downloads playlists and probes stream URLs over HTTP.
// It implements domain.PlaylistFetcher.
type Client struct {
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	now     func() time.Time
	maxSize int64
}

// NewClient creates a new HTTP client for playlist sources
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.VerifyTLS {
		// Many public IPTV hosts serve expired or self-signed certificates
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger:  logger,
		now:     time.Now,
		maxSize: maxPlaylistSize,
	}
}

// withCacheBuster appends t=<unix millis> so CDN caches never serve a stale list
func withCacheBuster(raw string, now time.Time) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch downloads the playlist at rawURL. Any failure wraps domain.ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	reqURL, err := withCacheBuster(rawURL, c.now())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", domain.ErrFetchFailed, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("playlist request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("playlist request failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("playlist request error", "url", rawURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	// One byte past the limit tells a truncated list from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(body)) > c.maxSize {
		c.logger.Error("playlist too large", "url", rawURL, "limit", c.maxSize)
		return nil, fmt.Errorf("%w: playlist exceeds %d bytes", domain.ErrFetchFailed, c.maxSize)
	}
	return body, nil
}

// Probe reports the status code a stream URL answers with. HEAD is tried
// first; servers that reject it (status >= 400) get a GET whose body is
// discarded unread.
func (c *Client) Probe(ctx context.Context, streamURL string) (int, error) {
	status, err := c.probe(ctx, http.MethodHead, streamURL)
	if err == nil && status < http.StatusBadRequest {
		return status, nil
	}
	return c.probe(ctx, http.MethodGet, streamURL)
}

func (c *Client) probe(ctx context.Context, method, streamURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, streamURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
