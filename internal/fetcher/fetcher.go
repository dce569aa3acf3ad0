// Package fetcher retrieves and parses HTML pages with bounded retries.
package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"newsagent/internal/config"
	"newsagent/internal/types"
)

// Fetcher retrieves pages over HTTP with realistic browser headers, bounded
// retries with exponential backoff, and permanent-block detection on 403.
type Fetcher struct {
	client *http.Client
	cfg    *config.FetcherConfig
	logger *slog.Logger
}

// New creates a Fetcher from configuration.
func New(cfg *config.FetcherConfig, logger *slog.Logger) (*Fetcher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns / 2,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // we handle decompression ourselves (including brotli)
	}

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   cfg.RequestTimeout,
	}

	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "fetcher"),
	}, nil
}

// Fetch retrieves rawURL and returns the parsed document. It makes up to
// MaxRetries attempts, sleeping RetryDelay*2^attempt between failed attempts.
// HTTP 403 is permanent: one attempt, counted against BlockedSites. Other
// non-retryable failures (404, non-HTML content) come back as the underlying
// FetchError; only retryable exhaustion wraps ErrMaxRetries. The rs handle
// receives this cycle's counters; every call counts exactly one logical
// request regardless of retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, rs *types.RunStats) (*goquery.Document, error) {
	rs.TotalRequests.Add(1)

	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		f.logger.Debug("fetching", "url", rawURL, "attempt", attempt+1)

		doc, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			rs.SuccessfulFetches.Add(1)
			return doc, nil
		}
		lastErr = err

		if types.IsBlocked(err) {
			f.logger.Warn("site blocking detected", "url", rawURL, "status", http.StatusForbidden)
			rs.BlockedSites.Add(1)
			return nil, err
		}

		var fe *types.FetchError
		if errors.As(err, &fe) && !fe.Retryable {
			rs.FailedFetches.Add(1)
			return nil, err
		}

		if attempt < f.cfg.MaxRetries-1 {
			backoff := f.cfg.RetryDelay * (1 << attempt)
			f.logger.Warn("fetch failed, backing off", "url", rawURL, "attempt", attempt+1, "backoff", backoff, "error", err)
			select {
			case <-ctx.Done():
				rs.FailedFetches.Add(1)
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	rs.FailedFetches.Add(1)
	return nil, fmt.Errorf("%w for %s: %w", types.ErrMaxRetries, rawURL, lastErr)
}

// fetchOnce executes a single HTTP GET attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: false}
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: isRetryableError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        types.ErrBlocked,
			Retryable:  false,
			Blocked:    true,
		}
	}

	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable:  true,
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
			Retryable:  false,
		}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", types.ErrNotHTML, contentType),
			Retryable:  false,
		}
	}

	var reader io.Reader = resp.Body
	if f.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, f.cfg.MaxBodySize)
	}
	reader, err = decompressReader(resp, reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: false}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("parse html: %w", err), Retryable: false}
	}

	f.logger.Debug("fetch complete", "url", rawURL, "status", resp.StatusCode, "size", len(body))
	return doc, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// isRetryableError checks if a network error warrants a retry.
// Covers timeouts, connection resets, unexpected EOF, and connection refused.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}
	return false
}
