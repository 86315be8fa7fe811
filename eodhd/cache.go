package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// diskCache implements a simple disk cache for HTTP responses.
//
// Entries are keyed by day, so the cache expires every day.
type diskCache struct {
	base http.RoundTripper
	dir  string // defaults to os.TempDir()
	log  zerolog.Logger
	now  func() time.Time
}

// RoundTrip implements the http.RoundTripper interface. It serves a response
// cached today if any, otherwise it performs the request and caches
// successful responses.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	key := c.key(req)

	if cached, err := c.get(key, req); err == nil {
		c.log.Debug().Str("url", req.URL.Path).Msg("cache hit")
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) key(req *http.Request) string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	key := fmt.Sprintf("%s %s %s", now().Format(time.DateOnly), req.Method, req.URL.String())
	return fmt.Sprintf("eodhd-%x", sha1.Sum([]byte(key)))
}

func (c *diskCache) path(key string) string {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache. DumpResponse leaves resp.Body
// readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), content, 0o644)
}

// NewDailyCachingClient returns an http.Client whose successful GET responses
// are cached in dir for the rest of the day. An empty dir means os.TempDir().
func NewDailyCachingClient(dir string, log zerolog.Logger) *http.Client {
	return &http.Client{
		Transport: &diskCache{base: http.DefaultTransport, dir: dir, log: log},
		Timeout:   30 * time.Second,
	}
}
