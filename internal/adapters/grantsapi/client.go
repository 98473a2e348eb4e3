// Package grantsapi is an HTTP client for the grantdir search API
package grantsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/logger"
	phttp "grantdir/internal/platform/net/http"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault   = "http://localhost:4000/api"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "grantdir-tool"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
)

// Options configures the Client
type Options struct {
	// BaseURL is the API root including /api
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Kind picks /grants or /jobs, defaults to grants
	Kind listing.Kind

	// RPS caps outgoing requests, 0 means unlimited
	RPS float64

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client reads search, facet, and detail endpoints
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	sleep   func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Kind == "" {
		o.Kind = listing.KindGrant
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	c := &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("grantsapi"),
		sleep: time.Sleep,
	}
	if o.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.RPS), 1)
	}
	return c
}

// Search runs a filtered search; it satisfies filtersync.Searcher
func (c *Client) Search(ctx context.Context, f filters.FilterState) (listing.Page, error) {
	var out listing.Page
	path := c.opts.Kind.Base() + "/search"
	if q := filters.EncodeString(f.Normalize()); q != "" {
		path += "?" + q
	}
	err := c.get(ctx, path, &out)
	return out, err
}

// Facets returns the filter options
func (c *Client) Facets(ctx context.Context) (listing.FacetSet, error) {
	var out listing.FacetSet
	err := c.get(ctx, c.opts.Kind.Base()+"/facets", &out)
	return out, err
}

// Get returns one listing by full or short id
func (c *Client) Get(ctx context.Context, id string) (listing.Listing, error) {
	var out listing.Listing
	err := c.get(ctx, c.opts.Kind.Base()+"/"+url.PathEscape(id), &out)
	return out, err
}

// get fetches path and decodes the envelope data into dst
func (c *Client) get(ctx context.Context, path string, dst any) error {
	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env struct {
		phttp.Envelope
		Data json.RawMessage `json:"data"`
	}
	decErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode != http.StatusOK {
		code, msg := env.Code, env.Error
		if decErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
			if resp.StatusCode == http.StatusNotFound {
				code = perr.ErrorCodeNotFound
			}
		}
		return &StatusError{Status: resp.StatusCode, Body: msg, Err: perr.New(code, msg)}
	}
	if decErr != nil {
		return perr.Wrapf(decErr, perr.ErrorCodeUnknown, "grantsapi decode %s", path)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "grantsapi decode %s data", path)
	}
	return nil
}

// Do issues a request with retries for transport errors, rate limits, and 5xx gateways
// any other response is returned for the caller to read
func (c *Client) Do(ctx context.Context, method, path string) (*http.Response, error) {
	u := c.opts.BaseURL + path
	attempts := 0
	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "grantsapi new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "grantsapi do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("grantsapi transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", time.Since(start)).
			Msg("grantsapi http response")

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				body := readTail(resp.Body)
				if resp.StatusCode == http.StatusTooManyRequests {
					return nil, &StatusError{Status: resp.StatusCode, Body: body, Err: perr.Newf(perr.ErrorCodeTooManyRequests, "grantsapi rate limited")}
				}
				return nil, &StatusError{Status: resp.StatusCode, Body: body, Err: perr.Newf(perr.ErrorCodeUnavailable, "grantsapi transient server error")}
			}
			wait := retryAfter(resp.Header)
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			c.log.Warn().Int("status", resp.StatusCode).Dur("sleep", wait).Msg("grantsapi backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(wait)
			attempts++
			continue
		default:
			return resp, nil
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d > 10*time.Second || d <= 0 {
		d = 10 * time.Second
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func readTail(rc io.ReadCloser) string {
	body, _ := io.ReadAll(io.LimitReader(rc, 2048))
	_ = rc.Close()
	return string(body)
}
