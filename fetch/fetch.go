// Package fetch downloads pages from the source site one at a time, spacing
// requests with a rate limiter and decoding them to UTF-8.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/padraicbc/keibadb/config"
	"github.com/padraicbc/keibadb/metrics"
)

// Fetcher returns the decoded HTML at path on the source site.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) (string, error)
}

// StatusError is returned for a non 2xx response once retries are spent.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Code)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	// Encoding is used when neither the response header nor the page
	// declares a charset.
	Encoding string
	Delay    time.Duration
	Timeout  time.Duration
	Retries  int
}

// OptionsFromConfig maps the scraper settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Encoding:  cfg.SourceEncoding,
		Delay:     cfg.ScrapeDelay,
		Timeout:   cfg.FetchTimeout,
		Retries:   cfg.FetchRetries,
	}
}

// Client is a Fetcher backed by resty.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	encoding string
	log      *zap.Logger
}

var _ Fetcher = (*Client)(nil)

// New builds a Client. Every Get first waits on a limiter allowing one
// request per Delay.
func New(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(max(opts.Delay, 100*time.Millisecond))
	client.SetRetryMaxWaitTime(max(opts.Delay, 100*time.Millisecond) * 8)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		code := res.StatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	})

	return &Client{
		http:     client,
		limiter:  rate.NewLimiter(limit, 1),
		encoding: opts.Encoding,
		log:      log,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}

	c.log.Debug("fetched",
		zap.String("url", res.Request.URL),
		zap.Int("status", res.StatusCode()),
		zap.Int("bytes", len(res.Body())),
		zap.Duration("took", res.Time()),
	)
	if res.IsError() {
		metrics.FetchRequests.WithLabelValues(strconv.Itoa(res.StatusCode())).Inc()
		return "", &StatusError{URL: res.Request.URL, Code: res.StatusCode()}
	}
	metrics.FetchRequests.WithLabelValues("ok").Inc()

	return decode(res.Body(), res.Header().Get("Content-Type"), c.encoding)
}

// decode converts body to UTF-8. A charset in the Content-Type header or a
// byte order mark wins, then a meta declaration, then valid UTF-8, and only
// then the configured fallback.
func decode(body []byte, contentType, fallback string) (string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == "windows-1252" && fallback != "" {
		if e, _ := charset.Lookup(fallback); e != nil {
			enc = e
		}
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(bytes.TrimPrefix(out, []byte("\xef\xbb\xbf"))), nil
}
