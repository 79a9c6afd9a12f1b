// Package fetch retrieves JSON documents from the upstream operator site.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/traffic"
)

const userAgent = "trainboard/1.0 (+https://github.com/trainboard/trainboard)"

type Fetcher struct {
	HTTPClient *http.Client
	MaxRetries uint64

	// InitialInterval overrides the first backoff step. Zero keeps the
	// library default.
	InitialInterval time.Duration
}

func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: timeout},
		MaxRetries: 3,
	}
}

// Get downloads url, retrying transport errors and 5xx responses with
// exponential backoff. A 404 is returned immediately as traffic.ErrNotFound.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := f.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %s", traffic.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s: %w", url, traffic.ErrNotFound))
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: %s returned %d", traffic.ErrUpstreamUnavailable, url, resp.StatusCode)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("%w: %s returned %d", traffic.ErrUpstreamUnavailable, url, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %s", traffic.ErrUpstreamUnavailable, url, err)
		}

		return nil
	}

	exponential := backoff.NewExponentialBackOff()
	if f.InitialInterval > 0 {
		exponential.InitialInterval = f.InitialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, f.MaxRetries), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("url", url).Dur("wait", wait).Msg("Retrying upstream request")
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// GetJSON downloads url and decodes it into v.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v any) error {
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}

	return nil
}
