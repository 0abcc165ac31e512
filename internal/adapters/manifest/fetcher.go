package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/domain/config"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// maxManifestBytes bounds the manifest body read
const maxManifestBytes = 1 << 20

// errorSentinelValue in a "Response" field marks an application-level error
const errorSentinelValue = "Error"

// HTTPFetcher fetches <scheme>://<domain>/<path> with bounded sequential retry
type HTTPFetcher struct {
	client   *http.Client
	scheme   string
	path     string
	retry    config.RetryConfig
	log      *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	observer AttemptObserver
}

// AttemptObserver is told about every failed attempt
type AttemptObserver interface {
	ObserveRetry(domain string, attempt int, err error)
}

type nopAttemptObserver struct{}

func (nopAttemptObserver) ObserveRetry(string, int, error) {}

// NewHTTPFetcher creates a manifest fetcher from runtime configuration
func NewHTTPFetcher(cfg *config.RuntimeConfig, log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Manifest.Timeout,
		},
		scheme:   cfg.Manifest.Scheme,
		path:     cfg.Manifest.Path,
		retry:    cfg.Retry,
		log:      log,
		sleep:    sleepContext,
		observer: nopAttemptObserver{},
	}
}

// WithObserver sets the retry observer
func (f *HTTPFetcher) WithObserver(o AttemptObserver) *HTTPFetcher {
	if o != nil {
		f.observer = o
	}
	return f
}

// URL builds the manifest URL for a domain
func (f *HTTPFetcher) URL(domainName, path string) string {
	if path == "" {
		path = f.path
	}
	return fmt.Sprintf("%s://%s/%s", f.scheme, domainName, strings.TrimPrefix(path, "/"))
}

// retryableError marks a failure the loop may retry
type retryableError struct {
	err error
}

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Fetch implements usecase.ManifestFetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, req usecase.ManifestRequest) ([]domain.ManifestRecord, error) {
	url := f.URL(req.Domain, req.Path)

	if f.retry.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.retry.Deadline)
		defer cancel()
	}

	attempts := f.retry.Budget + 1
	backoff := f.retry.Backoff
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		records, err := f.fetchOnce(ctx, req.Domain, url)
		if err == nil {
			if attempt > 1 {
				f.log.Info("manifest fetched after retry", "domain", req.Domain, "job_id", req.JobID, "attempt", attempt)
			}
			return records, nil
		}

		var retryable retryableError
		if !errors.As(err, &retryable) {
			return nil, err
		}
		lastErr = retryable.err
		f.observer.ObserveRetry(req.Domain, attempt, lastErr)
		f.log.Warn("manifest fetch failed",
			"domain", req.Domain,
			"job_id", req.JobID,
			"attempt", attempt,
			"of", attempts,
			"error", lastErr,
		)

		if attempt == attempts {
			break
		}
		if err := f.sleep(ctx, backoff); err != nil {
			lastErr = fmt.Errorf("%w (last error: %v)", err, lastErr)
			return nil, &domain.UpstreamUnavailableError{
				JobID:    req.JobID,
				Domain:   req.Domain,
				Attempts: attempt,
				Cause:    lastErr,
			}
		}
		backoff = nextBackoff(backoff, f.retry.MaxBackoff)
	}

	return nil, &domain.UpstreamUnavailableError{
		JobID:    req.JobID,
		Domain:   req.Domain,
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// fetchOnce performs a single GET and classifies the result
func (f *HTTPFetcher) fetchOnce(ctx context.Context, domainName, url string) ([]domain.ManifestRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.MissingParameterError{Param: "domain", Reason: err.Error()}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, retryableError{fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, retryableError{fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retryableError{fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	return Decode(domainName, body)
}

// Decode parses a manifest body. An object whose Response field is "Error"
// is retryable; anything else that is not an array of records is malformed.
func Decode(domainName string, body []byte) ([]domain.ManifestRecord, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Response string `json:"Response"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Response == errorSentinelValue {
			return nil, retryableError{errors.New("manifest endpoint reported an error response")}
		}
		return nil, &domain.MalformedManifestError{Domain: domainName, Cause: errors.New("expected a JSON array")}
	}

	var raw []struct {
		ContractAddress *string `json:"contractAddress"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &domain.MalformedManifestError{Domain: domainName, Cause: err}
	}

	records := make([]domain.ManifestRecord, 0, len(raw))
	for i, entry := range raw {
		if entry.ContractAddress == nil {
			return nil, &domain.MalformedManifestError{
				Domain: domainName,
				Cause:  fmt.Errorf("entry %d has no contractAddress", i),
			}
		}
		addr, err := domain.ParseAddress(*entry.ContractAddress)
		if err != nil {
			return nil, &domain.MalformedManifestError{
				Domain: domainName,
				Cause:  fmt.Errorf("entry %d: %w", i, err),
			}
		}
		records = append(records, domain.ManifestRecord{ContractAddress: addr})
	}

	return records, nil
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if max > 0 && next > max {
		return max
	}
	return next
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure the adapter implements the interface
var _ usecase.ManifestFetcher = (*HTTPFetcher)(nil)
