package xclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"xsearch/internal/logging"
	"xsearch/internal/metrics"
	"xsearch/internal/model"
)

const (
	DefaultBaseURL = "https://api.twitter.com/2"

	searchRecentPath = "/tweets/search/recent"
	timeLayout       = "2006-01-02T15:04:05Z"
	minPageSize      = 10
	maxPageSize      = 100
	maxErrorBody     = 64 << 10
)

var (
	tweetFields = []string{"id", "created_at", "lang", "public_metrics", "entities", "referenced_tweets", "author_id"}
	userFields  = []string{"id", "name", "username"}
	expansions  = []string{"author_id", "referenced_tweets.id"}
)

// Options tunes the HTTP client. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	RPS         float64
	Burst       int
	// WaitOnRateLimit sleeps until the rate-limit window resets instead of failing with KindRateLimited.
	WaitOnRateLimit bool
	// Transport sits under the bearer auth layer; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
	return o
}

// HTTPClient is a bearer-token client for the X API v2 recent search endpoint.
type HTTPClient struct {
	baseURL         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	window          *rateWindow
	maxAttempts     int
	baseBackoff     time.Duration
	waitOnRateLimit bool
	now             func() time.Time
}

func NewHTTPClient(bearerToken string, opts Options) *HTTPClient {
	opts = opts.withDefaults()
	hc := &http.Client{Transport: opts.Transport, Timeout: opts.Timeout}
	if bearerToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, ts)
		hc.Timeout = opts.Timeout
	}
	return &HTTPClient{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		httpClient:      hc,
		limiter:         newLimiter(opts.RPS, opts.Burst),
		window:          &rateWindow{},
		maxAttempts:     opts.MaxAttempts,
		baseBackoff:     opts.BaseBackoff,
		waitOnRateLimit: opts.WaitOnRateLimit,
		now:             time.Now,
	}
}

// RateLimit returns the last rate-limit window reported by the API.
func (c *HTTPClient) RateLimit() (limit, remaining int, resetAt time.Time) {
	return c.window.snapshot()
}

// SearchRecent fetches one page of recent search results.
func (c *HTTPClient) SearchRecent(ctx context.Context, r model.SearchRequest) (model.RawPage, error) {
	var page model.RawPage
	params := url.Values{}
	params.Set("query", r.Query)
	params.Set("max_results", strconv.Itoa(clamp(r.MaxResults, minPageSize, maxPageSize)))
	params.Set("tweet.fields", strings.Join(tweetFields, ","))
	params.Set("user.fields", strings.Join(userFields, ","))
	params.Set("expansions", strings.Join(expansions, ","))
	if r.StartTime != nil {
		params.Set("start_time", r.StartTime.UTC().Format(timeLayout))
	}
	if r.EndTime != nil {
		params.Set("end_time", r.EndTime.UTC().Format(timeLayout))
	}
	if r.NextToken != "" {
		params.Set("next_token", r.NextToken)
	}
	u := c.baseURL + searchRecentPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return page, &Error{Kind: KindConfiguration, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req, searchRecentPath)
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return page, c.decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, &Error{Kind: KindUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode page: %w", err)}
	}
	return page, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// doWithRetry retries network failures and 5xx with exponential backoff.
// A 429 is returned as KindRateLimited unless waitOnRateLimit is set, in which case
// the call sleeps until the window resets and tries again.
func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request, endpoint string) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncAPIRetry(endpoint)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, Err: err}
		}
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return nil, &Error{Kind: KindTransport, Err: ctx.Err()}
			}
			lastErr = &Error{Kind: KindTransport, Err: err}
			logging.Debug("x_api_transport_retry", map[string]any{"attempt": attempt, "error": err.Error()})
			if err := sleep(ctx, jitter(backoff)); err != nil {
				return nil, &Error{Kind: KindTransport, Err: err}
			}
			backoff *= 2
			continue
		}
		c.window.update(resp)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			apiErr := c.decodeError(resp)
			if !c.waitOnRateLimit || apiErr.Title == titleUsageCap {
				return nil, apiErr
			}
			wait := c.window.waitFor(resp, c.now(), backoff)
			logging.Info("x_api_rate_limited_wait", map[string]any{"wait": wait.String(), "attempt": attempt})
			if err := sleep(ctx, wait); err != nil {
				return nil, &Error{Kind: KindRateLimited, StatusCode: resp.StatusCode, ResetAt: apiErr.ResetAt, Err: err}
			}
			lastErr = apiErr
			continue
		case resp.StatusCode >= 500:
			lastErr = c.decodeError(resp)
			logging.Debug("x_api_server_retry", map[string]any{"attempt": attempt, "status": resp.StatusCode})
			if err := sleep(ctx, jitter(backoff)); err != nil {
				return nil, &Error{Kind: KindTransport, Err: err}
			}
			backoff *= 2
			continue
		}
		return resp, nil
	}
	if apiErr, ok := lastErr.(*Error); ok {
		return nil, apiErr
	}
	return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)}
}

// decodeError reads a problem response and closes its body.
func (c *HTTPClient) decodeError(resp *http.Response) *Error {
	defer resp.Body.Close()
	apiErr := &Error{Kind: kindForStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	if apiErr.Kind == KindRateLimited {
		_, _, apiErr.ResetAt = c.window.snapshot()
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
		if apiErr.Detail == "" && len(problem.Errors) > 0 {
			apiErr.Detail = problem.Errors[0].Message
		}
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}

// jitter spreads wait by +/-20%.
func jitter(wait time.Duration) time.Duration {
	j := time.Duration(float64(wait) * 0.2)
	if j <= 0 {
		return wait
	}
	return wait - j + time.Duration(time.Now().UnixNano()%int64(2*j))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
