// Package xapi is a small client for the X (Twitter) API endpoints the
// collector needs: recent search, post lookup and place lookup.
package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/cognicore/postsent/internal/logging"
	"github.com/cognicore/postsent/internal/retry"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

// Fields requested on every post lookup.
var (
	TweetFields = []string{"author_id", "lang", "source", "geo", "entities", "public_metrics", "context_annotations", "created_at"}
	UserFields  = []string{"profile_image_url"}
	Expansions  = []string{"author_id", "geo.place_id", "referenced_tweets.id", "attachments.media_keys"}
	PlaceFields = []string{"place_type", "geo", "full_name", "country"}
)

const (
	DefaultBaseURL = "https://api.twitter.com"
	maxBodyBytes   = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	BearerToken string
	// RequestsPerWindow and Window pace outgoing requests. Zero disables
	// pacing.
	RequestsPerWindow int
	Window            time.Duration
	HTTPClient        *http.Client
	Retry             retry.Policy
	Logger            *log.Logger
}

// Client calls the X API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	policy  retry.Policy
	logger  *log.Logger
}

// New creates a client. Zero-valued Config fields get defaults.
func New(cfg Config) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.BearerToken,
		http:    cfg.HTTPClient,
		policy:  cfg.Retry,
		logger:  cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.policy.MaxAttempts == 0 {
		c.policy = retry.DefaultPolicy
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if cfg.RequestsPerWindow > 0 && cfg.Window > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.RequestsPerWindow)), 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}

	onRetry := c.policy.OnRetry
	c.policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.logger.Warn("retrying x api request", "attempt", attempt, "backoff", backoff, "err", err)
		if onRetry != nil {
			onRetry(attempt, err, backoff)
		}
	}
	return c
}

// SearchRecent returns one page of posts from the last seven days matching
// p.Query, newest first.
func (c *Client) SearchRecent(ctx context.Context, p SearchParams) (SearchPage, error) {
	if strings.TrimSpace(p.Query) == "" {
		return SearchPage{}, fmt.Errorf("search: empty query: %w", internalerr.ErrInvalidInput)
	}
	q := lookupParams()
	q.Set("query", p.Query)
	q.Set("place.fields", strings.Join(PlaceFields, ","))
	q.Set("max_results", strconv.Itoa(clampResults(p.MaxResults)))
	if p.SinceID != "" {
		q.Set("since_id", p.SinceID)
	}
	if p.NextToken != "" {
		q.Set("next_token", p.NextToken)
	}

	var page SearchPage
	if err := c.get(ctx, "/2/tweets/search/recent", q, &page); err != nil {
		return SearchPage{}, fmt.Errorf("search %q: %w", p.Query, err)
	}
	return page, nil
}

// GetTweet looks up a single post with its author expanded.
func (c *Client) GetTweet(ctx context.Context, id string) (Tweet, Includes, error) {
	var resp tweetResponse
	if err := c.get(ctx, "/2/tweets/"+url.PathEscape(id), lookupParams(), &resp); err != nil {
		return Tweet{}, Includes{}, fmt.Errorf("get tweet %s: %w", id, err)
	}
	if resp.Data == nil {
		detail := "no data"
		if len(resp.Errors) > 0 {
			detail = resp.Errors[0].Detail
		}
		return Tweet{}, resp.Includes, fmt.Errorf("get tweet %s: %s: %w", id, detail, internalerr.ErrNotFound)
	}
	return *resp.Data, resp.Includes, nil
}

// Place resolves a place ID through the v1.1 geo endpoint. Unknown places
// report false without an error.
func (c *Client) Place(ctx context.Context, id string) (Place, bool, error) {
	var p Place
	err := c.get(ctx, "/1.1/geo/id/"+url.PathEscape(id)+".json", nil, &p)
	if errors.Is(err, internalerr.ErrNotFound) {
		return Place{}, false, nil
	}
	if err != nil {
		return Place{}, false, fmt.Errorf("place %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, true, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := retry.Do(ctx, c.policy, classify, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, newAPIError(resp, data)
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// classify decides how the retry loop treats a failed request: rate limits
// wait for the window, server and network errors back off, everything else
// is permanent.
func classify(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return retry.After
		case apiErr.StatusCode >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return retry.Retry
	}
	return retry.Stop
}

func lookupParams() url.Values {
	q := url.Values{}
	q.Set("tweet.fields", strings.Join(TweetFields, ","))
	q.Set("user.fields", strings.Join(UserFields, ","))
	q.Set("expansions", strings.Join(Expansions, ","))
	return q
}

func clampResults(n int) int {
	switch {
	case n <= 0:
		return 100
	case n < 10:
		return 10
	case n > 100:
		return 100
	}
	return n
}
