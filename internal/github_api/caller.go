// Package githubapi walks the REST API of a GitHub (Enterprise) instance: paged lists are
// followed through their Link headers until exhausted, single resources are looked up once.
// Failures never abort a walk silently: what was fetched before the failure is returned with the error.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"emperror.dev/errors"
	"golang.org/x/oauth2"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/internal/limiter"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

const (
	headerLink = "Link"
	lowQuota   = 100
)

var (
	ErrStatus      = errors.New("github api: non-success status")
	ErrPageLoop    = errors.New("github api: next page already visited")
	ErrPageLimit   = errors.New("github api: page limit reached")
	ErrNotAList    = errors.New("github api: response is not a list")
	ErrNotAnObject = errors.New("github api: response is not an object")
)

// StatusError is returned for any status other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API (%s) returned %d", e.URL, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	client      *http.Client
	rateLimiter *limiter.RateLimiter
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	timeout := time.Duration(config.GithubApi.Timeout) * time.Second

	client := &http.Client{Timeout: timeout}
	if config.GithubApi.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubApi.AccessToken})
		client = oauth2.NewClient(context.Background(), ts)
		client.Timeout = timeout
	}

	return NewCallerWithClient(logger, config, client)
}

func NewCallerWithClient(logger log.Logger, config *cfg.Config, client *http.Client) *Caller {
	return &Caller{
		Logger:      logger,
		Config:      config,
		client:      client,
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
	}
}

// get issues one GET and returns the body of a 200 response along with the next page link.
func (c *Caller) get(ctx context.Context, url string) ([]byte, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", errors.Wrap(err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errors.Wrapf(err, "build request %s", url)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(err, "request %s", url)
	}
	defer resp.Body.Close()

	c.rateLimiter.Observe(resp)
	if remaining, known := c.rateLimiter.Remaining(); known && remaining < lowQuota {
		c.Logger.Warn(ctx, "GitHub API quota low: %d calls left", remaining)
	}

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrapf(err, "read body %s", url)
	}

	next := ParseNextLink(resp.Header.Get(headerLink))
	if next != "" {
		next = resolveLink(url, next)
	}
	return body, next, nil
}

// FetchAll returns every element of the paged list starting at url, in page order.
// If a page fails, the elements of the pages before it are returned together with the error.
// The walk also stops, keeping what it has, when a next link repeats or MaxPages is reached.
func (c *Caller) FetchAll(ctx context.Context, url string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	visited := make(map[string]struct{})
	maxPages := c.Config.GithubApi.MaxPages

	for page := 1; url != ""; page++ {
		if _, seen := visited[url]; seen {
			c.Logger.Error(ctx, "Pagination loop detected at %s after %d pages", url, page-1)
			return all, errors.WithDetails(ErrPageLoop, "url", url)
		}
		if maxPages > 0 && page > maxPages {
			c.Logger.Error(ctx, "Stopped paging at %s: limit of %d pages reached", url, maxPages)
			return all, errors.WithDetails(ErrPageLimit, "url", url, "pages", maxPages)
		}
		visited[url] = struct{}{}

		body, next, err := c.get(ctx, url)
		if err != nil {
			c.Logger.Error(ctx, "Page %d failed, keeping %d elements: %v", page, len(all), err)
			return all, errors.WithDetails(err, "page", page)
		}

		var elements []json.RawMessage
		if err := json.Unmarshal(body, &elements); err != nil || !isJSONList(body) {
			c.Logger.Error(ctx, "Page %d of %s is not a JSON list, keeping %d elements", page, url, len(all))
			return all, errors.WithDetails(ErrNotAList, "url", url, "page", page)
		}

		c.Logger.Debug(ctx, "Fetched page %d (%d elements) from %s", page, len(elements), url)
		all = append(all, elements...)
		url = next
	}

	return all, nil
}

// FetchObject looks up a single resource. Any failure, a non-success status included, yields no object.
func (c *Caller) FetchObject(ctx context.Context, url string) (json.RawMessage, error) {
	body, _, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !isJSONObject(body) {
		return nil, errors.WithDetails(ErrNotAnObject, "url", url)
	}
	return json.RawMessage(body), nil
}

func isJSONList(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
