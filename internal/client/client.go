// Package client downloads provision records from a legislation API and
// builds provisions and passages from them. A JSONRepository provides the
// same interface over local data for offline use and tests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mscarey/legislice-sub000/core/provision"
	"github.com/mscarey/legislice-sub000/internal/cache"
	"github.com/mscarey/legislice-sub000/internal/logging"
	"github.com/mscarey/legislice-sub000/internal/schema"
)

// DefaultAPIRoot is the public legislation API.
const DefaultAPIRoot = "https://authorityspoke.com/api/v1"

// Fetcher retrieves the record for a provision path, optionally at a
// specific ISO date. An empty date means the most recent version.
type Fetcher interface {
	Fetch(ctx context.Context, path, date string) (schema.RawProvision, error)
}

// PathError reports a query for a path with no enacted text.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("no enacted text found for query %q", e.Path)
}

// TokenError reports a failure to authenticate with the API token.
type TokenError struct {
	Detail string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("API token was not accepted: %s", e.Detail)
}

// Coverage describes the date range of a publication available from the
// API.
type Coverage struct {
	URI            string `json:"uri"`
	LatestHeading  string `json:"latest_heading"`
	FirstPublished string `json:"first_published"`
	EarliestInDB   string `json:"earliest_in_db"`
	LatestInDB     string `json:"latest_in_db"`
}

// Client downloads legislative text over HTTP.
type Client struct {
	// APIRoot is the base URL of the legislation API.
	APIRoot string

	// APIToken authenticates requests; empty for anonymous access. A
	// leading "Token " marker is tolerated and stripped.
	APIToken string

	// HTTPClient is the transport; nil means http.DefaultClient.
	HTTPClient *http.Client

	// Cache, when set, stores responses so repeated queries skip the
	// network.
	Cache *cache.Cache
}

// New returns a client for the given API root, using DefaultAPIRoot when
// root is empty.
func New(root, token string) *Client {
	if root == "" {
		root = DefaultAPIRoot
	}
	token = strings.TrimPrefix(token, "Token ")
	return &Client{APIRoot: root, APIToken: token}
}

// NormalizePath ensures a citation path starts and does not end with a
// slash.
func NormalizePath(path string) string {
	return "/" + strings.Trim(path, "/")
}

// url builds the request URL for a path and optional date, e.g.
// "{root}/us/usc/t17/s103@2020-01-01/".
func (c *Client) url(path, date string) string {
	target := c.APIRoot + NormalizePath(path)
	if date != "" {
		target += "@" + date
	}
	return target + "/"
}

// Fetch downloads the record for a provision path, consulting the cache
// first when one is configured.
func (c *Client) Fetch(ctx context.Context, path, date string) (schema.RawProvision, error) {
	path = NormalizePath(path)
	if c.Cache != nil {
		if body, ok, err := c.Cache.Get(path, date); err == nil && ok {
			logging.FromContext(ctx).Debug("cache hit", "path", path, "date", date)
			return schema.DecodeJSON(body)
		}
	}
	body, err := c.get(ctx, c.url(path, date))
	if err != nil {
		return schema.RawProvision{}, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put(path, date, body); err != nil {
			logging.FromContext(ctx).Warn("cache write failed", "path", path, "error", err)
		}
	}
	return schema.DecodeJSON(body)
}

// FetchCoverage downloads the publication coverage for a code URI such
// as "/us/const".
func (c *Client) FetchCoverage(ctx context.Context, codeURI string) (Coverage, error) {
	body, err := c.get(ctx, c.APIRoot+"/coverage"+NormalizePath(codeURI)+"/")
	if err != nil {
		return Coverage{}, err
	}
	var coverage Coverage
	if err := json.Unmarshal(body, &coverage); err != nil {
		return Coverage{}, fmt.Errorf("decoding coverage response: %w", err)
	}
	return coverage, nil
}

// Read fetches a record and builds the Provision tree, with all text
// selected by default.
func (c *Client) Read(ctx context.Context, path, date string) (*provision.Provision, error) {
	return Read(ctx, c, path, date)
}

// ReadPassage fetches a record and builds a passage selecting the whole
// subtree.
func (c *Client) ReadPassage(ctx context.Context, path, date string) (*provision.ProvisionPassage, error) {
	return ReadPassage(ctx, c, path, date)
}

// get performs one authenticated request and maps API error statuses to
// typed errors.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Token "+c.APIToken)
	}

	started := time.Now()
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	log.Debug("fetched provision data",
		"url", url, "status", resp.StatusCode, "elapsed", time.Since(started))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, &PathError{Path: url}
	case http.StatusForbidden:
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &detail)
		return nil, &TokenError{Detail: detail.Detail}
	default:
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
}

// Read fetches from any Fetcher and builds the Provision tree.
func Read(ctx context.Context, f Fetcher, path, date string) (*provision.Provision, error) {
	raw, err := f.Fetch(ctx, path, date)
	if err != nil {
		return nil, err
	}
	return schema.ReadProvision(raw)
}

// ReadPassage fetches from any Fetcher and builds a passage, honoring
// any selection spec carried by the record.
func ReadPassage(ctx context.Context, f Fetcher, path, date string) (*provision.ProvisionPassage, error) {
	raw, err := f.Fetch(ctx, path, date)
	if err != nil {
		return nil, err
	}
	return schema.ReadPassage(raw)
}
