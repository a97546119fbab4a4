// Package github is the release catalog client: it queries the GitHub
// releases API for a repository and hands back typed release descriptors.
// It holds no local state and performs no caching — every call reflects the
// remote catalog at that moment.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "hyper-jump"

	// apiTimeout bounds catalog queries; downloadTimeout bounds a whole
	// asset transfer and is sized for multi-hundred-MB node archives.
	apiTimeout      = 30 * time.Second
	downloadTimeout = 15 * time.Minute
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url"`
}

// Release is the remote metadata for one published version.
type Release struct {
	TagName     string    `json:"tag_name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// NetworkError reports an unreachable host, a transport failure, or a
// non-success HTTP status from the remote catalog.
type NetworkError struct {
	URL    string
	Status string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("catalog request %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("catalog request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded into release
// metadata.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode catalog response %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client talks to the GitHub releases API.
type Client struct {
	// BaseURL may be overridden in tests; defaults to the public API.
	BaseURL string

	apiClient      *http.Client
	downloadClient *http.Client
	token          string
}

// NewClient creates a client. token may be empty; when set it is sent as a
// bearer token, which raises the unauthenticated rate limit.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:        defaultBaseURL,
		apiClient:      &http.Client{Timeout: apiTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
		token:          token,
	}
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// ListReleases returns every release of owner/repo in the API's order
// (newest first), following Link-header pagination. Releases with no usable
// asset for the current platform are still included; asset matching is the
// resolver's concern.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	var all []Release

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=100&page=%d", c.BaseURL, owner, repo, page)

		req, err := c.newRequest(ctx, url)
		if err != nil {
			return nil, &NetworkError{URL: url, Err: err}
		}

		resp, err := c.apiClient.Do(req)
		if err != nil {
			return nil, &NetworkError{URL: url, Err: err}
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &NetworkError{URL: url, Status: resp.Status}
		}

		var releases []Release
		err = json.NewDecoder(resp.Body).Decode(&releases)
		linkHeader := resp.Header.Get("Link")
		resp.Body.Close()
		if err != nil {
			return nil, &ParseError{URL: url, Err: err}
		}

		all = append(all, releases...)

		if !strings.Contains(linkHeader, `rel="next"`) {
			break
		}
	}

	return all, nil
}

// OpenAsset starts a download of the given asset URL and returns the response
// body for streaming, plus the content length (-1 when unknown). The caller
// owns the returned ReadCloser.
func (c *Client) OpenAsset(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, 0, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, &NetworkError{URL: url, Status: resp.Status}
	}

	return resp.Body, resp.ContentLength, nil
}
