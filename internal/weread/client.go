package weread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultAPIURL  = "https://i.weread.qq.com"
	defaultSiteURL = "https://weread.qq.com"

	defaultTimeout = 30 * time.Second
)

// Client interfaces with the WeRead web API. Authentication rides on the
// browser session cookie; an expired session is refreshed once per request
// by touching the site root, mirroring what the web reader itself does.
type Client struct {
	apiURL     string
	siteURL    string
	cookie     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the API and site endpoints (used in tests).
func WithBaseURLs(apiURL, siteURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
		c.siteURL = siteURL
	}
}

// NewClient creates a WeRead API client authenticated with the given
// session cookie string.
func NewClient(cookie string, opts ...Option) *Client {
	c := &Client{
		apiURL:  defaultAPIURL,
		siteURL: defaultSiteURL,
		cookie:  cookie,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RefreshSession touches the WeRead site root to renew the session cookie.
func (c *Client) RefreshSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.siteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session refresh failed: %w", err)
	}
	defer resp.Body.Close()

	return nil
}

// GetNotebooks fetches the user's notebook list. On an expired session it
// refreshes once and retries before giving up with ErrSessionExpired.
func (c *Client) GetNotebooks(ctx context.Context) (*NotebookListResponse, error) {
	var out NotebookListResponse
	err := c.get(ctx, "/user/notebooks", nil, &out)
	if err == ErrSessionExpired {
		if refreshErr := c.RefreshSession(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		err = c.get(ctx, "/user/notebooks", nil, &out)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookInfo fetches catalog metadata (category, publisher, intro, isbn)
// for a single book.
func (c *Client) GetBookInfo(ctx context.Context, bookID string) (*BookInfo, error) {
	var out BookInfo
	if err := c.get(ctx, "/book/info", url.Values{"bookId": {bookID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChapterInfos fetches the chapter list of a single book.
func (c *Client) GetChapterInfos(ctx context.Context, bookID string) (*ChapterInfoResponse, error) {
	var out ChapterInfoResponse
	q := url.Values{"bookIds": {bookID}, "synckeys": {"0"}}
	if err := c.get(ctx, "/book/chapterInfos", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookmarkList fetches all highlights of a single book.
func (c *Client) GetBookmarkList(ctx context.Context, bookID string) (*BookmarkListResponse, error) {
	var out BookmarkListResponse
	if err := c.get(ctx, "/book/bookmarklist", url.Values{"bookId": {bookID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReviewList fetches all of the user's reviews for a single book.
func (c *Client) GetReviewList(ctx context.Context, bookID string) (*ReviewListResponse, error) {
	var out ReviewListResponse
	q := url.Values{
		"bookId":   {bookID},
		"listType": {"11"},
		"mine":     {"1"},
		"synckey":  {"0"},
	}
	if err := c.get(ctx, "/review/list", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode >= 500 {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
