package yuque

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL = "https://www.yuque.com/api/v2"

	defaultTimeout = 30 * time.Second
)

// Client interfaces with the Yuque open API. A client is bound to one
// token, one repository namespace and optionally one TOC catalog node;
// concurrent sync tasks each construct their own client instead of mutating
// shared state.
type Client struct {
	apiURL      string
	token       string
	namespace   string
	catalogUUID string
	httpClient  *http.Client
}

// Config holds the settings a Client is constructed from.
type Config struct {
	Token       string
	Namespace   string
	CatalogUUID string // optional TOC node new documents are appended under
	APIURL      string // optional override, used in tests
}

// NewClient creates a Yuque API client.
func NewClient(cfg Config) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiURL:      apiURL,
		token:       cfg.Token,
		namespace:   cfg.Namespace,
		catalogUUID: cfg.CatalogUUID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// User is the authenticated Yuque account.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Repository is one knowledge base the user can publish into.
type Repository struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// Document is a Yuque document or TOC node.
type Document struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	UUID  string `json:"uuid,omitempty"`
}

// GetUser fetches the authenticated user, which doubles as a token check.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var out envelope[User]
	if err := c.do(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetRepositories lists the knowledge bases of the given user.
func (c *Client) GetRepositories(ctx context.Context, login string) ([]Repository, error) {
	var out envelope[[]Repository]
	if err := c.do(ctx, http.MethodGet, "/users/"+login+"/repos", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetCatalogs lists the TOC group nodes of the configured repository.
func (c *Client) GetCatalogs(ctx context.Context) ([]Document, error) {
	var out envelope[[]Document]
	if err := c.do(ctx, http.MethodGet, "/repos/"+c.namespace+"/toc", nil, &out); err != nil {
		return nil, err
	}
	catalogs := make([]Document, 0, len(out.Data))
	for _, item := range out.Data {
		if item.Type == "TITLE" {
			catalogs = append(catalogs, item)
		}
	}
	return catalogs, nil
}

// GetDocument looks a document up by slug. A missing document is not an
// error; it returns nil.
func (c *Client) GetDocument(ctx context.Context, slug string) (*Document, error) {
	var out envelope[Document]
	err := c.do(ctx, http.MethodGet, "/repos/"+c.namespace+"/docs/"+slug, nil, &out)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &out.Data, nil
}

// CreateDocument creates a document and, when a catalog is configured,
// appends it under that TOC node.
func (c *Client) CreateDocument(ctx context.Context, slug, title, body string) error {
	var created envelope[Document]
	payload := map[string]any{"slug": slug, "title": title, "body": body}
	if err := c.do(ctx, http.MethodPost, "/repos/"+c.namespace+"/docs", payload, &created); err != nil {
		return err
	}
	if created.Data.ID == 0 {
		return nil
	}

	tocPayload := map[string]any{
		"action":  "appendByDocs",
		"doc_ids": []int64{created.Data.ID},
	}
	if c.catalogUUID != "" {
		tocPayload["target_uuid"] = c.catalogUUID
	}
	return c.do(ctx, http.MethodPut, "/repos/"+c.namespace+"/toc", tocPayload, nil)
}

// UpdateDocument replaces the body of an existing document.
func (c *Client) UpdateDocument(ctx context.Context, id int64, slug, title, body string) error {
	payload := map[string]any{"slug": slug, "title": title, "body": body}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/docs/%d", c.namespace, id), payload, nil)
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/repos/%s/docs/%d", c.namespace, id), nil, nil)
}

// Publish upserts one rendered notebook: documents are keyed by slug (the
// book id); an existing document is updated in place, and an update the API
// rejects with 400 (stale/corrupt doc state) is replaced by delete + create.
func (c *Client) Publish(ctx context.Context, slug, title, markdown string) error {
	doc, err := c.GetDocument(ctx, slug)
	if err != nil {
		return err
	}

	if doc == nil {
		return c.CreateDocument(ctx, slug, title, markdown)
	}

	err = c.UpdateDocument(ctx, doc.ID, slug, title, markdown)
	if err != nil && statusOf(err) == http.StatusBadRequest {
		if err := c.DeleteDocument(ctx, doc.ID); err != nil {
			return err
		}
		return c.CreateDocument(ctx, slug, title, markdown)
	}
	return err
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidToken
	}
	if resp.StatusCode >= 500 {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
