package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/models"
)

// maxResponseSize is the maximum allowed response body size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// TokenSource supplies the bearer credential for outgoing requests.
// An empty token means the request is sent without credentials.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Config holds product service client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Debug   bool
}

// Client is an HTTP client for the product endpoints of the shop backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	debug      bool
}

// NewClient constructs a product service client with sane defaults.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		debug:      cfg.Debug,
	}
}

// List fetches one page of products, optionally filtered by a search term.
// Missing or malformed paging metadata is replaced with a conservative
// single-page descriptor rather than reported as an error.
func (c *Client) List(ctx context.Context, page, pageSize int, search string) (*ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	if search != "" {
		q.Set("search", search)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/products", q, nil)
	if err != nil {
		return nil, err
	}

	result := &ProductPage{
		Items:      []models.Product{},
		Pagination: models.EmptyPagination(pageSize),
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Warn().Err(err).Msg("[CATALOG] Unexpected list response shape, using empty defaults")
		return result, nil
	}
	if resp.Data != nil {
		result.Items = resp.Data
	}
	if resp.Pagination != nil {
		result.Pagination = resp.Pagination.Normalize(pageSize)
	}
	return result, nil
}

// Create persists a new product and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/products", nil, newProductRequest(draft))
	if err != nil {
		return nil, err
	}
	return c.product(body, "", draft)
}

// Update replaces the editable fields of the product identified by id.
func (c *Client) Update(ctx context.Context, id string, draft models.ProductDraft) (*models.Product, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, newProductRequest(draft))
	if err != nil {
		return nil, err
	}
	return c.product(body, id, draft)
}

// Delete removes the product identified by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
	return err
}

// product decodes the product echoed by a create or update. A 2xx reply
// without a body (201/204) still means the write was persisted; the product
// is then rebuilt from what was sent, without an ID for a create.
func (c *Client) product(body []byte, id string, draft models.ProductDraft) (*models.Product, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		log.Debug().Str("product_id", id).Msg("[CATALOG] Empty write response, using submitted fields")
		p := productFromDraft(id, draft)
		return &p, nil
	}
	p, err := decodeProduct(body)
	if err != nil {
		return nil, &RemoteServiceError{Kind: KindShape, Err: fmt.Errorf("failed to decode product: %w", err)}
	}
	return p, nil
}

// doRequest performs the HTTP call and returns the raw response body of a
// 2xx response. Every failure is reported as a *RemoteServiceError.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, &RemoteServiceError{Kind: KindTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", endpoint)
		if payload != nil {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[CATALOG] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &RemoteServiceError{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteServiceError{Kind: KindTransport, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &RemoteServiceError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(respBody)).
			Msg("[CATALOG] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteServiceError{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
		}
	}
	return respBody, nil
}

// token resolves the bearer credential. A failing source is logged and the
// request goes out without credentials; the server decides whether that is
// acceptable.
func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[CATALOG] Failed to resolve session token")
		return ""
	}
	return token
}
