// Package client provides an HTTP client for the Scribe API and a
// caller-side controller that tracks a workflow session across suspensions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerHeader carries the caller's owner identity.
const OwnerHeader = "X-Scribe-Owner"

// Client is a thin HTTP client for the Scribe API. All calls are scoped to
// the owner identity given at construction.
type Client struct {
	base  string
	owner uuid.UUID
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string, owner uuid.UUID, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimSuffix(baseURL, "/"),
		owner: owner,
		http:  &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Owner returns the owner identity the client was constructed with.
func (c *Client) Owner() uuid.UUID {
	return c.owner
}

// Start begins a workflow run for the document.
func (c *Client) Start(ctx context.Context, cmd StartCommand) (*RunResponse, error) {
	var resp RunResponse
	if err := c.do(ctx, http.MethodPost, "/workflows/start", cmd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume re-enters a suspended run with a decision.
func (c *Client) Resume(ctx context.Context, cmd ResumeCommand) (*RunResponse, error) {
	var resp RunResponse
	if err := c.do(ctx, http.MethodPost, "/workflows/resume", cmd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Run fetches a run record by id.
func (c *Client) Run(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/workflows/"+id.String(), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// DocumentRuns fetches a document's runs.
func (c *Client) DocumentRuns(ctx context.Context, documentID uuid.UUID) ([]Run, error) {
	var found []Run
	path := "/workflows/document/" + documentID.String()
	if err := c.do(ctx, http.MethodGet, path, nil, &found); err != nil {
		return nil, err
	}
	return found, nil
}

// CreateDocument registers a new document.
func (c *Client) CreateDocument(ctx context.Context, cmd CreateDocumentCommand) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodPost, "/documents", cmd, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Document fetches a document by id.
func (c *Client) Document(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, "/documents/"+id.String(), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument modifies a document.
func (c *Client) UpdateDocument(ctx context.Context, id uuid.UUID, cmd UpdateDocumentCommand) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodPut, "/documents/"+id.String(), cmd, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set(OwnerHeader, c.owner.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
