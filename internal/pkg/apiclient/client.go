package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/history"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/app/orchestrator/operator"
)

// Client is a thin client for the orchestrator REST API, used by the CLI.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient creates a new Client instance for the given base url.
func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Index submits an index operation.
func (c *Client) Index(ctx context.Context, operation models.IndexOperation) (*models.IndexOperationResult, error) {
	var result models.IndexOperationResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/index", operation, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFunctions fetches all indexed functions grouped by location.
func (c *Client) ListFunctions(ctx context.Context) ([]operator.FunctionGroup, error) {
	var groups []operator.FunctionGroup
	if err := c.do(ctx, http.MethodGet, "/api/v1/functions", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// DeleteFunction removes the function with the given identifier from the index.
func (c *Client) DeleteFunction(ctx context.Context, functionId string) (*models.IndexOperationResult, error) {
	var result models.IndexOperationResult
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/functions/%s", functionId), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InvokeFunction triggers an invocation of the function with the given identifier.
func (c *Client) InvokeFunction(ctx context.Context, functionId string, request map[string]interface{}) (*operator.InvokeOutcome, error) {
	var outcome operator.InvokeOutcome
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/functions/%s/invoke", functionId), request, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// InvocationAttempts fetches the attempt history of a logical invocation.
func (c *Client) InvocationAttempts(ctx context.Context, correlationId string) ([]history.AttemptEntry, error) {
	var entries []history.AttemptEntry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/invocations/%s", correlationId), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do performs one request against the orchestrator API and decodes the response.
func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach orchestrator: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("orchestrator responded with status %d: %s", res.StatusCode, string(payload))
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
