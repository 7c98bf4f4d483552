package mcp

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

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

// HTTPClient implements DataSource by calling the wodparse REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the parser and its database live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent as X-API-Key on the parse and validate endpoints.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *HTTPClient) Parse(ctx context.Context, text string, save bool, source string) (*ParseOutput, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/parse", nil, map[string]any{
		"text":   text,
		"save":   save,
		"source": source,
	})
	if err != nil {
		return nil, err
	}

	var out ParseOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode parse result: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) Validate(ctx context.Context, text string) ([]parser.Issue, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/validate", nil, map[string]any{"text": text})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Issues []parser.Issue `json:"issues"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode issues: %w", err)
	}
	return resp.Issues, nil
}

func (c *HTTPClient) SearchMovements(ctx context.Context, query string) ([]parser.Movement, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/movements", params, nil)
	if err != nil {
		return nil, err
	}

	var movements []parser.Movement
	if err := json.Unmarshal(body, &movements); err != nil {
		return nil, fmt.Errorf("httpclient: decode movements: %w", err)
	}
	return movements, nil
}

func (c *HTTPClient) ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", params, nil)
	if err != nil {
		return nil, err
	}

	var rows []models.ParsedWorkoutRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return rows, nil
}
