package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the LungeCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// session data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id uuid.UUID) (*models.SessionRow, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var row models.SessionRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &row, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, start, end time.Time) ([]models.SessionRow, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var rows []models.SessionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) QueryReps(ctx context.Context, sessionID uuid.UUID) ([]models.RepRow, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+sessionID.String()+"/reps", nil)
	if err != nil {
		return nil, err
	}

	var rows []models.RepRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode reps: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) QueryFeedback(ctx context.Context, sessionID uuid.UUID) ([]models.FeedbackRow, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+sessionID.String()+"/feedback", nil)
	if err != nil {
		return nil, err
	}

	var rows []models.FeedbackRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode feedback: %w", err)
	}
	return rows, nil
}
