package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// Client sends recorded frames to a LungeCoach server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the LungeCoach server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FrameEvent is the server's per-frame response document.
type FrameEvent struct {
	engine.FrameResult
	RepCount int `json:"rep_count"`
}

func (c *Client) do(method, path string, body []byte, wantStatus int, out any) error {
	req, err := http.NewRequest(method, c.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return nil
}

// StartSession opens a fresh session on the server.
func (c *Client) StartSession() (uuid.UUID, error) {
	var row models.SessionRow
	if err := c.do(http.MethodPost, "/api/v1/sessions", nil, http.StatusCreated, &row); err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

// SendFrame POSTs one frame to the session. Retries up to 3 times with
// exponential backoff on failure.
func (c *Client) SendFrame(sessionID uuid.UUID, frame Frame) (*FrameEvent, error) {
	data, err := json.Marshal(models.FramePayload{Landmarks: frame.Landmarks})
	if err != nil {
		return nil, fmt.Errorf("marshaling frame: %w", err)
	}

	path := "/api/v1/sessions/" + sessionID.String() + "/frames"
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		var ev FrameEvent
		if err := c.do(http.MethodPost, path, data, http.StatusOK, &ev); err != nil {
			lastErr = err
			continue
		}
		return &ev, nil
	}
	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

// FinishSession closes the session on the server.
func (c *Client) FinishSession(sessionID uuid.UUID) (*models.SessionRow, error) {
	var row models.SessionRow
	path := "/api/v1/sessions/" + sessionID.String() + "/finish"
	if err := c.do(http.MethodPost, path, nil, http.StatusOK, &row); err != nil {
		return nil, err
	}
	return &row, nil
}
