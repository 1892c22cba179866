package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EngineClient talks to the opaque plan-generation engine. The gateway
// neither knows nor cares how plans are produced.
type EngineClient struct {
	baseURL string
	client  *http.Client
}

func NewEngineClient(baseURL string, client *http.Client) *EngineClient {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	return &EngineClient{baseURL: baseURL, client: client}
}

func (c *EngineClient) Generate(ctx context.Context, req TripRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)

	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))

	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planning engine returned status %d", resp.StatusCode)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("planning engine returned invalid JSON")
	}

	return json.RawMessage(data), nil
}
