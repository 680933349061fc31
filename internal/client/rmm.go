// HTTP client for the remote-management (RMM) service. Pass-through calls
// only; the RMM service owns device state. The client is constructed
// explicitly with its configuration and injected where needed, never
// reached through a shared singleton.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudcorenow/backend/internal/config"
)

type RMMClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type RMMDevice struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Online   bool   `json:"online"`
}

type RMMCommandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

type RMMCommandResponse struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

func NewRMMClient(cfg config.RMMConfig) *RMMClient {
	return &RMMClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *RMMClient) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *RMMClient) ListDevices(ctx context.Context) ([]RMMDevice, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v3/agents", nil)
	if err != nil {
		return nil, err
	}

	var devices []RMMDevice
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return devices, nil
}

func (c *RMMClient) RunCommand(ctx context.Context, req RMMCommandRequest) (*RMMCommandResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v3/agents/cmd", payload)
	if err != nil {
		return nil, err
	}

	var res RMMCommandResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &res, nil
}

func (c *RMMClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to rmm: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rmm returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
