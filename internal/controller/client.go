package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/models"
)

// Per-call deadlines. The upstream sits on the same network segment; a slow
// answer is treated the same as no answer.
const (
	forwardTimeout   = 2 * time.Second
	authorizeTimeout = 2500 * time.Millisecond
	inventoryTimeout = 2500 * time.Millisecond
)

const maxResponseBytes = 1 << 20

// Client talks to the upstream controller-management service. The upstream
// signals failure through an "error" key in an otherwise successful JSON
// body, so every wrapper checks both the status code and the body.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given upstream base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

// ConnectionPayload is the login submission forwarded upstream.
type ConnectionPayload struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	AcceptTerms bool    `json:"acceptTerms"`
	Token       string  `json:"token"`
}

// AuthorizePayload identifies the guest device to authorize. MAC is
// preferred; IP is the fallback when the portal never saw a MAC.
type AuthorizePayload struct {
	SiteID string  `json:"siteId"`
	MAC    *string `json:"mac,omitempty"`
	IP     *string `json:"ip,omitempty"`
	APMAC  *string `json:"apMac,omitempty"`
	SSID   *string `json:"ssid,omitempty"`
}

// CreateConnection forwards an accepted login upstream
func (c *Client) CreateConnection(ctx context.Context, payload ConnectionPayload) error {
	body, err := c.postJSON(ctx, c.baseURL+"/connections", payload, forwardTimeout)
	if err != nil {
		return err
	}
	return errorKey(body)
}

// PortalConfig fetches the controller's portal configuration
func (c *Client) PortalConfig(ctx context.Context, controllerID int) (*models.PortalConfig, error) {
	endpoint := fmt.Sprintf("%s/controllers/%d/portal-config", c.baseURL, controllerID)
	body, err := c.getJSON(ctx, endpoint, forwardTimeout)
	if err != nil {
		return nil, err
	}
	if err := errorKey(body); err != nil {
		return nil, err
	}

	var config models.PortalConfig
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, fmt.Errorf("decoding portal config: %w", err)
	}
	return &config, nil
}

// Authorize asks the controller to grant the device network access
func (c *Client) Authorize(ctx context.Context, controllerID int, payload AuthorizePayload) error {
	endpoint := fmt.Sprintf("%s/controllers/%d/authorize", c.baseURL, controllerID)
	body, err := c.postJSON(ctx, endpoint, payload, authorizeTimeout)
	if err != nil {
		return err
	}
	return errorKey(body)
}

// Clients fetches the live device inventory for a controller site
func (c *Client) Clients(ctx context.Context, controllerID int, siteID string) ([]models.WirelessClient, error) {
	endpoint := fmt.Sprintf("%s/controllers/%d/clients?siteId=%s", c.baseURL, controllerID, url.QueryEscape(siteID))
	body, err := c.getJSON(ctx, endpoint, inventoryTimeout)
	if err != nil {
		return nil, err
	}
	if err := errorKey(body); err != nil {
		return nil, err
	}

	var envelope struct {
		Clients []models.WirelessClient `json:"clients"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding client inventory: %w", err)
	}
	return envelope.Clients, nil
}

// AccessPoints fetches the AP inventory for a controller site
func (c *Client) AccessPoints(ctx context.Context, controllerID int, siteID string) ([]models.AccessPoint, error) {
	endpoint := fmt.Sprintf("%s/controllers/%d/aps?siteId=%s", c.baseURL, controllerID, url.QueryEscape(siteID))
	body, err := c.getJSON(ctx, endpoint, inventoryTimeout)
	if err != nil {
		return nil, err
	}
	if err := errorKey(body); err != nil {
		return nil, err
	}

	var envelope struct {
		Devices []models.AccessPoint `json:"devices"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding ap inventory: %w", err)
	}
	return envelope.Devices, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload interface{}, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding upstream payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response from %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream %s returned status %d", req.URL.Path, resp.StatusCode)
	}
	return body, nil
}

// errorKey checks the upstream's in-body failure signal. A body that is
// empty or not a JSON object counts as success, matching the upstream
// contract where only the presence of "error" means failure.
func errorKey(body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	if raw, ok := decoded["error"]; ok {
		return fmt.Errorf("upstream reported error: %s", string(raw))
	}
	return nil
}
