package lemlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Lemlist API client covering campaign creation and
// lead enrollment. Lemlist authenticates with HTTP basic auth, empty user
// and the API key as password.
type Client struct {
	BaseURL string
	APIKey  string

	HTTP *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type Campaign struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (c *Client) CreateCampaign(ctx context.Context, name string) (*Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("lemlist campaign name is empty")
	}
	body, _ := json.Marshal(map[string]any{"name": name})
	var out Campaign
	if err := c.do(ctx, http.MethodPost, "/api/campaigns", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddLead enrolls one recipient into a campaign. Custom fields end up as
// campaign variables.
func (c *Client) AddLead(ctx context.Context, campaignID, email string, fields map[string]string) error {
	if strings.TrimSpace(campaignID) == "" || strings.TrimSpace(email) == "" {
		return errors.New("lemlist campaign id and email are required")
	}
	payload := map[string]any{}
	for k, v := range fields {
		payload[k] = v
	}
	body, _ := json.Marshal(payload)
	path := "/api/campaigns/" + url.PathEscape(campaignID) + "/leads/" + url.PathEscape(email)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return errors.New("lemlist base url is empty")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("lemlist api key is empty")
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("", c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("lemlist %s %s http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(b, out)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
