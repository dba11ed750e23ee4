package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Error is a non-success backend response. Message carries the backend's
// human-readable message when present, so views can show it in a banner.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (%d)", e.StatusCode)
}

// Message returns the display message from err, falling back to the given
// generic text when err carries none (transport failures, empty bodies).
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client makes REST calls to the Blastline backend.
//
// The bearer token is mutex-guarded: the session store sets and clears it in
// the same critical section as the persisted token file, so no request can
// observe a half-updated credential.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client targeting the given base URL
// (e.g. "https://api.blastline.app").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer credential used by all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer credential.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed credential.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its token and profile.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the backend that the session is ending.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/logout", nil, nil)
}

// CurrentUser resolves the installed token into a profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SubmitBusinessInfo persists the onboarding business-details step.
func (c *Client) SubmitBusinessInfo(ctx context.Context, info BusinessInfo) error {
	return c.post(ctx, "/onboarding/business", info, nil)
}

// FinishOnboarding marks onboarding complete server-side.
func (c *Client) FinishOnboarding(ctx context.Context) error {
	return c.post(ctx, "/onboarding/finish", nil, nil)
}

// DashboardMetrics fetches the dashboard summary.
func (c *Client) DashboardMetrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	if err := c.get(ctx, "/dashboard/metrics", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Campaigns lists all campaigns.
func (c *Client) Campaigns(ctx context.Context) ([]Campaign, error) {
	var out []Campaign
	if err := c.get(ctx, "/campaigns", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCampaign creates a campaign and returns the stored record.
func (c *Client) CreateCampaign(ctx context.Context, cam Campaign) (*Campaign, error) {
	var out Campaign
	if err := c.post(ctx, "/campaigns", cam, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampaign replaces a campaign's editable fields.
func (c *Client) UpdateCampaign(ctx context.Context, cam Campaign) (*Campaign, error) {
	var out Campaign
	if err := c.put(ctx, "/campaigns/"+cam.ID, cam, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCampaign removes a campaign.
func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	return c.del(ctx, "/campaigns/"+id)
}

// Contacts lists the audience.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := c.get(ctx, "/contacts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateContact adds a contact and returns the stored record, including the
// backend's phone validation verdict.
func (c *Client) CreateContact(ctx context.Context, ct Contact) (*Contact, error) {
	var out Contact
	if err := c.post(ctx, "/contacts", ct, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.del(ctx, "/contacts/"+id)
}

// Templates lists synced message templates.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var out []Template
	if err := c.get(ctx, "/templates", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncTemplates pulls the latest templates from the provider and returns the
// refreshed list.
func (c *Client) SyncTemplates(ctx context.Context) ([]Template, error) {
	var out []Template
	if err := c.post(ctx, "/templates/sync", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MetaSettings fetches the stored provider credentials and channel status.
func (c *Client) MetaSettings(ctx context.Context) (*MetaSettings, error) {
	var s MetaSettings
	if err := c.get(ctx, "/settings/meta", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveMetaSettings stores provider credentials.
func (c *Client) SaveMetaSettings(ctx context.Context, s MetaSettings) error {
	return c.post(ctx, "/settings/meta", s, nil)
}

// TestMetaSettings asks the backend to verify the stored credentials against
// the provider.
func (c *Client) TestMetaSettings(ctx context.Context) error {
	return c.post(ctx, "/settings/meta/test", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeError extracts the backend's message field if the error body is
// JSON, keeping the raw body as a fallback.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return &Error{StatusCode: resp.StatusCode, Message: payload.Message}
	}
	return &Error{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
}
