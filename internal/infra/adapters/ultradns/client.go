package ultradns

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

	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/config"
	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ZoneDataProvider = (*Client)(nil)

// Client talks to the UltraDNS REST API. It authenticates once at
// construction and holds the bearer token for its whole lifetime; a
// client is built per command invocation and not shared.
type Client struct {
	base      string
	statusURL string
	token     string
	http      *http.Client
	poller    *Poller
	log       *zerolog.Logger
}

func NewClient(ctx context.Context, cfg *config.UltraDNSConfig, logger *zerolog.Logger) (*Client, error) {
	c := &Client{
		base:      strings.TrimRight(cfg.BaseURL, "/"),
		statusURL: cfg.StatusURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		poller:    &Poller{Interval: cfg.PollInterval, MaxWait: cfg.PollMaxWait},
		log:       logger,
	}
	if err := c.authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) authenticate(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/v2/authorization/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: http %d: %s", domain.ErrAuthentication, resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: decode token response: %v", domain.ErrAuthentication, err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", domain.ErrAuthentication)
	}
	c.token = payload.AccessToken
	return nil
}

// get issues an authenticated GET. path may be relative to the API base
// (including the location handles returned by health-check submissions)
// or a full URL. Non-2xx statuses are not treated as errors here; the
// UltraDNS contract is carried in the response body shape.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	target := path
	if !strings.HasPrefix(path, "http") {
		target = c.base + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// FetchSystemStatus returns the raw status-page summary JSON.
func (c *Client) FetchSystemStatus(ctx context.Context) (string, error) {
	body, status, err := c.get(ctx, c.statusURL)
	if err != nil {
		return "", fmt.Errorf("fetch system status: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetch system status: http %d", status)
	}
	return string(body), nil
}
