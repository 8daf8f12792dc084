package catalyst

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	pathToken   = "/dna/system/api/v1/auth/token"
	pathDevices = "/dna/intent/api/v1/network-device"
	tokenHeader = "X-Auth-Token"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// NetworkDevice is a device as listed by Catalyst Center.
type NetworkDevice struct {
	ID                  string `json:"id"`
	Hostname            string `json:"hostname"`
	ManagementIPAddress string `json:"managementIpAddress"`
	PlatformID          string `json:"platformId"`
	SerialNumber        string `json:"serialNumber"`
	SoftwareVersion     string `json:"softwareVersion"`
	Role                string `json:"role"`
	Family              string `json:"family"`
	Series              string `json:"series"`
	LocationName        string `json:"locationName"`
	SNMPLocation        string `json:"snmpLocation"`
}

// Client is a minimal Catalyst Center API client.
type Client struct {
	cfg    Config
	base   string
	http   *http.Client
	logger *zap.Logger

	mu    sync.Mutex
	token string
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("catalyst center url is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid catalyst center url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	//nolint:gosec // verification is an explicit operator choice
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}

	return &Client{
		cfg:  cfg,
		base: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Authenticate requests a new token.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+pathToken, http.NoBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token string `json:"Token"`
	}
	if err := c.send(req, &out); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if out.Token == "" {
		return errors.New("authentication failed: empty token")
	}

	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

// Devices lists every device of family, following offset pagination.
func (c *Client) Devices(ctx context.Context, family string) ([]NetworkDevice, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	var all []NetworkDevice
	offset := 1
	for {
		q := url.Values{}
		if family != "" {
			q.Set("family", family)
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(c.cfg.PageSize))

		var out struct {
			Response []NetworkDevice `json:"response"`
		}
		if err := c.get(ctx, pathDevices+"?"+q.Encode(), &out); err != nil {
			return nil, err
		}
		all = append(all, out.Response...)

		if len(out.Response) < c.cfg.PageSize {
			return all, nil
		}
		offset += len(out.Response)
	}
}

func (c *Client) ensureToken(ctx context.Context) error {
	c.mu.Lock()
	has := c.token != ""
	c.mu.Unlock()
	if has {
		return nil
	}
	return c.Authenticate(ctx)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, http.NoBody)
	if err != nil {
		return err
	}
	c.mu.Lock()
	req.Header.Set(tokenHeader, c.token)
	c.mu.Unlock()
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Catalyst Center request", zap.String("url", req.URL.String()))
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", req.Method, req.URL, err)
	}
	return nil
}
