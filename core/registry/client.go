package registry

import (
	"bytes"
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
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a required object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrAmbiguous is returned when a natural key matches several objects.
	ErrAmbiguous = errors.New("lookup matched more than one object")
)

// APIError is a non-2xx response from the registry.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client is a registry API client.
type Client struct {
	baseURL      string
	token        string
	manufacturer string
	pageSize     int
	http         *http.Client
	logger       *zap.Logger
}

// New creates a client from cfg.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("registry url is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid registry url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	manufacturer := cfg.Manufacturer
	if manufacturer == "" {
		manufacturer = "Cisco"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	//nolint:gosec // verification is an explicit operator choice
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}

	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		token:        cfg.Token,
		manufacturer: manufacturer,
		pageSize:     pageSize,
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}, nil
}

// page is one page of a list response.
type page[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// do sends a request to target, which is either an API path or an absolute
// URL, and decodes the response into out when it is not nil.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + target
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Registry request", zap.String("method", method), zap.String("url", target))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, target, err)
	}
	return nil
}

// list fetches every object at path matching query, following pagination.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("limit", strconv.Itoa(c.pageSize))

	target := path + "?" + q.Encode()
	var all []T
	for target != "" {
		var p page[T]
		if err := c.do(ctx, http.MethodGet, target, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)

		target = ""
		if p.Next != nil {
			target = *p.Next
		}
	}
	return all, nil
}

// findOne returns the single object at path matching query.
func findOne[T any](ctx context.Context, c *Client, path string, query url.Values) (T, bool, error) {
	var zero T
	found, err := list[T](ctx, c, path, query)
	if err != nil {
		return zero, false, err
	}
	switch len(found) {
	case 0:
		return zero, false, nil
	case 1:
		return found[0], true, nil
	default:
		return zero, false, fmt.Errorf("%s?%s: %w (%d results)", path, query.Encode(), ErrAmbiguous, len(found))
	}
}

// create posts body to path and returns the new object's id.
func (c *Client) create(ctx context.Context, path string, body any) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
