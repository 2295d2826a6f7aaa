// Package client provides an HTTP client for the garage REST API.
package client

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
	"github.com/evcraddock/garage/internal/session"
	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

// DomainError is a failure reported by the server in a "message" field.
// Its message is meant for the user as-is.
type DomainError struct {
	Status  int
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Rejection returns the server message.
func (e *DomainError) Rejection() string { return e.Message }

// Client is an HTTP client for the garage API.
type Client struct {
	baseURL    string
	tokens     session.Provider
	httpClient *http.Client
}

// New creates a new API client. The bearer token is read from tokens at the
// time of each request.
func New(baseURL string, tokens session.Provider) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListModels returns the vehicle model catalog.
func (c *Client) ListModels(ctx context.Context) ([]vehicle.Model, error) {
	var models []vehicle.Model
	if err := c.get(ctx, "/models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// GetVehicle returns a vehicle with its owner details.
func (c *Client) GetVehicle(ctx context.Context, id int64) (vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := c.get(ctx, fmt.Sprintf("/vehicles/%d", id), &v)
	return v, err
}

// CreateVehicle registers a vehicle and returns it as stored.
func (c *Client) CreateVehicle(ctx context.Context, v vehicle.Vehicle) (vehicle.Vehicle, error) {
	var out vehicle.Vehicle
	err := c.send(ctx, http.MethodPost, "/vehicles", v, &out)
	return out, err
}

// UpdateVehicle replaces vehicle id.
func (c *Client) UpdateVehicle(ctx context.Context, id int64, v vehicle.Vehicle) (vehicle.Vehicle, error) {
	var out vehicle.Vehicle
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/vehicles/%d", id), v, &out)
	return out, err
}

// GetVisit returns a visit with its service and part lines.
func (c *Client) GetVisit(ctx context.Context, id int64) (visit.Visit, error) {
	var v visit.Visit
	err := c.get(ctx, fmt.Sprintf("/visits/%d", id), &v)
	return v, err
}

// CreateVisit opens a visit and returns it as stored.
func (c *Client) CreateVisit(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	var out visit.Visit
	err := c.send(ctx, http.MethodPost, "/visits", v, &out)
	return out, err
}

// UpdateVisit replaces visit id.
func (c *Client) UpdateVisit(ctx context.Context, id int64, v visit.Visit) (visit.Visit, error) {
	var out visit.Visit
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/visits/%d", id), v, &out)
	return out, err
}

// ListServices returns the services offered for a car segment.
func (c *Client) ListServices(ctx context.Context, carSegment string) ([]visit.Service, error) {
	var services []visit.Service
	if err := c.get(ctx, "/services?"+url.Values{"carSegment": {carSegment}}.Encode(), &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListParts returns the parts offered for a car segment.
func (c *Client) ListParts(ctx context.Context, carSegment string) ([]visit.Part, error) {
	var parts []visit.Part
	if err := c.get(ctx, "/parts?"+url.Values{"carSegment": {carSegment}}.Encode(), &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// Health checks that the server is reachable. It needs no token.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}
	return nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// send performs a request with a JSON body and decodes the response.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request with the bearer token and classifies failures.
// A body carrying a non-empty "message" is a DomainError whatever the status.
func (c *Client) do(req *http.Request, result interface{}) error {
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(logging.RequestIDHeader, reqID)

	log := logging.L().With(
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warn("closing response body", zap.Error(cerr))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(respBody, &msg) == nil && msg.Message != "" {
		return &DomainError{Status: resp.StatusCode, Message: msg.Message}
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
