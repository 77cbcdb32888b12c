package client

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

	"hotelbook/pkg/model"
)

const DefaultHTTPTimeout = 10 * time.Second

// HttpClient talks to the booking API over HTTP.
type HttpClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL, token string) *HttpClient {
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
	}
}

// APIError is the uniform error payload returned by the service.
type APIError struct {
	Timestamp string         `json:"timestamp"`
	Status    int            `json:"status"`
	Reason    string         `json:"error"`
	Message   string         `json:"message"`
	Path      string         `json:"path"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Reason, e.Message)
}

// StatusOf returns the HTTP status carried by an APIError, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// CreateBooking posts a booking for hotelID. A non-empty idempotencyKey is
// sent in the Idempotency-Key header.
func (c *HttpClient) CreateBooking(ctx context.Context, hotelID string, req *model.BookingRequest, idempotencyKey string) (*model.Booking, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	resp, err := c.request(ctx, http.MethodPost, bookingsPath(hotelID), req, headers)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, decodeAPIError(resp)
	}

	var booking model.Booking
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	return &booking, nil
}

func (c *HttpClient) ListBookings(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	resp, err := c.request(ctx, http.MethodGet, bookingsPath(hotelID), nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var bookings []*model.Booking
	if err := resp.DecodeJSON(&bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Do sends a raw request. The body is sent as-is when it is a []byte and
// JSON-encoded otherwise.
func (c *HttpClient) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	return c.request(ctx, method, path, body, headers)
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	var reqBody io.Reader

	switch b := body.(type) {
	case nil:
	case []byte:
		reqBody = bytes.NewReader(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}

func (c *HttpClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		resp, err := c.request(ctx, http.MethodGet, "/health", nil, nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("service did not become healthy within %v", maxWait)
		case <-ticker.C:
		}
	}
}

func bookingsPath(hotelID string) string {
	return "/api/hotels/" + url.PathEscape(hotelID) + "/bookings"
}

func decodeAPIError(resp *Response) error {
	apiErr := &APIError{}
	if err := resp.DecodeJSON(apiErr); err != nil || apiErr.Reason == "" {
		return &APIError{
			Status:  resp.StatusCode,
			Reason:  http.StatusText(resp.StatusCode),
			Message: strings.TrimSpace(string(resp.Body)),
		}
	}
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return apiErr
}
