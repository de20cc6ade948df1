// Package client talks to the alerts REST API. Repository is the generic
// entity contract; ApplianceRepository adds the alert actions.
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

	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/errs"
)

// APIClient issues JSON requests against the API root, e.g.
// http://localhost:8080/api.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// New creates a client. A zero timeout leaves the transport without one.
func New(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends body (if any) and returns the raw response body of a 2xx answer.
// Every failure is an *errs.TransportError.
func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, body entity.Payload) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &errs.TransportError{Err: fmt.Errorf("failed to marshal request payload: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &errs.TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errs.TransportError{Err: fmt.Errorf("http request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errs.TransportError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
	}
	return raw, nil
}

// serverMessage extracts {"error": "..."} from a failed response.
func serverMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || strings.TrimSpace(body.Error) == "" {
		return errs.DefaultTransportMessage
	}
	return body.Error
}

func decodeObject(raw []byte) (entity.Payload, error) {
	p, err := entity.Decode(raw)
	if err != nil {
		return nil, &errs.TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return p, nil
}

func decodeArray(raw []byte) ([]entity.Payload, error) {
	ps, err := entity.DecodeList(raw)
	if err != nil {
		return nil, &errs.TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return ps, nil
}
