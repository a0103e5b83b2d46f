// Package dialer creates outbound calls through the telephony
// platform's call API.
package dialer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/config"
)

// Dial failures are distinguishable so callers can report a specific
// category instead of a generic error.
var (
	ErrMissingCredentials  = errors.New("missing telephony credentials")
	ErrMissingApplication  = errors.New("missing voice application reference")
	ErrInvalidNumber       = errors.New("phone number must be in E.164 format")
	ErrAuthentication      = errors.New("telephony authentication failed")
	ErrApplicationNotFound = errors.New("voice application not found")
)

var e164Re = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// ValidE164 reports whether the number is in E.164 format.
func ValidE164(number string) bool {
	return e164Re.MatchString(number)
}

// Request describes one outbound call to create.
type Request struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	AppRef   string            `json:"app_ref"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Call is the platform's view of a created call.
type Call struct {
	CallID string `json:"call_id"`
	Status string `json:"status"`
}

// Client talks to the platform's call API.
type Client struct {
	httpClient *http.Client
	cfg        config.FonosterConfig
}

// New creates a dialer client from telephony configuration.
func New(cfg config.FonosterConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
	}
}

// CreateCall validates the request and asks the platform to dial. The
// callee is connected to the configured voice application on answer.
func (c *Client) CreateCall(ctx context.Context, req Request) (*Call, error) {
	if c.cfg.AccessKeyID == "" || c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	if req.AppRef == "" {
		req.AppRef = c.cfg.AppRef
	}
	if req.AppRef == "" {
		return nil, ErrMissingApplication
	}
	if !ValidE164(req.From) {
		return nil, fmt.Errorf("from %q: %w", req.From, ErrInvalidNumber)
	}
	if !ValidE164(req.To) {
		return nil, fmt.Errorf("to %q: %w", req.To, ErrInvalidNumber)
	}

	var call Call
	if err := c.do(ctx, http.MethodPost, "/calls", req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// GetCall fetches the current status of a call.
func (c *Client) GetCall(ctx context.Context, callID string) (*Call, error) {
	if c.cfg.AccessKeyID == "" || c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	var call Call
	if err := c.do(ctx, http.MethodGet, "/calls/"+callID, nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// EndCall asks the platform to release a live call.
func (c *Client) EndCall(ctx context.Context, callID string) error {
	if c.cfg.AccessKeyID == "" || c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return ErrMissingCredentials
	}
	return c.do(ctx, http.MethodDelete, "/calls/"+callID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Key-Id", c.cfg.AccessKeyID)
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	detail := readAPIError(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthentication, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrApplicationNotFound, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidNumber, detail)
	default:
		return fmt.Errorf("call API returned %d: %s", resp.StatusCode, detail)
	}
}

func readAPIError(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "no detail"
}
