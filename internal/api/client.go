// Package api is the HTTP client for the onboarding backend.
//
// Two calls are exposed: user registration and organization creation. Both
// are JSON over HTTP and take a context for cancellation. A failed call
// returns an *Error whose Kind separates transport, server, rejection and
// decode failures; Message renders it in the wording the mobile client used.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/einar/transportapp/internal/logging"
)

const (
	registerPath      = "/register"
	organizationsPath = "/organizations"
	countryHeader     = "country"

	emailTakenMarker = "user with the provided email already exists"

	// error bodies are only inspected for markers; cap what we read
	maxErrorBody = 64 << 10
)

type Client struct {
	Base string
	HTTP *http.Client
	Log  *slog.Logger
}

// New returns a client for base. A zero timeout keeps the transport default.
func New(base string, timeout time.Duration, logger *slog.Logger) *Client {
	hc := http.DefaultClient
	if timeout > 0 {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: hc,
		Log:  logging.OrDiscard(logger),
	}
}

// Register posts req to /register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	const op = "register"
	var out RegisterResponse
	resp, err := c.post(ctx, op, registerPath, req, nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return RegisterResponse{}, &Error{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
		}
		return out, nil
	case http.StatusInternalServerError:
		apiErr := &Error{Kind: KindServer, Op: op, StatusCode: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
		if body, err := readErrorBody(resp.Body); err == nil && strings.Contains(body, emailTakenMarker) {
			apiErr.Err = ErrEmailTaken
		}
		return out, apiErr
	default:
		return out, &Error{Kind: KindRejected, Op: op, StatusCode: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	}
}

// CreateOrganization posts req to /organizations with the country header set.
// A 200 without an organization key is returned as is, with a nil error.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, country string) (CreateOrganizationResponse, error) {
	const op = "create organization"
	var out CreateOrganizationResponse
	resp, err := c.post(ctx, op, organizationsPath, req, http.Header{countryHeader: []string{country}})
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return CreateOrganizationResponse{}, &Error{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
		}
		return out, nil
	case http.StatusInternalServerError:
		detail := http.StatusText(resp.StatusCode)
		if body, err := readErrorBody(resp.Body); err == nil && strings.TrimSpace(body) != "" {
			detail = strings.TrimSpace(body)
		}
		return out, &Error{Kind: KindServer, Op: op, StatusCode: resp.StatusCode, Detail: detail}
	default:
		return out, &Error{Kind: KindRejected, Op: op, StatusCode: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	}
}

func (c *Client) post(ctx context.Context, op, path string, in any, header http.Header) (*http.Response, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.log().Warn("api call failed", "op", op, "path", path, "error", err)
		return nil, &Error{Kind: KindNetwork, Op: op, Err: unwrapURLError(err)}
	}
	c.log().Debug("api call", "op", op, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) log() *slog.Logger {
	return logging.OrDiscard(c.Log)
}

func readErrorBody(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unwrapURLError drops the *url.Error wrapper so the user-facing message reads
// like the cause ("context deadline exceeded") rather than repeating the URL.
// errors.Is still sees the cause.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
