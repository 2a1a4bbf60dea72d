package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vin2grow/storefront-go/internal/session"
	"github.com/vin2grow/storefront-go/pkg/httpclient"
)

// Doer is the interface for executing HTTP requests. Both httpclient.Client
// and httpclient.CircuitBreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token attached to every request.
// session.Manager satisfies this.
type TokenSource interface {
	Token() string
}

// Client talks to the storefront REST API. It attaches the bearer token from
// the token source and translates error responses into pkg/errors values.
type Client struct {
	baseURL string
	http    Doer
	tokens  TokenSource
	logger  *slog.Logger
}

// NewClient creates a storefront API client. baseURL should include the API
// prefix, e.g. "http://localhost:8081/api".
func NewClient(baseURL string, doer Doer, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		tokens:  tokens,
		logger:  logger,
	}
}

// newRequest builds a request with JSON content type and the bearer token,
// if one is available.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// doJSON executes the request and decodes a 2xx response body into out.
// Non-2xx responses are translated via httpclient.ParseResponseError; the
// resource name qualifies the resulting error.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, resource string) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call storefront api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, resource)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

// --- Auth endpoints ---

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login exchanges credentials for a bearer token and user identity.
// Registration does not sign the user in; login is a separate call.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, session.User, error) {
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp, "auth"); err != nil {
		return "", session.User{}, err
	}
	if resp.Token == "" {
		return "", session.User{}, fmt.Errorf("auth response missing token")
	}
	return resp.Token, resp.User, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", req, nil, "auth")
}
