// Package client is the outbound API client used by portal frontends and
// tools. It owns the session cookies and implements the refresh-then-retry
// policy: an Unauthorized response triggers exactly one token refresh and
// one retry of the original call; a second failure means the session is
// gone and the caller must re-login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired means the refresh attempt itself was rejected; the only
// recovery is a fresh login.
var ErrSessionExpired = errors.New("session expired, login required")

// ErrInvalidCredentials is returned by Login on a 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountInactive is returned by Login on a 403 (expired contract).
var ErrAccountInactive = errors.New("account inactive")

type Client struct {
	baseURL string
	http    *http.Client

	// refreshGroup coalesces concurrent refresh attempts into a single
	// call: N in-flight requests that all hit 401 at once produce one
	// POST /auth/refresh, and every caller retries with its result.
	refreshGroup singleflight.Group
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// Login authenticates and stores the cookie pair in the client's jar.
// Returns the account's role.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.postJSON(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrInvalidCredentials
	case http.StatusForbidden:
		return "", ErrAccountInactive
	default:
		return "", fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	return body.Role, nil
}

// Logout clears the server-issued cookies from the jar via the logout
// endpoint.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postJSON(ctx, "/auth/logout", nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Identity is the verified identity echoed by the /auth/me endpoint.
type Identity struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// Me fetches the current identity through the refresh-aware pipeline.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var identity Identity
	resp, err := c.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return identity, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return identity, fmt.Errorf("me failed: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return identity, err
	}
	return identity, nil
}

// Do issues an authenticated request. On a 401 it refreshes the access
// token once (coalesced across concurrent callers) and retries the original
// call once, propagating whatever the retry returns. There is no second
// retry: a 401 after refresh surfaces as ErrSessionExpired.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	retry, err := c.request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		drain(retry)
		return nil, ErrSessionExpired
	}
	return retry, nil
}

func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// The coalesced call serves every waiter, so it must not die with
		// the one caller whose context happened to win the flight.
		resp, err := c.postJSON(context.WithoutCancel(ctx), "/auth/refresh", nil)
		if err != nil {
			return nil, err
		}
		defer drain(resp)
		if resp.StatusCode != http.StatusOK {
			return nil, ErrSessionExpired
		}
		return nil, nil
	})
	return err
}

func (c *Client) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	if body == nil {
		body = map[string]string{}
	}
	return c.request(ctx, http.MethodPost, path, body)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
