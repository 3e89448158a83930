// Package client talks to the Currently REST API.
//
// Every authenticated call reads a bearer token from a TokenSource first
// and fails with KindAuthMissing, without touching the network, when
// there is none. Non-2xx responses become KindRemoteRejected carrying the
// response body as the user-facing message; transport errors become
// KindNetworkFailure. Calls are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/currently-core/internal/audit"
	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10

	msgMalformedResponse = "the server sent a response that could not be read"
)

// Client is a REST client for one Currently backend.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New returns a Client for the API rooted at baseURL.
//
// A trailing slash on baseURL is ignored. A nil tokens source behaves as
// an empty token, so every authenticated call fails with KindAuthMissing.
// Requests time out after 15 seconds unless WithHTTPClient overrides it.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials are sent to register and log in.
type Credentials struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Session is returned by a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ListCatalogue fetches the appliance catalogue. No token is needed.
func (c *Client) ListCatalogue(ctx context.Context) ([]catalogue.Archetype, error) {
	var out []catalogue.Archetype
	err := c.do(ctx, "list catalogue", http.MethodGet, "/api/appliances", false, nil, &out)
	return out, err
}

// ListRooms fetches the user's rooms.
func (c *Client) ListRooms(ctx context.Context) ([]household.Room, error) {
	var out []household.Room
	err := c.do(ctx, "list rooms", http.MethodGet, "/api/users/me/rooms", true, nil, &out)
	return out, err
}

// CreateRoom creates a room and returns it as stored.
func (c *Client) CreateRoom(ctx context.Context, req household.RoomRequest) (household.Room, error) {
	var out household.Room
	err := c.do(ctx, "create room", http.MethodPost, "/api/users/me/rooms", true, req, &out)
	return out, err
}

// UpdateRoom changes a room and returns it as stored.
func (c *Client) UpdateRoom(ctx context.Context, id int64, req household.RoomRequest) (household.Room, error) {
	var out household.Room
	err := c.do(ctx, "update room", http.MethodPut, roomPath(id), true, req, &out)
	return out, err
}

// DeleteRoom deletes a room.
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.do(ctx, "delete room", http.MethodDelete, roomPath(id), true, nil, nil)
}

// ListAppliances fetches the user's appliances.
func (c *Client) ListAppliances(ctx context.Context) ([]household.Appliance, error) {
	var out []household.Appliance
	err := c.do(ctx, "list appliances", http.MethodGet, "/api/users/me/appliances", true, nil, &out)
	return out, err
}

// CreateAppliance adds an appliance and returns it as stored.
func (c *Client) CreateAppliance(ctx context.Context, req household.ApplianceRequest) (household.Appliance, error) {
	var out household.Appliance
	err := c.do(ctx, "create appliance", http.MethodPost, "/api/users/me/appliances", true, req, &out)
	return out, err
}

// UpdateAppliance changes an appliance and returns it as stored.
func (c *Client) UpdateAppliance(ctx context.Context, id int64, req household.ApplianceRequest) (household.Appliance, error) {
	var out household.Appliance
	err := c.do(ctx, "update appliance", http.MethodPut, appliancePath(id), true, req, &out)
	return out, err
}

// DeleteAppliance deletes an appliance.
func (c *Client) DeleteAppliance(ctx context.Context, id int64) error {
	return c.do(ctx, "delete appliance", http.MethodDelete, appliancePath(id), true, nil, nil)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.do(ctx, "register", http.MethodPost, "/api/auth/register", false, creds, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	var out Session
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", false, creds, &out)
	return out, err
}

// ListActivity fetches a page of the user's activity log, newest first.
// Zero Limit uses the server default.
func (c *Client) ListActivity(ctx context.Context, resource string, limit int) (audit.Page, error) {
	q := url.Values{}
	if resource != "" {
		q.Set("resource", resource)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/users/me/activity"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out audit.Page
	err := c.do(ctx, "list activity", http.MethodGet, path, true, nil, &out)
	return out, err
}

func roomPath(id int64) string {
	return "/api/users/me/rooms/" + strconv.FormatInt(id, 10)
}

func appliancePath(id int64) string {
	return "/api/users/me/appliances/" + strconv.FormatInt(id, 10)
}

// do performs one request. The token check happens before anything else
// so a missing token never reaches the network.
func (c *Client) do(ctx context.Context, op, method, path string, auth bool, in, out any) error {
	var token string
	if auth {
		t, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if t == "" {
			return &Error{Kind: KindAuthMissing, Op: op}
		}
		token = t
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetworkFailure, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // partial body is fine
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &Error{Kind: KindRemoteRejected, Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindRemoteRejected, Op: op, Status: resp.StatusCode, Message: msgMalformedResponse, Err: err}
	}
	return nil
}
