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

	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// DefaultBaseURL is used when no API address is configured
const DefaultBaseURL = "http://localhost:8000"

// Client provides typed access to the listings API
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// Option customises client instantiation
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// User is the account projection returned by registration
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type registerResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

type loginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password, role string) (*User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	if role != "" {
		body["role"] = role
	}

	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", body, "", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a Session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, "", &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &Error{Status: http.StatusOK, Kind: KindServer, Message: "login response did not include a token"}
	}

	return &Session{
		Token:     resp.Token,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		ExpiresAt: c.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		now:       c.now,
	}, nil
}

// ListListings returns every listing, or those whose city contains city
func (c *Client) ListListings(ctx context.Context, city string) ([]listing.Listing, error) {
	path := "/api/listings"
	if city = strings.TrimSpace(city); city != "" {
		path += "?city=" + url.QueryEscape(city)
	}

	var listings []listing.Listing
	if err := c.do(ctx, http.MethodGet, path, nil, "", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing fetches one listing
func (c *Client) GetListing(ctx context.Context, id string) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.do(ctx, http.MethodGet, listingPath(id), nil, "", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateListing stores a new listing as the session's user
func (c *Client) CreateListing(ctx context.Context, s *Session, fields listing.Fields) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.doAuthed(ctx, http.MethodPost, "/api/listings", fields, s, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListing replaces every field of a listing
func (c *Client) UpdateListing(ctx context.Context, s *Session, id string, fields listing.Fields) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.doAuthed(ctx, http.MethodPut, listingPath(id), fields, s, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteListing removes a listing
func (c *Client) DeleteListing(ctx context.Context, s *Session, id string) error {
	return c.doAuthed(ctx, http.MethodDelete, listingPath(id), nil, s, nil)
}

func listingPath(id string) string {
	return "/api/listings/" + url.PathEscape(strings.TrimSpace(id))
}

// doAuthed attaches the session token. Missing or expired sessions fail
// without a request, and a 401 from the server clears the session.
func (c *Client) doAuthed(ctx context.Context, method, path string, body any, s *Session, v any) error {
	if !s.Valid() {
		s.Clear()
		return &Error{Status: http.StatusUnauthorized, Kind: KindUnauthenticated, Message: "not logged in or session expired"}
	}

	err := c.do(ctx, method, path, body, s.Token, v)

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindUnauthenticated {
		s.Clear()
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
