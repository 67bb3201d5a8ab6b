// Package api contains the typed REST clients for the backend. The web
// client owns no domain state; everything here is a read or a state
// transition executed by the backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mesacard/internal/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

func NewClient(baseURL string, sess *session.Store) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		session: sess,
	}
}

// Clients bundles one client per backend resource, mirroring the service
// split on the backend side.
type Clients struct {
	Auth       *AuthService
	Orders     *OrderService
	Tables     *TableService
	Products   *ProductService
	Categories *CategoryService
	Dashboard  *DashboardService
}

func NewClients(baseURL string, sess *session.Store) *Clients {
	c := NewClient(baseURL, sess)
	return &Clients{
		Auth:       &AuthService{c},
		Orders:     &OrderService{c},
		Tables:     &TableService{c},
		Products:   &ProductService{c},
		Categories: &CategoryService{c},
		Dashboard:  &DashboardService{c},
	}
}

// do issues one request. Privileged calls take the bearer token from the
// session store; public calls (customer menu) go out bare.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	var token string
	if authed {
		token = c.session.Token()
		if token == "" {
			return ErrUnauthenticated
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *Client) getPublic(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out, false)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}
