// Package api is the terminal client's HTTP binding to the bookshelf server.
package api

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

	"github.com/atinyakov/bookshelf/internal/client/storage"
	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
)

// Session is the client's view of the stored login.
type Session interface {
	Token() string
	Save(storage.Session) error
	Clear() error
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap maps the status onto the shared error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrConflict
	}
	return nil
}

// Client talks to the API. Every request carries the session's bearer
// token when there is one, and any 401 clears the session.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

// New returns a Client for baseURL.
func New(baseURL string, session Session, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload common.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message, apiErr.Kind = payload.Message, payload.Kind
		}
		// a rejected login must not end the session it would replace
		if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
			if err := c.session.Clear(); err != nil {
				return errors.Join(apiErr, err)
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (*storage.Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	sess := storage.Session{
		User:  storage.SessionUser{ID: out.ID, Name: out.Name, Email: out.Email},
		Token: out.Token,
	}
	if err := c.session.Save(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*storage.Session, error) {
	return c.authenticate(ctx, "/api/users/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

const loginPath = "/api/users/login"

// Login stores a fresh session for the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	return c.authenticate(ctx, loginPath, map[string]string{
		"email": email, "password": password,
	})
}

// Logout forgets the local session. Tokens are not revoked server-side.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// NewBook is the body of an add request.
type NewBook struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	GoogleBookID string `json:"googleBookId"`
	PosterURL    string `json:"posterUrl,omitempty"`
	TotalPages   int    `json:"totalPages"`
}

// ListBooks returns the caller's shelf.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook shelves a book.
func (c *Client) AddBook(ctx context.Context, b NewBook) (*models.Book, error) {
	var out models.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook sends a partial update.
func (c *Client) UpdateBook(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error) {
	var out models.Book
	if err := c.do(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBook removes a book from the shelf.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil)
}

// Volumes is the subset of a Google Books search result the client shows.
type Volumes struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is one catalog hit.
type Volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		PageCount  int      `json:"pageCount"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// AsNewBook turns a catalog hit into an add request.
func (v Volume) AsNewBook() NewBook {
	author := strings.Join(v.VolumeInfo.Authors, ", ")
	if author == "" {
		author = "Unknown"
	}
	return NewBook{
		Title:        v.VolumeInfo.Title,
		Author:       author,
		GoogleBookID: v.ID,
		PosterURL:    v.VolumeInfo.ImageLinks.Thumbnail,
		TotalPages:   v.VolumeInfo.PageCount,
	}
}

// SearchCatalog queries the catalog proxy.
func (c *Client) SearchCatalog(ctx context.Context, q string) (*Volumes, error) {
	var out Volumes
	if err := c.do(ctx, http.MethodGet, "/api/googlebooks/search?q="+url.QueryEscape(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
