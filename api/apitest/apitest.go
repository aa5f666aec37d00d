// Package apitest provides typed test helpers for the api framework.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bjaus/personapi/api"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from a router or any other handler.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response. Body is set for 2xx responses with
// content, Problem for error responses.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Problem *api.ProblemDetail
	Raw     []byte
}

// RequestOption adjusts an outgoing request.
type RequestOption func(*http.Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithCookie adds a cookie.
func WithCookie(name, value string) RequestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

// Get sends a typed GET request.
func Get[Resp any](t testing.TB, c *Client, path string, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodGet, path, nil, opts...)
}

// Post sends a typed POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPost, path, jsonBody(t, body), withJSON(opts)...)
}

// Put sends a typed PUT request with a JSON body.
func Put[Req, Resp any](t testing.TB, c *Client, path string, body *Req, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPut, path, jsonBody(t, body), withJSON(opts)...)
}

// Patch sends a typed PATCH request with a JSON body.
func Patch[Req, Resp any](t testing.TB, c *Client, path string, body *Req, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPatch, path, jsonBody(t, body), withJSON(opts)...)
}

// Delete sends a typed DELETE request.
func Delete[Resp any](t testing.TB, c *Client, path string, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodDelete, path, nil, opts...)
}

// PostJSON sends raw JSON text, for payloads a Go type cannot express
// (missing keys, wrong types, nulls).
func PostJSON[Resp any](t testing.TB, c *Client, method, path, raw string, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, method, path, strings.NewReader(raw), withJSON(opts)...)
}

// PostForm sends a URL-encoded form.
func PostForm[Resp any](t testing.TB, c *Client, path string, form url.Values, opts ...RequestOption) *Response[Resp] {
	t.Helper()
	opts = append([]RequestOption{WithHeader("Content-Type", "application/x-www-form-urlencoded")}, opts...)
	return Do[Resp](t, c, http.MethodPost, path, strings.NewReader(form.Encode()), opts...)
}

// File is one file part of a multipart request.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// PostMultipart sends a multipart/form-data request with the given fields
// and files.
func PostMultipart[Resp any](t testing.TB, c *Client, path string, fields url.Values, files ...File) *Response[Resp] {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("apitest: write field: %v", err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("apitest: create file part: %v", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("apitest: write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("apitest: close multipart writer: %v", err)
	}

	return Do[Resp](t, c, http.MethodPost, path, &buf, WithHeader("Content-Type", mw.FormDataContentType()))
}

// Do sends a request and decodes the response.
func Do[Resp any](t testing.TB, c *Client, method, path string, body io.Reader, opts ...RequestOption) *Response[Resp] {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, body)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     raw,
	}
	if len(raw) == 0 {
		return result
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var pd api.ProblemDetail
		if json.Unmarshal(raw, &pd) == nil {
			result.Problem = &pd
		}
		return result
	}

	var decoded Resp
	if json.Unmarshal(raw, &decoded) == nil {
		result.Body = &decoded
	}
	return result
}

// Fields returns the Field of every validation error in the problem.
func (r *Response[T]) Fields() []string {
	if r.Problem == nil {
		return nil
	}
	fields := make([]string, 0, len(r.Problem.Errors))
	for _, e := range r.Problem.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func jsonBody(t testing.TB, body any) io.Reader {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("apitest: marshal request body: %v", err)
	}
	return bytes.NewReader(b)
}

func withJSON(opts []RequestOption) []RequestOption {
	return append([]RequestOption{WithHeader("Content-Type", "application/json")}, opts...)
}
