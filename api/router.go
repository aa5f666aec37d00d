package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Router is the central type that holds routes, middleware, and configuration.
// It implements http.Handler.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	routes     []routeInfo

	title       string
	version     string
	description string
	tagDescs    map[string]string

	validator    Validator
	errorHandler ErrorHandler

	encoders []Encoder
	decoders []Decoder
	codecs   *codecRegistry

	mu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in OpenAPI spec).
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the API version (used in OpenAPI spec).
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithAPIDescription sets the API description (used in OpenAPI spec).
func WithAPIDescription(desc string) RouterOption {
	return func(r *Router) {
		r.description = desc
	}
}

// WithTagDescriptions sets tag descriptions for the OpenAPI spec.
func WithTagDescriptions(descs map[string]string) RouterOption {
	return func(r *Router) {
		r.tagDescs = descs
	}
}

// WithValidator sets a global request validator. It runs after the tag
// rules and any SelfValidator.
func WithValidator(v Validator) RouterOption {
	return func(r *Router) {
		r.validator = v
	}
}

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) {
		r.encoders = append(r.encoders, enc)
	}
}

// WithDecoder registers an additional request body decoder.
func WithDecoder(dec Decoder) RouterOption {
	return func(r *Router) {
		r.decoders = append(r.decoders, dec)
	}
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		version: "0.1.0",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.codecs = newCodecRegistry(r.encoders, r.decoders)
	return r
}

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(http.HandlerFunc(r.serveMux))
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// serveMux dispatches req. Requests no route matches get the mux's 404 or
// 405 as a problem response instead of plain text.
func (r *Router) serveMux(w http.ResponseWriter, req *http.Request) {
	h, pattern := r.mux.Handler(req)
	if pattern != "" {
		r.mux.ServeHTTP(w, req)
		return
	}

	rec := &unmatchedWriter{header: http.Header{}}
	h.ServeHTTP(rec, req)

	if rec.status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", rec.header.Get("Allow"))
		r.WriteError(w, req, Errorf(rec.status, "method %s not allowed on %s", req.Method, req.URL.Path))
		return
	}
	r.WriteError(w, req, Errorf(http.StatusNotFound, "no route for %s", req.URL.Path))
}

// unmatchedWriter records the status the mux's fallback handler sends and
// drops its body.
type unmatchedWriter struct {
	header http.Header
	status int
}

func (u *unmatchedWriter) Header() http.Header { return u.header }

func (u *unmatchedWriter) WriteHeader(code int) {
	if u.status == 0 {
		u.status = code
	}
}

func (u *unmatchedWriter) Write(b []byte) (int, error) { return len(b), nil }

// WriteError writes err the way routes do: through the custom error handler
// if one is set, otherwise as a problem details response.
func (r *Router) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	if r.errorHandler != nil {
		r.errorHandler(w, req, err)
		return
	}
	r.WriteProblem(w, req, err)
}

// WriteProblem writes err as an RFC 9457 problem in the negotiated format,
// bypassing any custom error handler. Custom handlers call it to keep the
// standard response shape.
func (r *Router) WriteProblem(w http.ResponseWriter, req *http.Request, err error) {
	writeErrorResponse(w, req, err, r.codecs)
}

// ServerOption configures the http.Server started by ListenAndServe.
type ServerOption func(*serverConfig)

type serverConfig struct {
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
}

// WithReadHeaderTimeout bounds how long the server waits for request headers.
func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.readHeaderTimeout = d
	}
}

// WithShutdownTimeout bounds the graceful shutdown once the context ends.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.shutdownTimeout = d
	}
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string, opts ...ServerOption) error {
	cfg := serverConfig{
		readHeaderTimeout: 10 * time.Second,
		shutdownTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// addRoute registers a routeInfo with the router's mux and stores it
// for OpenAPI generation. Global middleware is applied in ServeHTTP,
// not here. Only group middleware is baked into ri.handler.
//
// Patterns match exactly: a trailing slash does not make a subtree route.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pattern := ri.pattern
	if strings.HasSuffix(pattern, "/") {
		pattern += "{$}"
	}
	r.mux.Handle(ri.method+" "+pattern, ri.handler)
	r.routes = append(r.routes, ri)
}

// handle registers a plain handler that is hidden from the OpenAPI spec.
func (r *Router) handle(pattern string, h http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(pattern, h)
}
