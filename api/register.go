package api

import (
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	root() *Router
	routeMiddleware() []Middleware
}

func (r *Router) root() *Router                 { return r }
func (r *Router) routeMiddleware() []Middleware { return nil }

// register is the internal generic registration function. The request
// type's rule table is compiled here, so tag mistakes fail at startup.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(&ri)
	}

	// Determine default status: Void response → 204, otherwise 200.
	if ri.status == 0 {
		if ri.respType == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	ri.rules = rulesFor(ri.reqType)
	ri.handler = buildHandler(h, &ri, reg.root())

	// Apply route-level middleware (from Group).
	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler: bind and check
// the request, run validators, call the handler, encode with the declared
// status.
func buildHandler[Req, Resp any](h Handler[Req, Resp], ri *routeInfo, rt *Router) http.Handler {
	var (
		status    = ri.status
		rules     = ri.rules
		bodyLimit = ri.bodyLimit
		codecs    = rt.codecs
		validator = rt.validator
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bodyLimit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
		}

		req, err := decodeRequest[Req](r, rules, codecs)
		if err != nil {
			rt.WriteError(w, r, err)
			return
		}

		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				rt.WriteError(w, r, asValidationFailure(err))
				return
			}
		}

		if validator != nil {
			if err := validator.Validate(req); err != nil {
				rt.WriteError(w, r, asValidationFailure(err))
				return
			}
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			rt.WriteError(w, r, err)
			return
		}

		if _, ok := any(resp).(*Void); ok || resp == nil {
			w.WriteHeader(status)
			return
		}

		encodeResponse(w, r, resp, status, codecs)
	})
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}
