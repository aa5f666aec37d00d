package api

import (
	"bytes"
	"errors"
	"net/http"
)

// encodeResponse writes a handler result with the route's declared status.
// The value is encoded with the negotiated codec into a buffer first so an
// encoding failure can still become a clean 500.
func encodeResponse(w http.ResponseWriter, r *http.Request, resp any, status int, codecs *codecRegistry) {
	if !bodyAllowed(status) {
		w.WriteHeader(status)
		return
	}

	enc, ok := codecs.negotiate(r.Header.Get("Accept"))
	if !ok {
		writeErrorResponse(w, r, Errorf(http.StatusNotAcceptable, "cannot produce %s", r.Header.Get("Accept")), codecs)
		return
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, resp); err != nil {
		writeErrorResponse(w, r, err, codecs)
		return
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	w.Write(buf.Bytes())
}

// bodyAllowed reports whether a response with the given status may carry a body.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// writeErrorResponse writes an error as an RFC 9457 problem details
// response. Errors without a status become a 500 whose detail is the status
// text, so internal messages never reach the client.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error, codecs *codecRegistry) {
	status := ErrorStatus(err)

	var pd *ProblemDetail
	if !errors.As(err, &pd) {
		detail := err.Error()
		if status >= http.StatusInternalServerError {
			detail = http.StatusText(status)
		}
		pd = &ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: detail,
		}
	}

	contentType := "application/problem+json"
	enc := Encoder(jsonCodec{})
	if codecs != nil {
		if neg, ok := codecs.negotiate(r.Header.Get("Accept")); ok {
			if _, isXML := neg.(xmlCodec); isXML {
				enc, contentType = neg, "application/problem+xml"
			}
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(pd.Status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, pd)
}
