package api

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"strconv"
	"strings"
)

// Encoder encodes response values to a wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder decodes request bodies from a wire format.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// jsonCodec implements both Encoder and Decoder for JSON.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	err := json.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// xmlCodec implements both Encoder and Decoder for XML.
type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

func (xmlCodec) Decode(r io.Reader, v any) error {
	err := xml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// codecRegistry holds the encoders and decoders a router negotiates with.
// Index 0 is always JSON, the default for both directions.
type codecRegistry struct {
	encoders []Encoder
	decoders []Decoder
}

func newCodecRegistry(userEncoders []Encoder, userDecoders []Decoder) *codecRegistry {
	cr := &codecRegistry{
		encoders: []Encoder{jsonCodec{}, xmlCodec{}},
		decoders: []Decoder{jsonCodec{}, xmlCodec{}},
	}
	cr.encoders = append(cr.encoders, userEncoders...)
	cr.decoders = append(cr.decoders, userDecoders...)
	return cr
}

// negotiate picks the encoder with the highest quality in an Accept header.
// Empty Accept means JSON. Ranges such as "application/*" match the first
// registered encoder of that type; q=0 excludes a type.
func (cr *codecRegistry) negotiate(accept string) (Encoder, bool) {
	if strings.TrimSpace(accept) == "" {
		return cr.encoders[0], true
	}

	var (
		best    Encoder
		quality float64
	)

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		q := 1.0
		if qs, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 || q <= quality {
			continue
		}

		if enc := cr.match(mediaType); enc != nil {
			best, quality = enc, q
		}
	}

	return best, best != nil
}

func (cr *codecRegistry) match(mediaType string) Encoder {
	if mediaType == "*/*" {
		return cr.encoders[0]
	}
	major, minor, _ := strings.Cut(mediaType, "/")
	for _, enc := range cr.encoders {
		ct := enc.ContentType()
		if ct == mediaType {
			return enc
		}
		if minor == "*" && strings.HasPrefix(ct, major+"/") {
			return enc
		}
	}
	return nil
}

// decoderFor returns the decoder for a Content-Type. An empty content type
// decodes as JSON, and structured suffixes (+json, +xml) map to their base
// codec.
func (cr *codecRegistry) decoderFor(contentType string) (Decoder, bool) {
	if contentType == "" {
		return cr.decoders[0], true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	for _, dec := range cr.decoders {
		if dec.ContentType() == mediaType {
			return dec, true
		}
	}

	switch {
	case strings.HasSuffix(mediaType, "+json"):
		return cr.decoders[0], true
	case strings.HasSuffix(mediaType, "+xml"), mediaType == "text/xml":
		return cr.decoders[1], true
	}
	return nil, false
}
