package service

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is used when a body declares no charset.
const DefaultCharset = "utf-8"

// Placeholder is logged instead of a body that is not rendered as text.
func Placeholder(size int) string {
	return fmt.Sprintf("[%d bytes content]", size)
}

// BodyRenderer turns captured body bytes into loggable text.
type BodyRenderer struct {
	classifier *ContentClassifier
}

// NewBodyRenderer creates a renderer backed by classifier.
func NewBodyRenderer(classifier *ContentClassifier) *BodyRenderer {
	if classifier == nil {
		classifier = NewContentClassifier()
	}
	return &BodyRenderer{classifier: classifier}
}

// Render decodes body as text when its content type is visible. It returns
// false when the body must be summarized by Placeholder instead: opaque
// content type, unknown charset, or undecodable content encoding.
func (r *BodyRenderer) Render(body []byte, contentType, contentEncoding, charset string) (string, bool) {
	if !r.classifier.IsVisible(contentType) {
		return "", false
	}
	plain, err := decompress(body, contentEncoding)
	if err != nil {
		return "", false
	}
	text, err := decodeCharset(plain, charset)
	if err != nil {
		return "", false
	}
	return text, true
}

func decodeCharset(b []byte, charset string) (string, error) {
	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(out), nil
}

// decompress undoes Content-Encoding, applied in reverse of the listed order.
func decompress(body []byte, contentEncoding string) ([]byte, error) {
	if strings.TrimSpace(contentEncoding) == "" {
		return body, nil
	}
	codings := strings.Split(contentEncoding, ",")
	out := body
	for i := len(codings) - 1; i >= 0; i-- {
		var err error
		out, err = decodeOne(out, strings.ToLower(strings.TrimSpace(codings[i])))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeOne(data []byte, coding string) ([]byte, error) {
	switch coding {
	case "", "identity":
		return data, nil
	case "gzip", "x-gzip":
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		return readAll(reader, coding)
	case "deflate":
		// HTTP deflate is zlib-wrapped, but raw deflate is common in practice.
		if reader, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			defer reader.Close()
			return readAll(reader, coding)
		}
		reader := flate.NewReader(bytes.NewReader(data))
		defer reader.Close()
		return readAll(reader, coding)
	case "br":
		return readAll(brotli.NewReader(bytes.NewReader(data)), coding)
	case "zstd":
		decoder, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer decoder.Close()
		return readAll(decoder, coding)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", coding)
	}
}

func readAll(r io.Reader, coding string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s data: %w", coding, err)
	}
	return out, nil
}
