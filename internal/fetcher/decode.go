package fetcher

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// readBody decodes the Content-Encoding of resp, reads at most limit bytes
// of the decoded stream, and converts the result to UTF-8.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil && len(raw) == 0 {
		return nil, eris.Wrap(err, "fetch: read body")
	}

	decoded, err := decodeContent(resp.Header.Get("Content-Encoding"), raw, limit)
	if err != nil {
		return nil, err
	}
	return toUTF8(decoded, resp.Header.Get("Content-Type")), nil
}

// decodeContent undoes each listed encoding, last applied first.
func decodeContent(encoding string, body []byte, limit int64) ([]byte, error) {
	if encoding == "" || len(body) == 0 {
		return body, nil
	}
	codings := strings.Split(encoding, ",")
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.ToLower(strings.TrimSpace(codings[i]))
		r, err := decoder(coding, body)
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: decode %s", coding)
		}
		if r == nil {
			continue
		}
		out, err := io.ReadAll(io.LimitReader(r, limit))
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		// A truncated compressed stream still yields a usable prefix.
		if err != nil && len(out) == 0 {
			return nil, eris.Wrapf(err, "fetch: decode %s", coding)
		}
		body = out
	}
	return body, nil
}

// decoder returns a reader for coding, or nil for identity or unknown codings.
func decoder(coding string, body []byte) (io.Reader, error) {
	src := bytes.NewReader(body)
	switch coding {
	case "gzip", "x-gzip":
		return gzip.NewReader(src)
	case "deflate":
		// HTTP deflate is zlib-wrapped, but some servers send raw DEFLATE.
		if zr, err := zlib.NewReader(src); err == nil {
			return zr, nil
		}
		return flate.NewReader(bytes.NewReader(body)), nil
	case "br":
		return brotli.NewReader(src), nil
	case "zstd":
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, nil
	}
}

var metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]+charset=["']?\s*([\w-]+)`)

// toUTF8 converts body from the charset named in contentType or in a
// <meta> tag near the top of the document. Unknown charsets pass through.
func toUTF8(body []byte, contentType string) []byte {
	name := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		name = params["charset"]
	}
	if name == "" {
		head := body
		if len(head) > 1024 {
			head = head[:1024]
		}
		if m := metaCharsetRe.FindSubmatch(head); m != nil {
			name = string(m[1])
		}
	}
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return body
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return body
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}
