package inbound

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-services-teamwork/core"
)

const DefaultMaxBodyBytes int64 = 5 << 20

type RequestOptions struct {
	MaxBodyBytes int64
	Now          func() time.Time
}

// FromHTTPRequest reads r into a core.InboundRequest. Header names are
// lower-cased, multi-value headers are joined with ",".
func FromHTTPRequest(r *http.Request, opts RequestOptions) (core.InboundRequest, error) {
	if r == nil {
		return core.InboundRequest{}, inboundBadInput("inbound: http request is nil", nil)
	}
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	var body []byte
	if r.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil {
			return core.InboundRequest{}, inboundWrapBadInput(err, "inbound: read request body", map[string]any{
				"path": r.URL.Path,
			})
		}
		if int64(len(raw)) > limit {
			return core.InboundRequest{}, inboundTooLarge(
				fmt.Sprintf("inbound: request body exceeds limit of %d bytes", limit),
				map[string]any{"path": r.URL.Path, "limit_b": limit},
			)
		}
		body = raw
	}

	req := core.InboundRequest{
		Method:     r.Method,
		Path:       r.URL.Path,
		Headers:    flattenHeaders(r.Header),
		Body:       body,
		ReceivedAt: now(),
		Metadata: map[string]any{
			"remote_addr": r.RemoteAddr,
		},
	}
	if isJSON(r.Header.Get("Content-Type"), body) {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			req.Payload = decoded
		}
	}
	return req, nil
}

// HeaderValue finds key case-insensitively.
func HeaderValue(headers map[string]string, key string) string {
	if value, ok := headers[strings.ToLower(key)]; ok {
		return value
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return value
		}
	}
	return ""
}

func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		flat[strings.ToLower(key)] = strings.Join(values, ",")
	}
	return flat
}

func isJSON(contentType string, body []byte) bool {
	if len(body) == 0 {
		return false
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if strings.Contains(contentType, "json") {
		return true
	}
	if contentType != "" {
		return false
	}
	return json.Valid(body)
}
