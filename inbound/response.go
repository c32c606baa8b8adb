package inbound

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-services-teamwork/core"
)

// WriteResult renders result. A nil body produces an empty response with
// only the status code; any other body is encoded as JSON.
func WriteResult(w http.ResponseWriter, result core.InboundResult) error {
	if w == nil {
		return inboundInternal("inbound: response writer is nil", nil)
	}
	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if result.Body == nil {
		w.WriteHeader(status)
		return nil
	}
	encoded, err := json.Marshal(result.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return inboundWrapInternal(err, "inbound: encode response body", map[string]any{"status_code": status})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(encoded)
	return err
}
