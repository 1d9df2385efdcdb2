package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler answers 200 while the process is up.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply(w, r, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks per request and answers 503 when one fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	o := collect(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		reply(w, r, run(r.Context(), checks, o))
	}
}

// reply writes plain text unless the client asked for JSON through the
// Accept header or ?format=json.
func reply(w http.ResponseWriter, r *http.Request, resp *Response) {
	code, text := http.StatusOK, "OK"
	if resp.Status != StatusHealthy {
		code, text = http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)
	}
	w.Header().Set("Cache-Control", "no-store")

	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(text))
}
