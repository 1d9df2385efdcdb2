package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter records the status and body size of a response and runs
// registered hooks right before the header is sent. The session cookie is
// written from such a hook.
type ResponseWriter struct {
	http.ResponseWriter

	mu     sync.Mutex
	status int
	size   int64
	sent   bool
	hooks  []func()
}

// NewResponseWriter wraps w. The status defaults to 200.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite registers fn to run once, before the header is sent.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	w.hooks = append(w.hooks, fn)
	w.mu.Unlock()
}

// commit sends the header with code unless it was already sent. Only the
// first status wins.
func (w *ResponseWriter) commit(code int) {
	w.mu.Lock()
	if w.sent {
		w.mu.Unlock()
		return
	}
	w.sent = true
	w.status = code
	hooks := w.hooks
	w.hooks = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) WriteHeader(code int) {
	w.commit(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit(w.Status())
	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

// Status is the sent status, or 200 before anything is written.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size is the number of body bytes written.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent
}

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.commit(w.Status())
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
