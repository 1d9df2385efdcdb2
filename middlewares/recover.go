package middlewares

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dmitrymomot/frontdoor/internal"
)

// DefaultStackSize caps the captured stack trace in bytes.
const DefaultStackSize = 4096

// PanicError is returned by Recover in place of a panic raised while a
// module handled the request.
type PanicError struct {
	Module string
	Value  any
	Stack  []byte // nil when stack capture is off
}

func (e *PanicError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in module %q: %v", e.Module, e.Value)
}

// IsPanicError reports whether err wraps a PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// AsPanicError unwraps a PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type recoverConfig struct {
	stackSize int
	noStack   bool
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

// WithRecoverStackSize sets the stack capture limit.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}

// WithRecoverDisablePrintStack turns stack capture off.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *recoverConfig) {
		cfg.noStack = true
	}
}

// Recover turns a panic in the chain into a *PanicError so the front
// controller answers 500 instead of dropping the connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				pe := &PanicError{Module: c.Module(), Value: r}
				attrs := []any{"module", pe.Module, "panic", r}
				if !cfg.noStack {
					buf := make([]byte, cfg.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)
				err = pe
			}()
			return next(c)
		}
	}
}
