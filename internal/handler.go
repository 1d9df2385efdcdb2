package internal

// HandlerFunc processes a request Context. The front controller pipeline
// is one; middleware wraps it.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing,
// or decorate the Context with request-scoped values.
//
// Example:
//
//	func Tenant(next frontdoor.HandlerFunc) frontdoor.HandlerFunc {
//	    return func(c frontdoor.Context) error {
//	        c.Set(tenantKey{}, c.Request().Host)
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors that escape the pipeline, such as recovered
// panics. Returning nil marks the error as handled; otherwise a 500 status
// page is written.
type ErrorHandler func(Context, error) error
