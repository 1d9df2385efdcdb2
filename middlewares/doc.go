// Package middlewares provides middleware for the frontdoor front controller.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing and debugging.
// It checks incoming headers for existing IDs or generates a UUID.
//
//	app := frontdoor.New(
//	    frontdoor.WithLogger("frontdoor", middlewares.RequestIDExtractor()),
//	    frontdoor.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover catches panics from modules and hooks and converts them to a
// PanicError. The error handler decides what the visitor sees; without one
// the front controller renders a 500 page.
//
//	app := frontdoor.New(
//	    frontdoor.WithMiddleware(
//	        middlewares.Recover(),
//	    ),
//	    frontdoor.WithErrorHandler(func(c frontdoor.Context, err error) error {
//	        if pe, ok := middlewares.AsPanicError(err); ok {
//	            c.LogError("panic", "value", pe.Value, "stack", string(pe.Stack))
//	        }
//	        return err
//	    }),
//	)
//
// # Metrics
//
// Metrics counts requests per resolved module and status, and observes the
// pipeline duration. Mount its handler next to the health endpoints:
//
//	m := middlewares.NewMetrics()
//	app := frontdoor.New(
//	    frontdoor.WithMiddleware(m.Middleware()),
//	    frontdoor.WithMetricsHandler("/metrics", m.Handler()),
//	)
//
// # Recommended Middleware Order
//
//	frontdoor.WithMiddleware(
//	    middlewares.RequestID(), // First: assign ID for all subsequent logging
//	    m.Middleware(),          // Second: measure everything below
//	    middlewares.Recover(),   // Third: catch panics from modules and hooks
//	)
package middlewares
