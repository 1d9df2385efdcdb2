// Package internal implements the front controller behind package
// frontdoor.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/frontdoor" instead, which re-exports the public API.
//
// # Request pipeline
//
// Every request that is not a health or metrics probe goes through App.serve:
//
//  1. Detect the environment mode (local config, database, config table,
//     maintenance) and refuse service when the database is gone.
//  2. Admission control: too many requests in flight or a high load
//     average gives 503 with Retry-After.
//  3. Start the session, select the language, redeem zrl and owt remote
//     identity parameters.
//  4. Resolve the first path segment to an addon, a controller or a
//     module file. Unknown modules give a 404 page.
//  5. Run the module lifecycle: init, raw content, post, afterpost,
//     content. Hooks run around each phase.
//  6. Assemble the page: head, nav, messages, footer, security headers,
//     and render it through the theme.
//
// # Modules
//
// A controller is any value implementing at least one phase interface
// (Initer, RawContenter, Poster, AfterPoster, Contenter). It serves the
// module named after its type:
//
//	type Help struct{}
//
//	func (Help) Content(c frontdoor.Context) (string, error) {
//	    return "<h1>" + c.T("Help") + "</h1>", nil
//	}
//
//	app := frontdoor.New(frontdoor.WithControllers(&Help{}))
//
// Addons bundle a FuncModule with hooks and are enabled through the
// system.addon config key.
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context. Hooks receive it as their ctx
// argument; ContextFrom recovers it.
package internal
