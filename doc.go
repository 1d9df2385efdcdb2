// Package frontdoor is the HTTP front controller of a federated social
// network node. Every page request passes through one pipeline: the
// environment mode is detected, the path is parsed into a module route,
// the session and language are set up, the module is resolved among
// addons, controllers and file modules, its phases run, and the page is
// assembled through the active theme.
//
// # Quick Start
//
//	app := frontdoor.New(
//	    frontdoor.WithConfig(cfg),
//	    frontdoor.WithLocalConfig(true),
//	    frontdoor.WithControllers(modules.Defaults(users, auth)...),
//	)
//
//	if err := app.Run(":8080", frontdoor.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Modules
//
// A controller is any value implementing at least one phase interface
// ([Initer], [RawContenter], [Poster], [AfterPoster], [Contenter]). It
// serves the module whose name, with the first letter upper-cased, equals
// its type name:
//
//	type Profile struct{}
//
//	func (Profile) Content(c frontdoor.Context) (string, error) {
//	    return "<h1>" + html.EscapeString(c.Arg(1)) + "</h1>", nil
//	}
//
// Phases run in order: init, raw content, post (POST only), after post,
// content. A phase that writes the response, usually through
// [Context.Redirect], ends the lifecycle.
//
// # Addons
//
// Addons are registered at construction with [WithAddons] and activated
// by the system.addon config list. An addon can contribute hooks, an apps
// menu entry and a module served under its name.
//
// # Errors
//
// A phase error is logged and rendered as a 500 page. Return an
// [HTTPError] from [NewHTTPError] to choose the status.
package frontdoor
