// Package modules holds the built-in module controllers: the landing page,
// login, the XRD identity document and the install and maintenance pages.
//
// Register them on the application:
//
//	app := frontdoor.New(
//	    frontdoor.WithControllers(modules.Defaults(users)...),
//	    frontdoor.WithModuleFiles(modules.Files(), "."),
//	)
package modules
