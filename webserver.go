// Package webserver is the server-side request-dispatch and
// page-rendering pipeline of a filesystem-routed web application.
//
// An App is built once from a compiled route manifest. Per request it
// matches exactly one route or fallback, runs the applicable middleware
// chain around it, invokes the matched page's render hook, assembles a
// Content-Security-Policy, and produces the HTTP response. The route
// table is immutable after construction; every request owns its state.
//
//	app, err := webserver.New(manifest, webserver.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", app)
package webserver
