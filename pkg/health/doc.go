// Package health runs named dependency checks and serves liveness and
// readiness probes.
//
// [Run] executes [Checks] in parallel under a shared timeout. The front
// controller uses it to probe the database and the config table before it
// decides the operating mode; [Response.Passed] reads a single result.
//
//	resp := health.Run(ctx, health.Checks{
//	    "db":     db.Healthcheck(pool),
//	    "config": store.Available,
//	}, health.WithTimeout(time.Second))
//	if !resp.Passed("db") {
//	    // render the 500 status page
//	}
//
// [LivenessHandler] always answers OK. [ReadinessHandler] answers 503 when a
// check fails. Both reply with plain text unless the client asks for JSON via
// the Accept header or ?format=json.
package health
