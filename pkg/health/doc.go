// Package health provides HTTP handlers for liveness and readiness
// probes.
//
// [LivenessHandler] is a simple always-OK endpoint for process liveness.
// [ReadinessHandler] executes a set of named [Checks] in parallel and
// reports whether the service can accept traffic.
//
// Handlers respond with plain text for probe compatibility; request JSON
// with an Accept: application/json header or ?format=json:
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//	    "queue": q.Healthcheck,
//	}, health.WithLogger(log)))
//
// Plain text responses are "OK" (200) or "Service Unavailable" (503). The
// JSON form carries per-check status and error text.
package health
