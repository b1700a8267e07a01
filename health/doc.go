// Package health reports whether a chaincall process can still serve reads.
//
// A Checker reports a Result with one of three statuses: Healthy, Degraded
// or Unhealthy. The package ships checkers for the pieces a contract-call
// monitor depends on:
//
//   - NodeChecker asks the node for its head block and flags a head that
//     stops advancing.
//   - GateChecker inspects a cache.Gate and flags a call that has been in
//     flight longer than a threshold. Waiters coalesced onto a stalled call
//     starve until it settles.
//   - BreakerChecker maps a resilience.CircuitBreaker state to a status.
//
// # Aggregating
//
//	agg := health.NewAggregator()
//	agg.Register("node", health.NewNodeChecker(client, health.NodeCheckerConfig{}))
//	agg.Register("gate", health.NewGateChecker(c, health.GateCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health
package health
