// Package resilience guards calls to an upstream node.
//
// Four guards are provided and can be used on their own or composed by a
// Guard:
//
//   - RateLimiter: paces calls to the node with a token bucket. Only the
//     single dispatch for a key takes a token; coalesced waiters do not.
//
//   - Timeout: bounds a single call. A call that overruns is abandoned and
//     reported as ErrTimeout.
//
//   - Bulkhead: bounds the number of calls in flight to the node.
//
//   - CircuitBreaker: stops sending calls to a node that keeps failing and
//     probes it again after a cool-down.
//
// Failed calls are never retried here. A failure surfaces to every waiter
// and the next request for the same data dispatches again.
//
// # Usage
//
//	guard := resilience.NewGuard(
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
//	        MaxConcurrent: 16,
//	        MaxWait:       time.Second,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    return callNode(ctx)
//	})
package resilience
