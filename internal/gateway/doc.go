// Package gateway is the HTTP client for the remote gym service.
//
// Every call goes through a client-side rate limiter, a circuit breaker,
// and resty's retry loop (idempotent methods only). Outcomes are split in
// two error types:
//   - *TransportError: the call never produced a server verdict (network,
//     timeout, 5xx, open breaker, undecodable body). Safe to retry.
//   - *Rejection: the server answered with a structured failure. The
//     message is the server's, unchanged.
//
// Request bodies and responses use the service's wire names (hasGym, gyms,
// activeGym) and are encoded with sonic.
package gateway
