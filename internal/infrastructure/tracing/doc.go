// Package tracing correlates one lifecycle operation across log lines and
// gateway requests.
//
// Start opens a span and stores an operation ID in the context; the gateway
// forwards it as X-Operation-ID together with a fresh X-Request-ID per HTTP
// call, and the stub server middleware logs both.
//
//	span, ctx := tracing.Start(ctx, logger, "login")
//	defer func() { span.End(err) }()
package tracing
