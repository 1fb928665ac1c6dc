// Package httpclient provides the HTTP client factory shared by the schema
// fetcher and the Confluence publisher.
//
// Clients are created with secure, consistent defaults:
//   - Request logging with sanitized URLs (sensitive parameters redacted)
//   - User-Agent header injection
//   - X-Request-ID generation for correlating client and server logs
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - Connection pooling
//
// Requests are never retried. Schema fetch failures degrade to basic
// validation and publish failures surface to the operator, so a failed
// request is handled by the caller rather than repeated.
//
// # Usage
//
// Create a client with default settings:
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get("https://example.com/schema/v1/pipeline.json")
//
// # Observability
//
// All requests emit structured logs via log/slog:
//   - Debug level: successful requests (2xx status)
//   - Warn level: failed requests (4xx/5xx status, errors)
//   - Fields: method, url (sanitized), status, duration_ms, error
package httpclient
