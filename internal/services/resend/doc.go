// Package resend builds and sends transactional email through the Resend
// REST API.
//
// BuildEmail turns comma-separated address lists and attachment paths into
// the request body; attachments are read concurrently and base64 encoded.
// Client.Send posts it with a bearer token and an Idempotency-Key header,
// retrying rate limits and server errors with exponential backoff. Remote
// failures surface as *APIError carrying the decoded error body so callers
// can echo it verbatim.
package resend
