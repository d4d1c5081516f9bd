// Package transport is the HTTP gateway to the storefront API.
//
// Every request goes through Gateway.Send, which:
//  1. resolves the path against the configured base URL,
//  2. attaches "Authorization: Bearer <credential>" when a credential is
//     held (a per-call override set with WithCredential wins over the
//     installed CredentialSource),
//  3. tags the request with an X-Request-ID for log correlation,
//  4. on a 401 response notifies every OnSessionRejected listener
//     synchronously, before returning the error to the caller.
//
// # Errors
//
// Network failures are returned as *TransportError (errors.Is ErrTransport).
// Non-2xx responses are returned as *APIError, which matches ErrUnauthorized
// (401), ErrValidation (other 4xx), ErrNotFound (404) or ErrServer (5xx).
// The server's "detail" message, when it is a string, is kept verbatim in
// APIError.Detail; UserMessage picks it or a generic fallback.
package transport
