// Package session owns the client's authentication lifecycle.
//
// A Manager moves between three states: anonymous, pending (a stored
// credential is being verified) and authenticated. It keeps the credential
// and the identity snapshot in durable storage, hands the credential to the
// transport layer and drops the session as soon as the server rejects it.
package session
