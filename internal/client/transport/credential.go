package transport

import "context"

// CredentialSource yields the credential to attach to outgoing requests,
// or "" when the caller is anonymous.
type CredentialSource interface {
	Credential() string
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func() string

func (f CredentialFunc) Credential() string { return f() }

type credentialKey struct{}

// WithCredential returns a context whose requests carry token instead of the
// installed source's credential. Login uses it to fetch the identity with a
// credential that is not yet part of the session.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFromContext returns the override set by WithCredential.
func CredentialFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialKey{}).(string)
	return token, ok
}

type exchangeKey struct{}

// AsCredentialExchange marks requests that trade a secret for a new
// credential, such as a password login. They are sent without a credential,
// and a 401 answer says nothing about the held one, so it is not reported
// to OnSessionRejected listeners.
func AsCredentialExchange(ctx context.Context) context.Context {
	return context.WithValue(WithCredential(ctx, ""), exchangeKey{}, true)
}

func isCredentialExchange(ctx context.Context) bool {
	v, _ := ctx.Value(exchangeKey{}).(bool)
	return v
}
