package interfaces

import "context"

// CredentialProvider supplies the bearer token attached to every messaging request.
// An empty token with a nil error means no credential is available.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}
