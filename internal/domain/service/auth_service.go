package service

import "context"

// AuthService verifies a credential presented at connect time and resolves
// it to a stable user identity. Credential issuance is out of scope.
type AuthService interface {
	// Verify returns the identity behind the token, or an
	// UNAUTHENTICATED error if the token is missing, malformed or
	// expired.
	Verify(ctx context.Context, token string) (string, error)
}
