// Package identity is the boundary to the external authenticatable-identity
// provider. Registration creates an identity there before inserting the
// profile row; DeleteIdentity exists only as the compensating action when
// the profile insert fails.
package identity

import "context"

// Metadata travels with identity creation so the provider can label the
// account.
type Metadata struct {
	FullName string
	Role     string
}

// Provider is the external identity collaborator.
type Provider interface {
	// CreateIdentity provisions an authenticatable identity and returns its
	// provider-side ID. tempCredential is a bcrypt hash; the provider never
	// sees the plaintext.
	CreateIdentity(ctx context.Context, email, tempCredential string, meta Metadata) (string, error)

	// DeleteIdentity removes a previously created identity. Used only for
	// compensation.
	DeleteIdentity(ctx context.Context, identityID string) error
}
