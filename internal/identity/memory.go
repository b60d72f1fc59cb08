package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryProvider is a test/development stand-in for the external provider.
// Failure hooks let service tests simulate provider outages and failed
// compensations.
type InMemoryProvider struct {
	mu         sync.Mutex
	identities map[string]string // identityID -> email

	// CreateErr, when set, fails every CreateIdentity call.
	CreateErr error
	// DeleteErrs returns one error per DeleteIdentity call until exhausted,
	// letting tests fail the first compensation attempt but allow a retry.
	DeleteErrs []error

	deleteCalls int
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{identities: make(map[string]string)}
}

func (p *InMemoryProvider) CreateIdentity(_ context.Context, email, _ string, _ Metadata) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CreateErr != nil {
		return "", p.CreateErr
	}
	identityID := uuid.NewString()
	p.identities[identityID] = email
	return identityID, nil
}

func (p *InMemoryProvider) DeleteIdentity(_ context.Context, identityID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteCalls < len(p.DeleteErrs) {
		err := p.DeleteErrs[p.deleteCalls]
		p.deleteCalls++
		if err != nil {
			return err
		}
	} else {
		p.deleteCalls++
	}
	delete(p.identities, identityID)
	return nil
}

// Exists reports whether an identity is still provisioned.
func (p *InMemoryProvider) Exists(identityID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.identities[identityID]
	return ok
}

// DeleteCalls reports how many compensation attempts were made.
func (p *InMemoryProvider) DeleteCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteCalls
}
