package models

import (
	"time"

	id "lexid/pkg/domain"
)

// Profile is the system's record of a user identity, including role and
// wallet binding. Profiles are created only by registration and never
// deleted by this subsystem outside of registration compensation.
//
// Invariants:
//   - at most one profile holds a given non-empty WalletAddress
//   - at most one profile holds a given Email
//   - WalletVerified is true iff WalletVerifiedAt is non-nil
//   - WalletAddress, when set, is canonical (0x + 40 lower-case hex)
type Profile struct {
	ID               id.ProfileID
	IdentityID       string // authenticatable identity in the external provider
	Email            string
	FullName         string
	Phone            string
	Role             id.Role
	WalletAddress    string // canonical form; empty means no bound wallet
	WalletVerified   bool
	WalletVerifiedAt *time.Time
	CreatedAt        time.Time
}

// ApplyVerification transitions the wallet verification state, keeping the
// timestamp invariant. Returns false when the state did not change, so
// callers can skip audit emission on no-op transitions.
func (p *Profile) ApplyVerification(verified bool, now time.Time) bool {
	if p.WalletVerified == verified {
		return false
	}
	p.WalletVerified = verified
	if verified {
		p.WalletVerifiedAt = &now
	} else {
		p.WalletVerifiedAt = nil
	}
	return true
}

// ApplyWalletBinding rebinds the wallet address and re-verifies it. A rebind
// by an administrator counts as a fresh attestation, so a changed wallet is
// never left silently unverified.
func (p *Profile) ApplyWalletBinding(address string, now time.Time) {
	p.WalletAddress = address
	p.WalletVerified = true
	p.WalletVerifiedAt = &now
}
