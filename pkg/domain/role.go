package domain

import dErrors "lexid/pkg/domain-errors"

// Role categorizes a profile within the justice-records platform.
// Invariant: the value must be one of the supported role categories. This
// subsystem never changes a profile's role after registration.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Role string

// Supported role categories.
const (
	RoleJudiciary   Role = "judiciary"
	RoleLawyer      Role = "lawyer"
	RoleClerk       Role = "clerk"
	RolePolice      Role = "police"
	RolePublicParty Role = "public_party"
	RoleAdmin       Role = "admin"
)

// validRoles is the single source of truth for valid role categories.
var validRoles = map[Role]bool{
	RoleJudiciary:   true,
	RoleLawyer:      true,
	RoleClerk:       true,
	RolePolice:      true,
	RolePublicParty: true,
	RoleAdmin:       true,
}

// ParseRole constructs a Role from external input.
//
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanAdminister reports whether the role may perform mutating administrative
// operations (registration, wallet rebinds, verification toggles) and read
// audit history.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleJudiciary
}

// String returns the string representation of the role.
func (r Role) String() string { return string(r) }
