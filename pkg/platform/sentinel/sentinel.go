package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrWalletTaken: wallet address already bound to another profile
// - ErrEmailTaken: email already bound to another profile
// - ErrUnavailable: storage temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrWalletTaken = errors.New("wallet already in use")
	ErrEmailTaken  = errors.New("email already registered")
	ErrUnavailable = errors.New("unavailable")
)
