package models

// RegisterRequest is the administrative registration payload.
type RegisterRequest struct {
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	WalletAddress string `json:"wallet_address"`
	Role          string `json:"role"`
	Phone         string `json:"phone,omitempty"`
}

// UpdateWalletRequest rebinds a profile's wallet address.
type UpdateWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	Reason        string `json:"reason,omitempty"`
}

// SetVerifiedRequest toggles a wallet's verification state.
type SetVerifiedRequest struct {
	Verified bool `json:"verified"`
}
