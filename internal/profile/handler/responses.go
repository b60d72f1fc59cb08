package handler

import (
	"time"

	"lexid/internal/audit"
	"lexid/internal/profile/models"
)

type profileResponse struct {
	ProfileID        string     `json:"profile_id"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone,omitempty"`
	Role             string     `json:"role"`
	WalletAddress    string     `json:"wallet_address,omitempty"`
	WalletVerified   bool       `json:"wallet_verified"`
	WalletVerifiedAt *time.Time `json:"wallet_verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		ProfileID:        p.ID.String(),
		Email:            p.Email,
		FullName:         p.FullName,
		Phone:            p.Phone,
		Role:             p.Role.String(),
		WalletAddress:    p.WalletAddress,
		WalletVerified:   p.WalletVerified,
		WalletVerifiedAt: p.WalletVerifiedAt,
		CreatedAt:        p.CreatedAt,
	}
}

type entryResponse struct {
	EntryID   string    `json:"entry_id"`
	ProfileID string    `json:"profile_id"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	ChangedBy string    `json:"changed_by,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

func toEntryResponse(e audit.Entry) entryResponse {
	out := entryResponse{
		EntryID:   e.ID.String(),
		ProfileID: e.ProfileID.String(),
		Action:    string(e.Action),
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		ChangedAt: e.ChangedAt,
	}
	if e.ChangedBy != nil {
		out.ChangedBy = e.ChangedBy.String()
	}
	return out
}
