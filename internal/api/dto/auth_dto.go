package dto

import "github.com/spec-kit/pharmstock-gateway/internal/domain"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// ProfilePatchRequest payload for settings-page edits.
type ProfilePatchRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// IdentityResponse is the profile returned to the dashboard.
type IdentityResponse struct {
	UserID       string        `json:"userId"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Roles        []domain.Role `json:"roles"`
	PharmacyID   string        `json:"pharmacyId,omitempty"`
	PharmacyName string        `json:"pharmacyName,omitempty"`
}

// NewIdentityResponse maps a domain identity.
func NewIdentityResponse(id *domain.Identity) IdentityResponse {
	return IdentityResponse{
		UserID:       id.UserID,
		Name:         id.Name,
		Email:        id.Email,
		Roles:        id.Roles.Slice(),
		PharmacyID:   id.PharmacyID,
		PharmacyName: id.PharmacyName,
	}
}
