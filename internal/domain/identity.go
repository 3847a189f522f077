package domain

import "time"

// Identity is the client-visible profile derived from an access token's
// claims. It exists so the UI tier never re-parses the raw token: the decoded
// snapshot is cached in the session store and merged on profile edits.
type Identity struct {
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Roles        RoleSet   `json:"-"`
	RoleNames    []Role    `json:"roles"`
	PharmacyID   string    `json:"pharmacyId,omitempty"`
	PharmacyName string    `json:"pharmacyName,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// NormalizeRoles rebuilds the canonical role set from RoleNames after JSON
// decoding (the map itself is not serialized).
func (i *Identity) NormalizeRoles() {
	i.Roles = NewRoleSet(i.RoleNames...)
}

// SyncRoleNames refreshes the serialized role list from the canonical set.
func (i *Identity) SyncRoleNames() {
	i.RoleNames = i.Roles.Slice()
}

// Expired reports whether the identity's backing token has passed its exp.
func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// Credentials is the opaque token pair issued by the upstream API. The access
// token is short-lived and carries the Identity claims; the refresh token is
// consumed once per renewal cycle.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IdentityPatch carries a partial profile update merged into a cached
// Identity without requiring a new token.
type IdentityPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	PharmacyName *string `json:"pharmacyName,omitempty"`
}

// Apply merges the patch into the identity.
func (p IdentityPatch) Apply(identity *Identity) {
	if p.Name != nil {
		identity.Name = *p.Name
	}
	if p.Email != nil {
		identity.Email = *p.Email
	}
	if p.PharmacyName != nil {
		identity.PharmacyName = *p.PharmacyName
	}
}
