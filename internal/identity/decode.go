// Package identity extracts the client-visible profile from access tokens.
//
// Decoding is structural only: the gateway never verifies signatures (that is
// the upstream API's job) and never treats a decoded claim as a security
// boundary. Claims exist here purely to drive display and role-gated UI.
package identity

import (
	"encoding/json"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// ErrMalformedToken is returned when the token cannot be structurally decoded.
var ErrMalformedToken = fmt.Errorf("malformed access token")

// roleClaim accepts both claim shapes the upstream emits: a single role
// string or an array of roles.
type roleClaim []string

func (r *roleClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = roleClaim{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = roleClaim(many)
	return nil
}

type tokenClaims struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Roles        roleClaim `json:"roles"`
	PharmacyID   string    `json:"pharmacyId,omitempty"`
	PharmacyName string    `json:"pharmacyName,omitempty"`
	jwt.RegisteredClaims
}

// Decode parses the token's claims payload into an Identity. It fails on any
// structurally undecodable token, and normalizes the roles claim into the
// canonical set regardless of wire shape.
func Decode(accessToken string) (*domain.Identity, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, &tokenClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, raw := range claims.Roles {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		roles = append(roles, role)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	id := &domain.Identity{
		UserID:       claims.Subject,
		Name:         claims.Name,
		Email:        claims.Email,
		Roles:        domain.NewRoleSet(roles...),
		PharmacyID:   claims.PharmacyID,
		PharmacyName: claims.PharmacyName,
		ExpiresAt:    expiresAt,
	}
	id.SyncRoleNames()
	return id, nil
}

// Valid reports whether the token decodes and its exp is still in the
// future. Any decode failure counts as invalid.
func Valid(accessToken string) bool {
	return ValidAt(accessToken, time.Now())
}

// ValidAt is Valid against an explicit clock.
func ValidAt(accessToken string, now time.Time) bool {
	id, err := Decode(accessToken)
	if err != nil {
		return false
	}
	return !id.Expired(now)
}
