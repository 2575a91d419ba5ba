package entity

import "github.com/google/uuid"

// Role identifies the kind of principal a request executes for.
type Role string

const (
	RoleCompany  Role = "company"
	RoleStudent  Role = "student"
	RoleGraduate Role = "graduate"
	RoleAdmin    Role = "admin"
)

// Principal is the authenticated actor of a request.
//
// Verified is false only for the development override actor, every other
// principal was checked server-side (signed company session or a Cognito
// token validated against the pool keys).
type Principal struct {
	ID       uuid.UUID
	Role     Role
	Verified bool
	Email    string
	Name     string

	// ExpiresAt is when the credential behind the principal expires, in
	// epoch millis.
	ExpiresAt int64
}

func (p *Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsIndividual is true for students and graduates, the principals that can
// apply to opportunities.
func (p *Principal) IsIndividual() bool {
	return p.Is(RoleStudent, RoleGraduate)
}
