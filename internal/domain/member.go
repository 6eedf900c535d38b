package domain

import "context"

// Member is a registered user as seen by the roster core. Read-only here.
// swagger:model Member
type Member struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
}

// DisplayName returns "Name LastName", falling back to the email.
func (m *Member) DisplayName() string {
	name := m.Name
	if m.LastName != "" {
		if name != "" {
			name += " "
		}
		name += m.LastName
	}
	if name == "" {
		return m.Email
	}
	return name
}

// MemberRepository reads members.
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*Member, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
