package auth

// Identity is the signed-in user as seen by the rest of the service. A nil
// *Identity means no session.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Gate derives access decisions from the latest identity snapshot. It holds
// no state beyond the configured administrator address and never caches a
// result.
type Gate struct {
	adminEmail string
}

func NewGate(adminEmail string) Gate {
	return Gate{adminEmail: adminEmail}
}

func (g Gate) Authenticated(id *Identity) bool {
	return id != nil
}

// IsAdmin reports whether the identity is the configured administrator.
// The comparison is exact and case-sensitive.
func (g Gate) IsAdmin(id *Identity) bool {
	return id != nil && id.Email == g.adminEmail
}
