package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// UserRef is the identity resolved by the access layer. The core never
// derives identity itself.
type UserRef struct {
	ID   string
	Role Role
}

func (u UserRef) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Owns reports whether the user may act on an entity owned by ownerID.
func (u UserRef) Owns(ownerID string) bool {
	return u.IsAdmin() || u.ID == ownerID
}
