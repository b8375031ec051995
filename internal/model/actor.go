package model

// Role is back-office user role
type Role string

const (
	RoleStaff      Role = "STAFF"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

const systemActorID = "system"

// Valid reports whether role is one of known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsElevated reports whether role is manager tier or above
func (r Role) IsElevated() bool {
	switch r {
	case RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// Actor is the user performing an operation together with request metadata used for audit only
type Actor struct {
	ID        string
	Email     string
	Role      Role
	IPAddress string
	UserAgent string
	RequestID string
}

// DefaultActor is the low-trust identity used when request carries no actor
func DefaultActor() Actor {
	return Actor{ID: systemActorID, Role: RoleStaff}
}

// IsDefault reports whether actor is the low-trust default identity
func (a Actor) IsDefault() bool {
	return a.ID == systemActorID
}
