package db

// Role is the closed set of account roles. It is stored as text but must
// only ever hold one of the declared constants; gates switch over it
// exhaustively instead of comparing raw strings.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r grants administrative access.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}

// ParseRole maps a stored string onto the closed role set, falling back to
// RoleUser for anything unrecognized.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	}
	return RoleUser
}
