package model

// Scope is the caller's ownership identity: exactly one of a user identity or
// an admin identity, resolved by the transport layer before reaching the core.
type Scope struct {
	UserID  string
	AdminID string
}

// UserScope returns a scope for a regular user.
func UserScope(userID string) Scope {
	return Scope{UserID: userID}
}

// AdminScope returns a scope for an admin.
func AdminScope(adminID string) Scope {
	return Scope{AdminID: adminID}
}

// IsAdmin reports whether the scope carries an admin identity.
func (s Scope) IsAdmin() bool {
	return s.AdminID != ""
}

// Valid reports whether exactly one identity is set.
func (s Scope) Valid() bool {
	return (s.UserID != "") != (s.AdminID != "")
}
