package domain

// AuthenticatedCaller is the identity resolved from a verified session
// token. The zero value means no caller.
type AuthenticatedCaller struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

// IsZero reports whether no identity is present.
func (c AuthenticatedCaller) IsZero() bool {
	return c.UserID == ""
}
