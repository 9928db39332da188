package user

// Principal is the authenticated caller attached to a request after session
// introspection.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}
