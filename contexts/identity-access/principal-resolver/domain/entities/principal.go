package entities

// Principal is an authenticated caller. IsStaff gates the privileged
// operations of the governance modules.
type Principal struct {
	UserID  string
	Login   string
	IsStaff bool
}
