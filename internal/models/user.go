package models

type User struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	PassHash []byte `json:"-"`
	Disabled bool   `json:"disabled"`
}

// IsEnabled reports whether the account may authenticate at all.
func IsEnabled(u *User) bool {
	return u != nil && !u.Disabled
}

// Accounts are never locked or expired yet.
func IsNonLocked(u *User) bool {
	return u != nil
}

func IsNonExpired(u *User) bool {
	return u != nil
}

func CredentialsNonExpired(u *User) bool {
	return u != nil && len(u.PassHash) > 0
}

// CanAuthenticate combines all account status predicates.
func CanAuthenticate(u *User) bool {
	return IsEnabled(u) && IsNonLocked(u) && IsNonExpired(u) && CredentialsNonExpired(u)
}
