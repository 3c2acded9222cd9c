package models

// Credentials is a username/password pair as remembered for quick re-login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RememberedUsers is ordered most-recently-used first and unique by
// username.
type RememberedUsers []Credentials

// Upsert returns a new list with c at the front. Any existing entry for the
// same username is removed first, so the list never holds duplicates and the
// password is refreshed.
func (l RememberedUsers) Upsert(c Credentials) RememberedUsers {
	out := make(RememberedUsers, 0, len(l)+1)
	out = append(out, c)
	for _, item := range l {
		if item.Username != c.Username {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the remembered entry for username.
func (l RememberedUsers) Find(username string) (Credentials, bool) {
	for _, item := range l {
		if item.Username == username {
			return item, true
		}
	}
	return Credentials{}, false
}

// Usernames lists the remembered usernames in order.
func (l RememberedUsers) Usernames() []string {
	names := make([]string, len(l))
	for i, item := range l {
		names[i] = item.Username
	}
	return names
}
