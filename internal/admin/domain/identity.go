package domain

// Identity is the sanitized view of a user returned to callers. It never
// carries credential material.
type Identity struct {
	UserID    string   `json:"userId"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

func NewIdentity(u User) Identity {
	roles := u.RoleSlugs()
	if roles == nil {
		roles = []string{}
	}
	return Identity{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
	}
}
