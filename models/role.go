package models

// Role is what an actor is allowed to do. RoleSystem is never stored on a
// user; it identifies internal triggers such as the completion sweeper.
type Role string

const (
	RoleArtist Role = "artist"
	RoleHost   Role = "host"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleArtist, RoleHost, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// CanRegister reports whether a user may sign up with this role.
func (r Role) CanRegister() bool {
	return r == RoleArtist || r == RoleHost
}
