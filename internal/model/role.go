package model

// Role is immutable reference data: each user holds exactly one role
// and route guards compare against the role name embedded in the
// access token claims.
type Role struct {
	ID   uint64 // roles.idRol
	Name string // roles.nombre
}

// Role names as seeded in the roles table. Route guards and token
// claims use these exact strings.
const (
	RoleAdmin     = "admin"
	RoleUser      = "usuario"
	RoleCollector = "recolector"
)

// Role ids as seeded by the initial migration. New users default to
// RoleIDUser; collector accounts are created by administrators.
const (
	RoleIDAdmin     uint64 = 1
	RoleIDUser      uint64 = 2
	RoleIDCollector uint64 = 3
)
