package model

import "time"

// User represents an application user record as stored in the
// `usuarios` table. Usernames hold an email address for accounts
// created through Google login. The json tags are omitted here
// because these structs are used internally by the repository
// layer; handlers define separate response types with appropriate
// JSON tags.
//
// Fields:
//  ID            – primary key (usuarios.idUsuario).
//  Username      – unique login name; the Google email for federated accounts.
//  Name          – display name.
//  Profile       – URL of the Google profile picture, empty for local accounts.
//  PasswordHash  – bcrypt hash; empty when the account is federated-only.
//  RoleID        – foreign key into the roles table.
//  Role          – role name joined from roles.nombre (admin/usuario/recolector).
//  ZoneID        – assigned zone, zero when unassigned.
//  CollectPoints – accumulated collection points.
//  Active        – account status (estado column; 1 active, 0 inactive).
type User struct {
	ID            uint64    // usuarios.idUsuario
	Username      string    // usuarios.username
	Name          string    // usuarios.name
	Profile       string    // usuarios.perfil
	PasswordHash  string    // usuarios.password
	RoleID        uint64    // usuarios.idRol
	Role          string    // roles.nombre (joined)
	ZoneID        uint64    // usuarios.idZona (0 = none)
	CollectPoints int       // usuarios.recolectPoints
	Active        bool      // usuarios.estado
	CreatedAt     time.Time // usuarios.created_at
	UpdatedAt     time.Time // usuarios.updated_at
}
