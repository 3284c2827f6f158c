package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleStorekeeper = "storekeeper"
	RoleStaff       = "staff"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema del almacén.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, storekeeper, staff
	Department   string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si r es un rol conocido.
func IsValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleStorekeeper, RoleStaff:
		return true
	}
	return false
}
