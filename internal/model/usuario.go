package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the single enumerated role type used everywhere — role checks never
// compare raw strings outside this package.
type Rol string

const (
	RolJefePapa Rol = "jefe_papa"
	RolJefeMama Rol = "jefe_mama"
	RolEmpleado Rol = "empleado"
)

// EsJefe reports whether the role has owner-level access.
func (r Rol) EsJefe() bool { return r == RolJefePapa || r == RolJefeMama }

// Valida reports whether the role is one of the known values.
func (r Rol) Valida() bool {
	return r == RolJefePapa || r == RolJefeMama || r == RolEmpleado
}

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       *string
	PasswordHash string `gorm:"not null"`
	Rol          Rol    `gorm:"type:varchar(20);not null"`
	// LocalID is the assigned store; nil = no store, cannot register sales
	LocalID   *uuid.UUID `gorm:"type:uuid;index"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Local *Local `gorm:"foreignKey:LocalID"`
}
