package model

import (
	"time"

	"github.com/google/uuid"
)

// Local is a store/branch location. Referenced by usuarios and ventas.
type Local struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (locals → locales).
func (Local) TableName() string { return "locales" }
