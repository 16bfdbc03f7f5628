package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoVenta indicates whether a product is sold by discrete unit or by weight.
type TipoVenta string

const (
	TipoVentaUnidad TipoVenta = "unidad"
	TipoVentaPeso   TipoVenta = "peso"
)

// Producto is an inventory item. Stock is decimal because weight-sold goods
// carry fractional quantities (e.g. 1.250 kg).
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	CodigoBarras *string   `gorm:"uniqueIndex"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Categoria    *string
	TipoVenta    TipoVenta `gorm:"type:varchar(10);not null;default:'unidad'"`
	// Activo=false is the deletion policy: historical venta_items keep a valid
	// reference, inactive products cannot be sold or listed.
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
