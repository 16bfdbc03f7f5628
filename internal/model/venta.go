package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedioPago: "efectivo" | "tarjeta" | "mercadopago" | "mixto"
const (
	MedioPagoEfectivo    = "efectivo"
	MedioPagoTarjeta     = "tarjeta"
	MedioPagoMercadoPago = "mercadopago"
	MedioPagoMixto       = "mixto"
)

// Venta is a completed sale. Total is derived from its items at creation time;
// the per-channel montos break the payment down and always sum to Total.
type Venta struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VendedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocalID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedioPago  string          `gorm:"type:varchar(20);not null"`
	MontoEfectivo    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoTarjeta     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoMercadoPago decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:monto_mercadopago"`
	CreatedAt  time.Time `gorm:"index"`

	Vendedor *Usuario `gorm:"foreignKey:VendedorID"`
	Local    *Local   `gorm:"foreignKey:LocalID"`
	// Items are owned exclusively by the venta — deleted with it, never alone.
	Items []VentaItem `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

// VentaItem is an immutable sale line. PrecioUnitario is a snapshot of the
// product price at sale time so later price edits never alter history.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
