package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

type RegistrarVentaRequest struct {
	Items            []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	MedioPago        string             `json:"medio_pago" validate:"required,oneof=efectivo tarjeta mercadopago mixto"`
	MontoEfectivo    decimal.Decimal    `json:"monto_efectivo"    validate:"min=0"`
	MontoTarjeta     decimal.Decimal    `json:"monto_tarjeta"     validate:"min=0"`
	MontoMercadoPago decimal.Decimal    `json:"monto_mercadopago" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               string              `json:"id"`
	Total            decimal.Decimal     `json:"total"`
	VendedorID       string              `json:"vendedor_id"`
	LocalID          string              `json:"local_id"`
	MedioPago        string              `json:"medio_pago"`
	MontoEfectivo    decimal.Decimal     `json:"monto_efectivo"`
	MontoTarjeta     decimal.Decimal     `json:"monto_tarjeta"`
	MontoMercadoPago decimal.Decimal     `json:"monto_mercadopago"`
	Items            []ItemVentaResponse `json:"items"`
	CreatedAt        string              `json:"created_at"`
}

type VentaListResponse struct {
	Data []VentaResponse `json:"data"`
}
