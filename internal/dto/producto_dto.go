package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=1,max=120"`
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	Precio       decimal.Decimal `json:"precio"        validate:"min=0"`
	Stock        decimal.Decimal `json:"stock"         validate:"min=0"`
	Categoria    *string         `json:"categoria"`
	TipoVenta    string          `json:"tipo_venta"    validate:"omitempty,oneof=unidad peso"`
}

// ActualizarProductoRequest applies partial update semantics: only non-nil
// fields are written, absent fields stay untouched.
type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=1,max=120"`
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	Precio       *decimal.Decimal `json:"precio"`
	Stock        *decimal.Decimal `json:"stock"`
	Categoria    *string          `json:"categoria"`
	TipoVenta    *string          `json:"tipo_venta"    validate:"omitempty,oneof=unidad peso"`
}

type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	CodigoBarras *string         `json:"codigo_barras"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        decimal.Decimal `json:"stock"`
	Categoria    *string         `json:"categoria"`
	TipoVenta    string          `json:"tipo_venta"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
	Categoria       *string         `json:"categoria"`
}
