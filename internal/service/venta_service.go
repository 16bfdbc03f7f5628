package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/apierror"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/dto"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fixed read-side limits: jefes see the whole operation, empleados their own.
const (
	limiteVentasJefe     = 100
	limiteVentasEmpleado = 50
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, callerID uuid.UUID) (*dto.VentaListResponse, error)
	ObtenerVenta(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	usuarioRepo  repository.UsuarioRepository
	movimientos  repository.MovimientoStockRepository
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	usuarioRepo repository.UsuarioRepository,
	movimientos repository.MovimientoStockRepository,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		usuarioRepo:  usuarioRepo,
		movimientos:  movimientos,
	}
}

// runTx executes fn inside a GORM transaction when db is available. A nil db
// (stub-backed unit tests) gets a fresh detached handle instead, so test
// doubles can scope their writes per operation.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(&gorm.DB{})
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// The one transactional operation of the system:
//   1. Vendedor must have a local asignado
//   2. For each item: product must exist, be active, and have enough stock —
//      validation of the full cart happens before any mutation
//   3. Per-channel payment amounts must match the server-computed total
//   4. BEGIN TX: create venta+items, descontar stock (guarded UPDATE),
//      registrar movimientos de stock
//   5. COMMIT — all or nothing
//
// The guarded decrement ("stock >= cantidad") closes the check-then-act race:
// if a concurrent sale consumed the stock after step 2, the tx rolls back and
// the whole operation is retried exactly once; the second attempt's
// pre-validation then reports the real availability.

func (s *ventaService) RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	vendedor, err := s.usuarioRepo.FindByID(ctx, vendedorID)
	if err != nil || !vendedor.Activo {
		return nil, apierror.Unauthorized("Usuario no encontrado o inactivo")
	}
	if vendedor.LocalID == nil {
		return nil, apierror.Validation("Usuario no tiene local asignado")
	}

	resp, err := s.registrarUnaVez(ctx, vendedor, req)
	if errors.Is(err, repository.ErrStockInsuficiente) {
		// A concurrent sale raced us between validation and decrement.
		// Retry once from scratch; re-validation reports the real stock.
		resp, err = s.registrarUnaVez(ctx, vendedor, req)
		if errors.Is(err, repository.ErrStockInsuficiente) {
			return nil, apierror.Conflict("Stock modificado por una venta concurrente, intente nuevamente")
		}
	}
	return resp, err
}

type itemResuelto struct {
	productoID uuid.UUID
	nombre     string
	precio     decimal.Decimal
	cantidad   decimal.Decimal
	stockAntes decimal.Decimal
	subtotal   decimal.Decimal
}

func (s *ventaService) registrarUnaVez(ctx context.Context, vendedor *model.Usuario, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	// 1. Resolve products and compute totals (pre-flight, outside TX).
	//    First failure wins; nothing has been mutated yet.
	resolved := make([]itemResuelto, 0, len(req.Items))
	total := decimal.Zero
	// Quantities are aggregated per product so a cart listing the same product
	// on several lines is checked against stock as a whole, not line by line.
	pedido := make(map[uuid.UUID]decimal.Decimal)

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.Validation("producto_id inválido: " + item.ProductoID)
		}
		if !item.Cantidad.IsPositive() {
			return nil, apierror.Validation("La cantidad debe ser mayor a cero")
		}

		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("Producto %s no encontrado", item.ProductoID))
		}
		if !p.Activo {
			return nil, apierror.Validation(fmt.Sprintf("Producto %s está inactivo y no puede venderse", p.Nombre))
		}
		if p.TipoVenta == model.TipoVentaUnidad && !item.Cantidad.IsInteger() {
			return nil, apierror.Validation(fmt.Sprintf("Producto %s se vende por unidad, la cantidad debe ser entera", p.Nombre))
		}
		acumulado := pedido[pid].Add(item.Cantidad)
		if p.Stock.LessThan(acumulado) {
			return nil, apierror.Validation(fmt.Sprintf("Stock insuficiente para %s. Disponible: %s", p.Nombre, p.Stock))
		}
		pedido[pid] = acumulado

		subtotal := p.Precio.Mul(item.Cantidad)
		total = total.Add(subtotal)
		resolved = append(resolved, itemResuelto{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   item.Cantidad,
			stockAntes: p.Stock,
			subtotal:   subtotal,
		})
	}

	// 2. Payment breakdown must match the server-computed total — never the
	//    client's arithmetic.
	if err := validarPagos(req, total); err != nil {
		return nil, err
	}

	// 3. ACID transaction: venta + items + stock + movimientos.
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta = model.Venta{
			Total:            total,
			VendedorID:       vendedor.ID,
			LocalID:          *vendedor.LocalID,
			MedioPago:        req.MedioPago,
			MontoEfectivo:    req.MontoEfectivo,
			MontoTarjeta:     req.MontoTarjeta,
			MontoMercadoPago: req.MontoMercadoPago,
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio, // snapshot — later price edits never touch this
				Subtotal:       r.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resolved {
			if err := s.productoRepo.DescontarStockTx(tx, r.productoID, r.cantidad); err != nil {
				return err
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "venta",
				Cantidad:      r.cantidad.Neg(),
				StockAnterior: r.stockAntes,
				StockNuevo:    r.stockAntes.Sub(r.cantidad),
				Motivo:        fmt.Sprintf("Venta a %s", vendedor.Username),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ventaToResponse(&venta)
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

// validarPagos enforces that the per-channel amounts account for the total:
// a single-channel venta must carry the full total in its channel, a mixed
// venta must have its three channels sum to the total.
func validarPagos(req dto.RegistrarVentaRequest, total decimal.Decimal) error {
	suma := req.MontoEfectivo.Add(req.MontoTarjeta).Add(req.MontoMercadoPago)
	if !suma.Equal(total) {
		return apierror.Validation(fmt.Sprintf("Los montos de pago (%s) no coinciden con el total (%s)", suma, total))
	}

	switch req.MedioPago {
	case model.MedioPagoEfectivo:
		if !req.MontoEfectivo.Equal(total) {
			return apierror.Validation("Venta en efectivo: el monto efectivo debe igualar el total")
		}
	case model.MedioPagoTarjeta:
		if !req.MontoTarjeta.Equal(total) {
			return apierror.Validation("Venta con tarjeta: el monto tarjeta debe igualar el total")
		}
	case model.MedioPagoMercadoPago:
		if !req.MontoMercadoPago.Equal(total) {
			return apierror.Validation("Venta con mercadopago: el monto mercadopago debe igualar el total")
		}
	}
	return nil
}

// ── Read side ─────────────────────────────────────────────────────────────────

// ListarVentas is an authorization-scoped view: jefes see the latest sales
// across all locales, empleados only their own. Ordering is always
// created_at DESC; the limits are fixed constants.
func (s *ventaService) ListarVentas(ctx context.Context, callerID uuid.UUID) (*dto.VentaListResponse, error) {
	caller, err := s.usuarioRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, apierror.Unauthorized("Usuario no encontrado")
	}

	var ventas []model.Venta
	if caller.Rol.EsJefe() {
		ventas, err = s.repo.ListRecientes(ctx, limiteVentasJefe)
	} else {
		ventas, err = s.repo.ListPorVendedor(ctx, caller.ID, limiteVentasEmpleado)
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.VentaListResponse{Data: make([]dto.VentaResponse, 0, len(ventas))}
	for i := range ventas {
		resp.Data = append(resp.Data, *ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

func (s *ventaService) ObtenerVenta(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error) {
	caller, err := s.usuarioRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, apierror.Unauthorized("Usuario no encontrado")
	}

	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Venta no encontrada")
	}

	// Empleados solo pueden ver sus propias ventas
	if !caller.Rol.EsJefe() && venta.VendedorID != caller.ID {
		return nil, apierror.Forbidden("No autorizado")
	}
	return ventaToResponse(venta), nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:               v.ID.String(),
		Total:            v.Total,
		VendedorID:       v.VendedorID.String(),
		LocalID:          v.LocalID.String(),
		MedioPago:        v.MedioPago,
		MontoEfectivo:    v.MontoEfectivo,
		MontoTarjeta:     v.MontoTarjeta,
		MontoMercadoPago: v.MontoMercadoPago,
		Items:            items,
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
