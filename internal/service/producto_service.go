package service

import (
	"context"
	"fmt"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/apierror"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/dto"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	rdb         *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, movimientos repository.MovimientoStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, movimientos: movimientos, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil {
		return nil, apierror.Conflict("Ya existe un producto con ese nombre")
	}
	if req.CodigoBarras != nil {
		if _, err := s.repo.FindByBarcode(ctx, *req.CodigoBarras); err == nil {
			return nil, apierror.Conflict("Ya existe un producto con ese código de barras")
		}
	}
	if req.Precio.IsNegative() || req.Stock.IsNegative() {
		return nil, apierror.Validation("Precio y stock deben ser no negativos")
	}

	tipo := model.TipoVenta(req.TipoVenta)
	if tipo == "" {
		tipo = model.TipoVentaUnidad
	}

	p := &model.Producto{
		Nombre:       req.Nombre,
		CodigoBarras: req.CodigoBarras,
		Precio:       req.Precio,
		Stock:        req.Stock,
		Categoria:    req.Categoria,
		TipoVenta:    tipo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Actualizar applies partial update semantics: only the fields present in the
// request are written; absent fields are left unchanged.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}

	if req.Nombre != nil && *req.Nombre != p.Nombre {
		if _, err := s.repo.FindByNombre(ctx, *req.Nombre); err == nil {
			return nil, apierror.Conflict("Ya existe un producto con ese nombre")
		}
		p.Nombre = *req.Nombre
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apierror.Validation("El precio debe ser no negativo")
		}
		p.Precio = *req.Precio
	}
	if req.Stock != nil {
		if req.Stock.IsNegative() {
			return nil, apierror.Validation("El stock debe ser no negativo")
		}
		p.Stock = *req.Stock
	}
	if req.Categoria != nil {
		p.Categoria = req.Categoria
	}
	if req.TipoVenta != nil {
		p.TipoVenta = model.TipoVenta(*req.TipoVenta)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCachePrecio(ctx, p)
	return productoToResponse(p), nil
}

// Desactivar is the deletion policy: products referenced by historical sale
// items are never hard-deleted, they just stop being sellable and listable.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Producto no encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCachePrecio(ctx, p)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("Producto no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

// AjustarStock applies a signed manual adjustment and records the movement.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}
	if req.Delta.IsNegative() && p.Stock.LessThan(req.Delta.Neg()) {
		return nil, apierror.Validation(fmt.Sprintf("El ajuste dejaría stock negativo. Disponible: %s", p.Stock))
	}

	if err := s.repo.AjustarStock(ctx, id, req.Delta); err != nil {
		return nil, apierror.Validation("No se pudo ajustar el stock")
	}

	mov := &model.MovimientoStock{
		ProductoID:    p.ID,
		Tipo:          "ajuste_manual",
		Cantidad:      req.Delta,
		StockAnterior: p.Stock,
		StockNuevo:    p.Stock.Add(req.Delta),
		Motivo:        req.Motivo,
	}
	if err := s.movimientos.Create(ctx, mov); err != nil {
		return nil, err
	}

	s.invalidarCachePrecio(ctx, p)
	p.Stock = p.Stock.Add(req.Delta)
	return productoToResponse(p), nil
}

// invalidarCachePrecio drops the public price-check cache entry — best effort.
func (s *productoService) invalidarCachePrecio(ctx context.Context, p *model.Producto) {
	if s.rdb == nil || p.CodigoBarras == nil {
		return
	}
	_ = s.rdb.Del(ctx, "precio:"+*p.CodigoBarras).Err()
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		CodigoBarras: p.CodigoBarras,
		Precio:       p.Precio,
		Stock:        p.Stock,
		Categoria:    p.Categoria,
		TipoVenta:    string(p.TipoVenta),
		Activo:       p.Activo,
	}
}
