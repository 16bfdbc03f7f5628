package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/apierror"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/dto"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/repository"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// fakeTxJournal gives the in-memory stubs transactional semantics. Every write
// stages a compensating action keyed by the tx handle; when a later write in
// the same tx fails, rollback runs them in reverse and the repos come out as
// if the tx never happened. nil journal or nil tx degrade to no-op, so stubs
// used outside a sale keep working untouched.
type fakeTxJournal struct {
	mu   sync.Mutex
	undo map[*gorm.DB][]func()
}

func newFakeTxJournal() *fakeTxJournal {
	return &fakeTxJournal{undo: make(map[*gorm.DB][]func())}
}

func (j *fakeTxJournal) registrar(tx *gorm.DB, fn func()) {
	if j == nil || tx == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo[tx] = append(j.undo[tx], fn)
}

func (j *fakeTxJournal) rollback(tx *gorm.DB) {
	if j == nil || tx == nil {
		return
	}
	j.mu.Lock()
	acciones := j.undo[tx]
	delete(j.undo, tx)
	j.mu.Unlock()
	for i := len(acciones) - 1; i >= 0; i-- {
		acciones[i]()
	}
}

// stubVentaRepo is an in-memory VentaRepository for testing.
type stubVentaRepo struct {
	mu      sync.Mutex
	ventas  map[uuid.UUID]*model.Venta
	journal *fakeTxJournal
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, tx *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	copia := *v
	r.ventas[v.ID] = &copia
	id := v.ID
	r.mu.Unlock()
	r.journal.registrar(tx, func() {
		r.mu.Lock()
		delete(r.ventas, id)
		r.mu.Unlock()
	})
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (r *stubVentaRepo) ListRecientes(_ context.Context, limit int) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubVentaRepo) ListPorVendedor(_ context.Context, vendedorID uuid.UUID, limit int) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if v.VendedorID == vendedorID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubVentaRepo) CountPorLocal(_ context.Context, localID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.ventas {
		if v.LocalID == localID {
			n++
		}
	}
	return n, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── VentaService factory for tests ────────────────────────────────────────────

type ventaFixture struct {
	svc          service.VentaService
	ventaRepo    *stubVentaRepo
	productoRepo *stubProductoRepo
	usuarioRepo  *stubUsuarioRepo
	movs         *stubMovimientoRepo
	local        *model.Local
	vendedor     *model.Usuario
}

func buildVentaSvc(t *testing.T, rol model.Rol) *ventaFixture {
	t.Helper()
	journal := newFakeTxJournal()
	productoRepo := newStubProductoRepo()
	productoRepo.journal = journal
	ventaRepo := newStubVentaRepo()
	ventaRepo.journal = journal
	usuarioRepo := newStubUsuarioRepo()
	movs := &stubMovimientoRepo{journal: journal}

	local := &model.Local{ID: uuid.New(), Nombre: "Local Test"}
	vendedor := seedUser(t, usuarioRepo, "vendedor", "pass1234", rol, &local.ID)

	svc := service.NewVentaService(ventaRepo, productoRepo, usuarioRepo, movs)
	return &ventaFixture{
		svc: svc, ventaRepo: ventaRepo, productoRepo: productoRepo,
		usuarioRepo: usuarioRepo, movs: movs, local: local, vendedor: vendedor,
	}
}

func ventaDe(producto *model.Producto, cantidad float64, medio string, efectivo, tarjeta, mp float64) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: decimal.NewFromFloat(cantidad)},
		},
		MedioPago:        medio,
		MontoEfectivo:    decimal.NewFromFloat(efectivo),
		MontoTarjeta:     decimal.NewFromFloat(tarjeta),
		MontoMercadoPago: decimal.NewFromFloat(mp),
	}
}

// ── Tests: RegistrarVenta ─────────────────────────────────────────────────────

func TestRegistrarVenta_TotalYStock(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	yerba := seedProducto(f.productoRepo, "Yerba 1kg", "7790100000001", 3500, 10)
	azucar := seedProducto(f.productoRepo, "Azucar 1kg", "7790100000002", 1200, 20)

	// total = 3500×2 + 1200×3 = 10600
	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: yerba.ID.String(), Cantidad: decimal.NewFromInt(2)},
			{ProductoID: azucar.ID.String(), Cantidad: decimal.NewFromInt(3)},
		},
		MedioPago:     model.MedioPagoEfectivo,
		MontoEfectivo: decimal.NewFromFloat(10600),
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(10600)))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, f.local.ID.String(), resp.LocalID)

	// Stock decremented exactly by the sold quantities
	assert.True(t, f.productoRepo.productos[yerba.ID].Stock.Equal(decimal.NewFromInt(8)))
	assert.True(t, f.productoRepo.productos[azucar.ID].Stock.Equal(decimal.NewFromInt(17)))

	// One movimiento per item, tipo venta, negative cantidad, referencia set
	movimientos, _, _ := f.movs.List(context.Background(), dto.MovimientoFilter{Tipo: "venta"})
	require.Len(t, movimientos, 2)
	for _, m := range movimientos {
		assert.True(t, m.Cantidad.IsNegative())
		require.NotNil(t, m.ReferenciaID)
		assert.Equal(t, resp.ID, m.ReferenciaID.String())
	}
}

func TestRegistrarVenta_StockInsuficiente_SinMutacion(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Vino 750ml", "7790100000003", 5000, 2)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 5, model.MedioPagoEfectivo, 25000, 0, 0))
	assert.ErrorContains(t, err, "Stock insuficiente")
	assert.ErrorContains(t, err, "Disponible: 2")

	// Nothing was written
	assert.Empty(t, f.ventaRepo.ventas)
	assert.True(t, f.productoRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(2)))
}

func TestRegistrarVenta_ProductoInexistente_SinMutacion(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Gaseosa 2L", "7790100000004", 2200, 10)

	// Second item does not exist: the whole cart must be rejected before any write
	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(1)},
			{ProductoID: uuid.New().String(), Cantidad: decimal.NewFromInt(1)},
		},
		MedioPago:     model.MedioPagoEfectivo,
		MontoEfectivo: decimal.NewFromFloat(2200),
	})
	assert.ErrorContains(t, err, "no encontrado")

	assert.Empty(t, f.ventaRepo.ventas)
	assert.True(t, f.productoRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(10)))
	movimientos, _, _ := f.movs.List(context.Background(), dto.MovimientoFilter{})
	assert.Empty(t, movimientos)
}

func TestRegistrarVenta_ProductoInactivo(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Descontinuado", "7790100000005", 900, 10)
	p.Activo = false

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1, model.MedioPagoEfectivo, 900, 0, 0))
	assert.ErrorContains(t, err, "inactivo")
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVenta_SinLocalAsignado(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	f.vendedor.LocalID = nil
	p := seedProducto(f.productoRepo, "Caramelos", "7790100000006", 100, 50)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1, model.MedioPagoEfectivo, 100, 0, 0))
	assert.ErrorContains(t, err, "local asignado")
}

func TestRegistrarVenta_CantidadFraccionadaEnUnidad(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Lata atun", "7790100000007", 1800, 10)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1.5, model.MedioPagoEfectivo, 2700, 0, 0))
	assert.ErrorContains(t, err, "unidad")
}

func TestRegistrarVenta_PorPeso(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Queso cremoso", "7790100000008", 8000, 5)
	p.TipoVenta = model.TipoVentaPeso

	// 1.250 kg × 8000 = 10000
	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1.250, model.MedioPagoTarjeta, 0, 10000, 0))
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(10000)))
	assert.True(t, f.productoRepo.productos[p.ID].Stock.Equal(decimal.NewFromFloat(3.75)))
}

func TestRegistrarVenta_PagosNoSuman(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Pan", "7790100000009", 1500, 10)

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 2, model.MedioPagoMixto, 1000, 1000, 0)) // suma 2000 ≠ total 3000
	assert.ErrorContains(t, err, "no coinciden con el total")
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVenta_PagoMixto(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Fernet 750ml", "7790100000010", 12000, 6)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1, model.MedioPagoMixto, 5000, 4000, 3000))
	require.NoError(t, err)
	assert.Equal(t, model.MedioPagoMixto, resp.MedioPago)
	assert.True(t, resp.MontoEfectivo.Equal(decimal.NewFromInt(5000)))
	assert.True(t, resp.MontoTarjeta.Equal(decimal.NewFromInt(4000)))
	assert.True(t, resp.MontoMercadoPago.Equal(decimal.NewFromInt(3000)))
}

func TestRegistrarVenta_EfectivoDebeCubrirTotal(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Cerveza lata", "7790100000011", 1400, 24)

	// medio=efectivo pero el pago viene repartido en dos canales
	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 2, model.MedioPagoEfectivo, 1400, 1400, 0))
	assert.ErrorContains(t, err, "efectivo")
}

func TestRegistrarVenta_PrecioSnapshot(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Shampoo", "7790100000012", 3000, 10)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
		ventaDe(p, 1, model.MedioPagoEfectivo, 3000, 0, 0))
	require.NoError(t, err)

	// A later price hike must not rewrite sale history
	p.Precio = decimal.NewFromInt(4500)

	stored, err := f.ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].PrecioUnitario.Equal(decimal.NewFromInt(3000)))
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(3000)))
}

func TestRegistrarVenta_Concurrente_NuncaNegativo(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Oferta limitada", "7790100000013", 1000, 5)

	const intentos = 10
	var wg sync.WaitGroup
	var exitos int64
	var mu sync.Mutex

	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID,
				ventaDe(p, 1, model.MedioPagoEfectivo, 1000, 0, 0))
			if err == nil {
				mu.Lock()
				exitos++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly as many sales as there was stock; never negative
	assert.EqualValues(t, 5, exitos)
	assert.True(t, f.productoRepo.productos[p.ID].Stock.IsZero())
	assert.Len(t, f.ventaRepo.ventas, 5)
}

func TestRegistrarVenta_FalloTardio_RevierteTodo(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	yerba := seedProducto(f.productoRepo, "Yerba suave 500g", "7790100000014", 1800, 10)
	azucar := seedProducto(f.productoRepo, "Azucar rubia 1kg", "7790100000015", 1500, 4)

	// Drain azucar right before its guarded decrement: the venta and the yerba
	// writes are already in, so the whole tx must come back out.
	f.productoRepo.antesDeDescontar = func(id uuid.UUID) {
		if id == azucar.ID {
			f.productoRepo.setStock(azucar.ID, decimal.Zero)
		}
	}

	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: yerba.ID.String(), Cantidad: decimal.NewFromInt(2)},
			{ProductoID: azucar.ID.String(), Cantidad: decimal.NewFromInt(1)},
		},
		MedioPago:     model.MedioPagoEfectivo,
		MontoEfectivo: decimal.NewFromFloat(5100),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "Stock insuficiente")

	// No half-written venta, no movimientos, yerba stock restored
	assert.Empty(t, f.ventaRepo.ventas)
	movimientos, _, _ := f.movs.List(context.Background(), dto.MovimientoFilter{})
	assert.Empty(t, movimientos)
	assert.True(t, f.productoRepo.productos[yerba.ID].Stock.Equal(decimal.NewFromInt(10)))
}

func TestRegistrarVenta_LineasDuplicadasSuperanStock(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Jabon en barra", "7790100000016", 2000, 5)

	// 3+3 of the same product: each line fits the stock, the cart does not.
	_, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3)},
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3)},
		},
		MedioPago:     model.MedioPagoEfectivo,
		MontoEfectivo: decimal.NewFromFloat(12000),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "Stock insuficiente")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status())

	assert.Empty(t, f.ventaRepo.ventas)
	assert.True(t, f.productoRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(5)))
}

func TestRegistrarVenta_LineasDuplicadasDentroDelStock(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	p := seedProducto(f.productoRepo, "Fosforos", "7790100000017", 500, 5)

	resp, err := f.svc.RegistrarVenta(context.Background(), f.vendedor.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(2)},
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(2)},
		},
		MedioPago:     model.MedioPagoEfectivo,
		MontoEfectivo: decimal.NewFromFloat(2000),
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, f.productoRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(1)))
}

// ── Tests: Read side ──────────────────────────────────────────────────────────

func seedVenta(repo *stubVentaRepo, vendedorID, localID uuid.UUID, total float64, edad time.Duration) *model.Venta {
	v := &model.Venta{
		ID:         uuid.New(),
		Total:      decimal.NewFromFloat(total),
		VendedorID: vendedorID,
		LocalID:    localID,
		MedioPago:  model.MedioPagoEfectivo,
		CreatedAt:  time.Now().Add(-edad),
	}
	repo.ventas[v.ID] = v
	return v
}

func TestListarVentas_JefeVeTodas(t *testing.T) {
	f := buildVentaSvc(t, model.RolJefePapa)
	otro := seedUser(t, f.usuarioRepo, "otro", "pass1234", model.RolEmpleado, &f.local.ID)

	seedVenta(f.ventaRepo, f.vendedor.ID, f.local.ID, 100, time.Minute)
	seedVenta(f.ventaRepo, otro.ID, f.local.ID, 200, 2*time.Minute)
	seedVenta(f.ventaRepo, otro.ID, f.local.ID, 300, 3*time.Minute)

	resp, err := f.svc.ListarVentas(context.Background(), f.vendedor.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 3)
	// Newest first
	assert.True(t, resp.Data[0].Total.Equal(decimal.NewFromInt(100)))
}

func TestListarVentas_EmpleadoSoloPropias(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	otro := seedUser(t, f.usuarioRepo, "otro", "pass1234", model.RolEmpleado, &f.local.ID)

	seedVenta(f.ventaRepo, f.vendedor.ID, f.local.ID, 100, time.Minute)
	seedVenta(f.ventaRepo, otro.ID, f.local.ID, 200, 2*time.Minute)

	resp, err := f.svc.ListarVentas(context.Background(), f.vendedor.ID)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, f.vendedor.ID.String(), resp.Data[0].VendedorID)
}

func TestObtenerVenta_EmpleadoAjena_Forbidden(t *testing.T) {
	f := buildVentaSvc(t, model.RolEmpleado)
	otro := seedUser(t, f.usuarioRepo, "otro", "pass1234", model.RolEmpleado, &f.local.ID)
	ajena := seedVenta(f.ventaRepo, otro.ID, f.local.ID, 500, time.Minute)

	_, err := f.svc.ObtenerVenta(context.Background(), f.vendedor.ID, ajena.ID)
	require.Error(t, err)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status())
}

func TestObtenerVenta_JefeVeAjena(t *testing.T) {
	f := buildVentaSvc(t, model.RolJefeMama)
	otro := seedUser(t, f.usuarioRepo, "otro", "pass1234", model.RolEmpleado, &f.local.ID)
	ajena := seedVenta(f.ventaRepo, otro.ID, f.local.ID, 500, time.Minute)

	resp, err := f.svc.ObtenerVenta(context.Background(), f.vendedor.ID, ajena.ID)
	require.NoError(t, err)
	assert.Equal(t, ajena.ID.String(), resp.ID)
}

func TestObtenerVenta_FechaEnUTC(t *testing.T) {
	f := buildVentaSvc(t, model.RolJefePapa)
	v := seedVenta(f.ventaRepo, f.vendedor.ID, f.local.ID, 500, time.Minute)
	v.CreatedAt = time.Date(2026, 3, 10, 20, 30, 0, 0, time.FixedZone("ART", -3*3600))

	resp, err := f.svc.ObtenerVenta(context.Background(), f.vendedor.ID, v.ID)
	require.NoError(t, err)

	parsed, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(v.CreatedAt))
	assert.Equal(t, "2026-03-10T23:30:00Z", resp.CreatedAt)
}

func TestObtenerVenta_NoExiste(t *testing.T) {
	f := buildVentaSvc(t, model.RolJefePapa)

	_, err := f.svc.ObtenerVenta(context.Background(), f.vendedor.ID, uuid.New())
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status())
}
