package tests

import (
	"context"
	"testing"
	"time"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/dto"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalSvc() (service.LocalService, *stubLocalRepo, *stubUsuarioRepo, *stubVentaRepo) {
	localRepo := newStubLocalRepo()
	usuarioRepo := newStubUsuarioRepo()
	ventaRepo := newStubVentaRepo()
	return service.NewLocalService(localRepo, usuarioRepo, ventaRepo), localRepo, usuarioRepo, ventaRepo
}

func TestCrearLocal_Success(t *testing.T) {
	svc, repo, _, _ := newLocalSvc()
	dir := "Av. Siempre Viva 742"

	resp, err := svc.Crear(context.Background(), dto.CrearLocalRequest{
		Nombre: "Sucursal Norte", Direccion: &dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sucursal Norte", resp.Nombre)
	assert.Len(t, repo.locales, 1)
}

func TestCrearLocal_NombreDuplicado(t *testing.T) {
	svc, repo, _, _ := newLocalSvc()
	repo.locales[uuid.New()] = &model.Local{ID: uuid.New(), Nombre: "Sucursal Norte"}

	_, err := svc.Crear(context.Background(), dto.CrearLocalRequest{Nombre: "Sucursal Norte"})
	assert.ErrorContains(t, err, "Ya existe un local")
}

func TestEliminarLocal_ConUsuariosAsignados(t *testing.T) {
	svc, localRepo, usuarioRepo, _ := newLocalSvc()
	local := &model.Local{ID: uuid.New(), Nombre: "Sucursal Sur"}
	localRepo.locales[local.ID] = local
	seedUser(t, usuarioRepo, "empleado-sur", "pass1234", model.RolEmpleado, &local.ID)

	err := svc.Eliminar(context.Background(), local.ID)
	assert.ErrorContains(t, err, "usuarios asignados")
	assert.Len(t, localRepo.locales, 1)
}

func TestEliminarLocal_ConVentasRegistradas(t *testing.T) {
	svc, localRepo, _, ventaRepo := newLocalSvc()
	local := &model.Local{ID: uuid.New(), Nombre: "Sucursal Oeste"}
	localRepo.locales[local.ID] = local
	seedVenta(ventaRepo, uuid.New(), local.ID, 1000, time.Minute)

	err := svc.Eliminar(context.Background(), local.ID)
	assert.ErrorContains(t, err, "ventas registradas")
}

func TestEliminarLocal_Vacio(t *testing.T) {
	svc, localRepo, _, _ := newLocalSvc()
	local := &model.Local{ID: uuid.New(), Nombre: "Deposito viejo"}
	localRepo.locales[local.ID] = local

	require.NoError(t, svc.Eliminar(context.Background(), local.ID))
	assert.Empty(t, localRepo.locales)
}

func TestActualizarLocal_NombreDuplicado(t *testing.T) {
	svc, localRepo, _, _ := newLocalSvc()
	a := &model.Local{ID: uuid.New(), Nombre: "Sucursal A"}
	b := &model.Local{ID: uuid.New(), Nombre: "Sucursal B"}
	localRepo.locales[a.ID] = a
	localRepo.locales[b.ID] = b

	nombre := "Sucursal B"
	_, err := svc.Actualizar(context.Background(), a.ID, dto.ActualizarLocalRequest{Nombre: &nombre})
	assert.ErrorContains(t, err, "Ya existe un local")
}
