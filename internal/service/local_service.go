package service

import (
	"context"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/apierror"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/dto"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/repository"

	"github.com/google/uuid"
)

type LocalService interface {
	Crear(ctx context.Context, req dto.CrearLocalRequest) (*dto.LocalResponse, error)
	Listar(ctx context.Context) ([]dto.LocalResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LocalResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarLocalRequest) (*dto.LocalResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type localService struct {
	repo        repository.LocalRepository
	usuarioRepo repository.UsuarioRepository
	ventaRepo   repository.VentaRepository
}

func NewLocalService(repo repository.LocalRepository, usuarioRepo repository.UsuarioRepository, ventaRepo repository.VentaRepository) LocalService {
	return &localService{repo: repo, usuarioRepo: usuarioRepo, ventaRepo: ventaRepo}
}

func (s *localService) Crear(ctx context.Context, req dto.CrearLocalRequest) (*dto.LocalResponse, error) {
	if _, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil {
		return nil, apierror.Conflict("Ya existe un local con ese nombre")
	}
	l := &model.Local{Nombre: req.Nombre, Direccion: req.Direccion}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return localToResponse(l), nil
}

func (s *localService) Listar(ctx context.Context) ([]dto.LocalResponse, error) {
	locales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LocalResponse, 0, len(locales))
	for i := range locales {
		resp = append(resp, *localToResponse(&locales[i]))
	}
	return resp, nil
}

func (s *localService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LocalResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Local no encontrado")
	}
	return localToResponse(l), nil
}

func (s *localService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarLocalRequest) (*dto.LocalResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Local no encontrado")
	}
	if req.Nombre != nil && *req.Nombre != l.Nombre {
		if _, err := s.repo.FindByNombre(ctx, *req.Nombre); err == nil {
			return nil, apierror.Conflict("Ya existe un local con ese nombre")
		}
		l.Nombre = *req.Nombre
	}
	if req.Direccion != nil {
		l.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return localToResponse(l), nil
}

// Eliminar rejects deletion while usuarios or ventas still reference the local.
func (s *localService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("Local no encontrado")
	}
	if n, err := s.usuarioRepo.CountPorLocal(ctx, id); err != nil {
		return err
	} else if n > 0 {
		return apierror.Conflict("El local tiene usuarios asignados")
	}
	if n, err := s.ventaRepo.CountPorLocal(ctx, id); err != nil {
		return err
	} else if n > 0 {
		return apierror.Conflict("El local tiene ventas registradas")
	}
	return s.repo.Delete(ctx, id)
}

func localToResponse(l *model.Local) *dto.LocalResponse {
	return &dto.LocalResponse{ID: l.ID.String(), Nombre: l.Nombre, Direccion: l.Direccion}
}
