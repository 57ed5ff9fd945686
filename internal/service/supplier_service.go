package service

import (
	"context"

	"github.com/google/uuid"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

type SupplierService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error)
	Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Active:   true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = *supplierToResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *supplierService) Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return apierror.NotFoundf("supplier %s not found", supplierID)
	}
	if supplier.TenantID != tenantID {
		return apierror.AccessDenied()
	}
	return s.repo.Deactivate(ctx, supplierID)
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
		Active:  s.Active,
	}
}
