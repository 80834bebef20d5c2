package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"mrp_backend/internal/inventory/repository"
	"mrp_backend/internal/inventory/transport"
	"mrp_backend/platform/logger"
)

// Service provides business logic for raw material stock.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new inventory service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create registers a raw material with its available volume.
func (s *Service) Create(ctx context.Context, req transport.CreateRawMaterialRequest) (transport.RawMaterialResponse, error) {
	material, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), *req.Volume)
	if err != nil {
		return transport.RawMaterialResponse{}, err
	}

	s.log.Info("raw material created", "id", material.ID, "name", material.Name, "volume", material.Volume)
	return toResponse(material), nil
}

// GetByID retrieves a raw material by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.RawMaterialResponse, error) {
	material, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RawMaterialResponse{}, err
	}
	return toResponse(material), nil
}

// List retrieves raw materials with search and pagination.
func (s *Service) List(ctx context.Context, req transport.ListRawMaterialsRequest) (transport.RawMaterialListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Search: strings.TrimSpace(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.RawMaterialListResponse{}, err
	}

	responses := make([]transport.RawMaterialResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.RawMaterialListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateVolume sets the available volume for a raw material.
func (s *Service) UpdateVolume(ctx context.Context, id uuid.UUID, req transport.UpdateRawMaterialRequest) (transport.RawMaterialResponse, error) {
	material, err := s.repo.UpdateVolume(ctx, id, *req.Volume)
	if err != nil {
		return transport.RawMaterialResponse{}, err
	}

	s.log.Info("raw material volume updated", "id", material.ID, "volume", material.Volume)
	return toResponse(material), nil
}

// Delete removes a raw material record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("raw material deleted", "id", id)
	return nil
}

// Snapshot returns the current available volumes for the given materials.
// Used by approval flows; never mutates stock.
func (s *Service) Snapshot(ctx context.Context, names []string) (map[string]int64, error) {
	return s.repo.Snapshot(ctx, names)
}

func toResponse(material repository.RawMaterial) transport.RawMaterialResponse {
	return transport.RawMaterialResponse{
		ID:        material.ID,
		Name:      material.Name,
		Volume:    material.Volume,
		CreatedAt: material.CreatedAt,
		UpdatedAt: material.UpdatedAt,
	}
}
