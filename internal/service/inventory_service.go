package service

import (
	"context"
	"errors"
	"time"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService defines the business logic contract for products.
type InventoryService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Search(ctx context.Context, term string) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Delete reports whether a matching product existed and was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error)
}

type inventoryService struct {
	repo repository.ProductRepository
}

func NewInventoryService(repo repository.ProductRepository) InventoryService {
	return &inventoryService{repo: repo}
}

// Create always succeeds given valid input; there is no duplicate-name check.
func (s *inventoryService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Str("name", product.Name).Msg("product added")
	return productToResponse(product), nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *inventoryService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func (s *inventoryService) Search(ctx context.Context, term string) ([]dto.ProductResponse, error) {
	products, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

// Update applies only the fields present in the patch and stamps UpdatedAt.
func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Str("name", product.Name).Msg("product updated")
	return productToResponse(product), nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		log.Info().Str("id", id.String()).Msg("product deleted")
	}
	return deleted, nil
}

func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error) {
	products, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func productsToResponses(products []model.Product) []dto.ProductResponse {
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}
	return resp
}
