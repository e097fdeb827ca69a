package product

import (
	"context"
	"errors"

	"shopRadar/domain"
	"shopRadar/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]domain.Product, error)
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetProductsByOwner(ctx context.Context, ownerID uint64) ([]domain.Product, error) {
	products, err := s.productRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Failed to get products by owner", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, ownerID, productID uint64) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if product.OwnerID != ownerID {
		return domain.Product{}, errors.New("product not found")
	}

	return product, nil
}
