package services

import (
	"fmt"

	"robokart/internal/models"
	"robokart/internal/repositories"
)

// ProductService handles business logic related to products. Mutations are
// reachable only through the admin surface.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product after checking the category.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if !models.ValidCategory(product.Category) {
		return fmt.Errorf("unknown category %q", product.Category)
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product. This is also the admin's stock
// adjustment path; the repository write replaces the whole row.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if !models.ValidCategory(product.Category) {
		return fmt.Errorf("unknown category %q", product.Category)
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
