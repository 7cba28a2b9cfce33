// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/validation"
)

// ProductService defines the methods for managing products.
// Every call reads the whole collection first; mutating calls write the whole collection back.
type ProductService interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its id.
	// Returns ErrProductNotFound if no product exists with the given id.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create validates and appends a new product, assigning the next id.
	// Returns a ValidationError carrying every violated rule if the product is invalid.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update merges the supplied fields over an existing product and validates the result.
	// Returns ErrProductNotFound if no product exists with the given id,
	// or a ValidationError if the merged product is invalid.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its id.
	// Returns ErrProductNotFound if no product exists with the given id.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
	validator  *validation.Validator
}

// NewService creates a new instance of ProductService with the provided repository and validator.
func NewService(repo store.ProductStore, validator *validation.Validator) *Service {
	return &Service{
		repository: repo,
		validator:  validator,
	}
}

// FindAll retrieves the full collection.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(item)
	}
	return productDTOs, nil
}

// FindByID retrieves a product by its id.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	products, err := s.repository.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	idx := store.IndexByID(products, id)
	if idx < 0 {
		return nil, perrors.ErrProductNotFound
	}
	return toDto(products[idx]), nil
}

// Create trims the text fields, assigns the next id and persists the product if it passes validation.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	products, err := s.repository.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	candidate := store.Product{
		ID:          store.NextID(products),
		Name:        strings.TrimSpace(product.Name),
		Price:       product.Price.value(),
		Description: strings.TrimSpace(product.Description),
	}
	if err := s.validate(candidate, products, false); err != nil {
		return nil, err
	}

	products = append(products, candidate)
	if err := s.repository.SaveAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(candidate), nil
}

// Update merges the supplied fields over the stored product. The id never changes.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	products, err := s.repository.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	idx := store.IndexByID(products, id)
	if idx < 0 {
		return nil, perrors.ErrProductNotFound
	}

	candidate := products[idx]
	if product.Name != nil {
		candidate.Name = strings.TrimSpace(*product.Name)
	}
	if product.Price.Set {
		candidate.Price = product.Price.Value
	}
	if product.Description != nil {
		candidate.Description = strings.TrimSpace(*product.Description)
	}
	if err := s.validate(candidate, products, true); err != nil {
		return nil, err
	}

	products[idx] = candidate
	if err := s.repository.SaveAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toDto(candidate), nil
}

// DeleteByID removes the product and persists the reduced collection.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	products, err := s.repository.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	idx := store.IndexByID(products, id)
	if idx < 0 {
		return perrors.ErrProductNotFound
	}

	remaining := make([]store.Product, 0, len(products)-1)
	remaining = append(remaining, products[:idx]...)
	remaining = append(remaining, products[idx+1:]...)
	if err := s.repository.SaveAll(ctx, remaining); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

func (s *Service) validate(candidate store.Product, existing []store.Product, isUpdate bool) error {
	violations := s.validator.Validate(candidate, existing, isUpdate)
	if len(violations) == 0 {
		return nil
	}
	return &perrors.ValidationError{Messages: validation.Messages(violations)}
}
