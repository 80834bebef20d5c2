package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	ordsvc "mrp_backend/internal/orders/service"
	"mrp_backend/internal/planning"
	prodrepo "mrp_backend/internal/products/repository"
	"mrp_backend/platform/apperr"
)

// ProductInfoReader adapts the products repository for the orders domain.
// Order approval only needs the product's status and bill of materials.
type ProductInfoReader struct {
	repo prodrepo.Repository
}

// NewProductInfoReader creates a new product reader adapter.
func NewProductInfoReader(repo prodrepo.Repository) *ProductInfoReader {
	return &ProductInfoReader{repo: repo}
}

// ProductInfo returns the status and decoded bill of materials for a product.
func (a *ProductInfoReader) ProductInfo(ctx context.Context, id uuid.UUID) (ordsvc.ProductInfo, error) {
	product, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return ordsvc.ProductInfo{}, err
	}

	status, err := planning.ParseStatus(product.Status)
	if err != nil {
		return ordsvc.ProductInfo{}, err
	}

	bom, err := planning.ParseBillOfMaterialsJSON(product.Materials)
	if err != nil {
		return ordsvc.ProductInfo{}, apperr.Internal(
			fmt.Sprintf("product %s has corrupt materials", id))
	}

	return ordsvc.ProductInfo{Status: status, Materials: bom}, nil
}

// Compile-time check that ProductInfoReader implements ordsvc.ProductReader.
var _ ordsvc.ProductReader = (*ProductInfoReader)(nil)
