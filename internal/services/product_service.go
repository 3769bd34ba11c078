package services

import (
	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"
	"mall/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic for the product catalog.
type ProductService struct {
	productRepo repositories.ProductRepository
	shopRepo    repositories.ShopRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, shopRepo repositories.ShopRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, shopRepo: shopRepo, logger: logger}
}

// CreateProduct adds a product to a shop the actor manages.
func (s *ProductService) CreateProduct(actor authz.Actor, product *models.Product) error {
	shop, err := s.shopRepo.GetByID(product.ShopID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManage, authz.Resource{OwnerID: shop.OwnerID}) {
		return apperrors.Forbiddenf("not authorized to manage this shop")
	}
	if product.Status == 0 {
		product.Status = models.ProductStatusActive
	}
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("shop_id", product.ShopID.String()))
	return nil
}

// GetProduct returns a product by ID.
func (s *ProductService) GetProduct(id models.ID) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// UpdateProduct applies catalog changes. Shop owner or admin only; the
// product cannot be moved to another shop.
func (s *ProductService) UpdateProduct(actor authz.Actor, id models.ID, updates *models.Product) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, product.ShopID); err != nil {
		return nil, err
	}

	product.CategoryID = updates.CategoryID
	product.Name = updates.Name
	product.Description = updates.Description
	product.Specification = updates.Specification
	product.OriginalPrice = updates.OriginalPrice
	product.SellingPrice = updates.SellingPrice
	product.Stock = updates.Stock
	product.Status = updates.Status
	product.PromotionStart = updates.PromotionStart
	product.PromotionEnd = updates.PromotionEnd
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Shop owner or admin only.
func (s *ProductService) DeleteProduct(actor authz.Actor, id models.ID) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, product.ShopID); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// ListProducts returns a page of products matching the filter.
func (s *ProductService) ListProducts(filter repositories.ProductFilter, page, limit int) ([]models.Product, int64, error) {
	return s.productRepo.List(filter, page, limit)
}

// AdjustStock applies a signed stock adjustment. The repository enforces the
// non-negative invariant with a conditional update; this method never reads
// and writes stock in separate steps.
func (s *ProductService) AdjustStock(actor authz.Actor, id models.ID, delta int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, product.ShopID); err != nil {
		return nil, err
	}
	return s.productRepo.AdjustStock(id, delta)
}

// ListCategories returns all categories.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.productRepo.ListCategories()
}

func (s *ProductService) authorize(actor authz.Actor, shopID models.ID) error {
	shop, err := s.shopRepo.GetByID(shopID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManage, authz.Resource{OwnerID: shop.OwnerID}) {
		return apperrors.Forbiddenf("not authorized to manage this product")
	}
	return nil
}
