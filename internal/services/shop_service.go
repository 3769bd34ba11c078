package services

import (
	"errors"
	"fmt"

	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"
	"mall/internal/repositories"

	"go.uber.org/zap"
)

// ShopService handles business logic for shop onboarding and moderation.
type ShopService struct {
	shopRepo repositories.ShopRepository
	logger   *zap.Logger
}

// NewShopService creates a new ShopService.
func NewShopService(shopRepo repositories.ShopRepository, logger *zap.Logger) *ShopService {
	return &ShopService{shopRepo: shopRepo, logger: logger}
}

// CreateShop opens a shop application for the user. One shop per owner; the
// application starts pending audit.
func (s *ShopService) CreateShop(ownerID models.ID, shop *models.Shop) error {
	if existing, err := s.shopRepo.GetByOwner(ownerID); err == nil && existing != nil {
		return apperrors.Validationf("user already has a shop")
	} else if err != nil {
		var nf *apperrors.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
	}

	shop.OwnerID = ownerID
	shop.AuditStatus = models.ShopAuditPending
	shop.Status = models.ShopStatusOpen
	if err := s.shopRepo.Create(shop); err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}

	s.logger.Info("shop application created",
		zap.String("shop_id", shop.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return nil
}

// GetShop returns a shop by ID.
func (s *ShopService) GetShop(id models.ID) (*models.Shop, error) {
	return s.shopRepo.GetByID(id)
}

// UpdateShop applies profile changes to a shop. Owner or admin only.
func (s *ShopService) UpdateShop(actor authz.Actor, id models.ID, updates *models.Shop) error {
	shop, err := s.shopRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManage, authz.Resource{OwnerID: shop.OwnerID}) {
		return apperrors.Forbiddenf("not authorized to manage this shop")
	}

	shop.Name = updates.Name
	shop.Description = updates.Description
	shop.Logo = updates.Logo
	shop.LegalName = updates.LegalName
	shop.IDCardNo = updates.IDCardNo
	shop.IDCardFront = updates.IDCardFront
	shop.IDCardBack = updates.IDCardBack
	shop.BusinessLicense = updates.BusinessLicense
	shop.BusinessPermit = updates.BusinessPermit
	shop.WechatQrcode = updates.WechatQrcode
	return s.shopRepo.Update(shop)
}

// UpdateShopStatus opens or closes a shop. Owner or admin only.
func (s *ShopService) UpdateShopStatus(actor authz.Actor, id models.ID, status int) error {
	if status != models.ShopStatusOpen && status != models.ShopStatusClosed {
		return apperrors.Validationf("invalid shop status: %d", status)
	}
	shop, err := s.shopRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.ActionManage, authz.Resource{OwnerID: shop.OwnerID}) {
		return apperrors.Forbiddenf("not authorized to manage this shop")
	}
	return s.shopRepo.UpdateStatus(id, status)
}

// UpdateAuditStatus moderates a shop application. Admin only.
func (s *ShopService) UpdateAuditStatus(actor authz.Actor, id models.ID, auditStatus int) error {
	if !authz.Can(actor, authz.ActionAudit, authz.Resource{}) {
		return apperrors.Forbiddenf("admin access required")
	}
	switch auditStatus {
	case models.ShopAuditPending, models.ShopAuditApproved, models.ShopAuditRejected:
	default:
		return apperrors.Validationf("invalid audit status: %d", auditStatus)
	}
	if err := s.shopRepo.UpdateAuditStatus(id, auditStatus); err != nil {
		return err
	}
	s.logger.Info("shop audit status updated",
		zap.String("shop_id", id.String()),
		zap.Int("audit_status", auditStatus))
	return nil
}

// DeleteShop removes a shop. Admin only.
func (s *ShopService) DeleteShop(actor authz.Actor, id models.ID) error {
	if !authz.Can(actor, authz.ActionAdmin, authz.Resource{}) {
		return apperrors.Forbiddenf("admin access required")
	}
	return s.shopRepo.Delete(id)
}

// ListShops returns a page of shops matching the filter.
func (s *ShopService) ListShops(filter repositories.ShopFilter, page, limit int) ([]models.Shop, int64, error) {
	return s.shopRepo.List(filter, page, limit)
}
