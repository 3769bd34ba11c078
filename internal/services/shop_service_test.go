package services

import (
	"testing"

	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"
	"mall/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newShopServiceFixture(t *testing.T) (*ShopService, *repositories.MockShopRepository) {
	t.Helper()
	shops := repositories.NewMockShopRepository()
	return NewShopService(shops, zap.NewNop()), shops
}

func customer(id models.ID) authz.Actor {
	return authz.Actor{UserID: id, UserType: models.UserTypeCustomer}
}

func admin(id models.ID) authz.Actor {
	return authz.Actor{UserID: id, UserType: models.UserTypeAdmin}
}

func TestCreateShop(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	shop := &models.Shop{Name: "Corner Store", Description: "snacks"}
	require.NoError(t, service.CreateShop(5, shop))

	assert.Equal(t, models.ID(5), shop.OwnerID)
	assert.Equal(t, models.ShopAuditPending, shop.AuditStatus)
	assert.Equal(t, models.ShopStatusOpen, shop.Status)
	assert.NotZero(t, shop.ID)
}

func TestCreateShopOnePerOwner(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	require.NoError(t, service.CreateShop(5, &models.Shop{Name: "First"}))

	err := service.CreateShop(5, &models.Shop{Name: "Second"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateShopOwnerOnly(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	shop := &models.Shop{Name: "Corner Store"}
	require.NoError(t, service.CreateShop(5, shop))

	err := service.UpdateShop(customer(6), shop.ID, &models.Shop{Name: "Hijacked"})
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)

	require.NoError(t, service.UpdateShop(customer(5), shop.ID, &models.Shop{Name: "Renamed"}))
	got, err := service.GetShop(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, service.UpdateShop(admin(1), shop.ID, &models.Shop{Name: "Admin Renamed"}))
}

func TestUpdateShopStatus(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	shop := &models.Shop{Name: "Corner Store"}
	require.NoError(t, service.CreateShop(5, shop))

	require.NoError(t, service.UpdateShopStatus(customer(5), shop.ID, models.ShopStatusClosed))
	got, err := service.GetShop(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopStatusClosed, got.Status)

	err = service.UpdateShopStatus(customer(5), shop.ID, 9)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateAuditStatusAdminOnly(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	shop := &models.Shop{Name: "Corner Store"}
	require.NoError(t, service.CreateShop(5, shop))

	// Even the owner cannot approve their own application.
	err := service.UpdateAuditStatus(customer(5), shop.ID, models.ShopAuditApproved)
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)

	require.NoError(t, service.UpdateAuditStatus(admin(1), shop.ID, models.ShopAuditApproved))
	got, err := service.GetShop(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopAuditApproved, got.AuditStatus)

	err = service.UpdateAuditStatus(admin(1), shop.ID, 9)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteShopAdminOnly(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	shop := &models.Shop{Name: "Corner Store"}
	require.NoError(t, service.CreateShop(5, shop))

	err := service.DeleteShop(customer(5), shop.ID)
	var ferr *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &ferr)

	require.NoError(t, service.DeleteShop(admin(1), shop.ID))
	_, err = service.GetShop(shop.ID)
	var nfErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestListShopsFilter(t *testing.T) {
	service, _ := newShopServiceFixture(t)

	require.NoError(t, service.CreateShop(1, &models.Shop{Name: "A"}))
	require.NoError(t, service.CreateShop(2, &models.Shop{Name: "B"}))

	all, total, err := service.ListShops(repositories.ShopFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	pending := models.ShopAuditPending
	filtered, total, err := service.ListShops(repositories.ShopFilter{AuditStatus: &pending}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, filtered, 2)
}
