package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mall/internal/middleware"
	"mall/internal/models"
	"mall/internal/repositories"
	"mall/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp builds the full HTTP application against an in-memory SQLite
// database. The verification code store is the in-memory mock, so the flow
// works without Redis; events are not published.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Shop{}, &models.Category{},
		&models.Product{}, &models.Order{}, &models.OrderItem{},
	))

	log := zap.NewNop()
	userRepo := repositories.NewGORMUserRepository(db)
	shopRepo := repositories.NewGORMShopRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	codeStore := repositories.NewMockCodeStore()

	authService := services.NewAuthService(userRepo, codeStore, "test-secret", log)
	shopService := services.NewShopService(shopRepo, log)
	productService := services.NewProductService(productRepo, shopRepo, log)
	orderService := services.NewOrderService(orderRepo, productRepo, nil, log)

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	NewAuthHandler(authService, log).RegisterRoutes(apiV1, authRequired)
	NewShopHandler(shopService, log).RegisterRoutes(apiV1, authRequired)
	NewProductHandler(productService, log).RegisterRoutes(apiV1, authRequired)
	NewOrderHandler(orderService, log).RegisterRoutes(apiV1, authRequired)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &parsed), "body: %s", data)
	}
	return resp, parsed
}

// loginAs runs the send-code/login flow and returns a bearer token for the
// phone. userType 2 accounts are registered explicitly first.
func loginAs(t *testing.T, app *fiber.App, phone string, userType int) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/send-code", "", fiber.Map{"phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := body["code"].(string)

	if userType == models.UserTypeAdmin {
		resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"phone":     phone,
			"code":      code,
			"user_type": userType,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/send-code", "", fiber.Map{"phone": phone})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		code = body["code"].(string)
	}

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"phone": phone, "code": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["token"].(string)
}

func TestFullPurchaseFlow(t *testing.T) {
	app := setupTestApp(t)

	sellerToken := loginAs(t, app, "13800000001", models.UserTypeCustomer)
	adminToken := loginAs(t, app, "13800000002", models.UserTypeAdmin)
	buyerToken := loginAs(t, app, "13800000003", models.UserTypeCustomer)

	// Seller opens a shop; it starts pending audit.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/shops/", sellerToken, fiber.Map{
		"name":        "Tea House",
		"description": "loose leaf tea",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shopID := body["shop_id"].(string)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/shops/"+shopID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(models.ShopAuditPending), body["audit_status"])

	// Seller cannot approve the application; admin can.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/shops/"+shopID+"/audit", sellerToken,
		fiber.Map{"audit_status": models.ShopAuditApproved})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/shops/"+shopID+"/audit", adminToken,
		fiber.Map{"audit_status": models.ShopAuditApproved})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Seller lists a product.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/products/", sellerToken, fiber.Map{
		"shop_id":       shopID,
		"category_id":   "1",
		"name":          "Oolong Tea",
		"selling_price": 12.5,
		"stock":         5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := body["id"].(string)

	// Buyer places an order for 3 units.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/", buyerToken, fiber.Map{
		"shop_id": shopID,
		"items":   []fiber.Map{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := body["id"].(string)
	assert.Equal(t, 37.5, body["total_amount"])
	assert.Equal(t, float64(models.OrderAwaitingPayment), body["status"])
	assert.Len(t, body["order_no"].(string), 21)

	// Stock decremented.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["stock"])

	// A second order exceeding remaining stock is rejected, stock untouched.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/", buyerToken, fiber.Map{
		"shop_id": shopID,
		"items":   []fiber.Map{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["stock"])

	// Buyer pays; payment_time gets stamped.
	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", buyerToken,
		fiber.Map{"status": int(models.OrderAwaitingShipment)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(models.OrderAwaitingShipment), body["status"])
	assert.NotNil(t, body["payment_time"])

	// A paid order cannot be deleted.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+orderID, buyerToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The seller cannot see the buyer's order.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, sellerToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The buyer's listing shows exactly one order with its items.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := body["data"].([]any)
	require.Len(t, orders, 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Oolong Tea", item["product_name"])
	assert.Equal(t, 12.5, item["product_price"])
	assert.Equal(t, float64(3), item["quantity"])
}

func TestUnauthenticatedRequests(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Public catalog reads work without a token.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProfileRoundTrip(t *testing.T) {
	app := setupTestApp(t)
	token := loginAs(t, app, "13912345678", models.UserTypeCustomer)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user5678", body["nickname"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/users/profile", token, fiber.Map{"nickname": "tea-fan"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tea-fan", body["nickname"])
}

func TestAdminUserListing(t *testing.T) {
	app := setupTestApp(t)
	customerToken := loginAs(t, app, "13800000001", models.UserTypeCustomer)
	adminToken := loginAs(t, app, "13800000002", models.UserTypeAdmin)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 2)

	pg := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pg["total"])
	assert.Equal(t, float64(1), pg["total_pages"])
}
