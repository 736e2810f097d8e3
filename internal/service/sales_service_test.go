package service_test

import (
	"context"
	"testing"
	"time"

	"stockpilot/internal/model"
	"stockpilot/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSalesSvc() (service.SalesService, *stubUserRepo, *stubProductRepo, *stubSaleRepo) {
	userRepo := newStubUserRepo()
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo(userRepo, productRepo)
	svc := service.NewSalesService(saleRepo, productRepo, userRepo, nil)
	return svc, userRepo, productRepo, saleRepo
}

func TestCreateSale_DecrementsStockAndSnapshotsPrice(t *testing.T) {
	svc, userRepo, productRepo, saleRepo := buildSalesSvc()
	user := seedUser(userRepo, "alice", "secret", model.RoleUser)
	product := seedProduct(productRepo, "Pencil", 10.0, 50)

	result, err := svc.CreateSale(context.Background(), user.ID, product.ID, 5)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "Sale completed successfully", result.Message)

	// 50 - 5 = 45
	assert.Equal(t, 45, productRepo.products[product.ID].Quantity)

	require.NotNil(t, result.Sale)
	assert.Equal(t, "alice", result.Sale.User)
	assert.Equal(t, "Pencil", result.Sale.Product)
	assert.Equal(t, 5, result.Sale.Quantity)
	assert.Equal(t, "10", result.Sale.UnitPrice.String())
	assert.Equal(t, "50", result.Sale.TotalAmount.String())

	require.Len(t, saleRepo.sales, 1)
	stored := saleRepo.sales[0]
	assert.Equal(t, stored.UnitPrice.Mul(decimal.NewFromInt(int64(stored.Quantity))).String(), stored.TotalAmount.String())
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	svc, userRepo, productRepo, saleRepo := buildSalesSvc()
	user := seedUser(userRepo, "bob", "secret", model.RoleUser)
	product := seedProduct(productRepo, "Ruler", 10.0, 5)

	result, err := svc.CreateSale(context.Background(), user.ID, product.ID, 10)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient stock. Available: 5", result.Message)
	assert.Nil(t, result.Sale)

	// Nothing changed: stock intact, no sale recorded.
	assert.Equal(t, 5, productRepo.products[product.ID].Quantity)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_ProductNotFound(t *testing.T) {
	svc, userRepo, _, saleRepo := buildSalesSvc()
	user := seedUser(userRepo, "carol", "secret", model.RoleUser)

	result, err := svc.CreateSale(context.Background(), user.ID, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Product not found", result.Message)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_UnknownUser(t *testing.T) {
	svc, _, productRepo, _ := buildSalesSvc()
	product := seedProduct(productRepo, "Pen", 10.0, 10)

	_, err := svc.CreateSale(context.Background(), uuid.New(), product.ID, 1)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	// Stock untouched when the user lookup fails.
	assert.Equal(t, 10, productRepo.products[product.ID].Quantity)
}

func TestCreateSale_ExactStockDrainsToZero(t *testing.T) {
	svc, userRepo, productRepo, _ := buildSalesSvc()
	user := seedUser(userRepo, "dave", "secret", model.RoleUser)
	product := seedProduct(productRepo, "Eraser", 5.0, 3)

	result, err := svc.CreateSale(context.Background(), user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, productRepo.products[product.ID].Quantity)

	// The next purchase of the same product must fail.
	result, err = svc.CreateSale(context.Background(), user.ID, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient stock. Available: 0", result.Message)
}

func TestCreateSale_PriceSnapshotSurvivesLaterChange(t *testing.T) {
	userRepo := newStubUserRepo()
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo(userRepo, productRepo)
	salesSvc := service.NewSalesService(saleRepo, productRepo, userRepo, nil)
	inventorySvc := service.NewInventoryService(productRepo)

	user := seedUser(userRepo, "erin", "secret", model.RoleUser)
	product := seedProduct(productRepo, "Notebook", 20.0, 10)

	result, err := salesSvc.CreateSale(context.Background(), user.ID, product.ID, 2)
	require.NoError(t, err)
	require.True(t, result.Success)

	newPrice := decimal.NewFromFloat(99.0)
	_, err = inventorySvc.Update(context.Background(), product.ID, patchPrice(newPrice))
	require.NoError(t, err)

	history, err := salesSvc.SalesByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "20", history[0].UnitPrice.String())
	assert.Equal(t, "40", history[0].TotalAmount.String())
}

func TestSalesByUser_OnlyOwnSales(t *testing.T) {
	svc, userRepo, productRepo, _ := buildSalesSvc()
	alice := seedUser(userRepo, "alice", "secret", model.RoleUser)
	bob := seedUser(userRepo, "bob", "secret", model.RoleUser)
	product := seedProduct(productRepo, "Sharpener", 5.0, 100)

	_, err := svc.CreateSale(context.Background(), alice.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = svc.CreateSale(context.Background(), bob.ID, product.ID, 2)
	require.NoError(t, err)

	history, err := svc.SalesByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "alice", history[0].User)
}

func TestReport_SumsRevenueInWindow(t *testing.T) {
	svc, userRepo, productRepo, saleRepo := buildSalesSvc()
	user := seedUser(userRepo, "frank", "secret", model.RoleAdmin)
	product := seedProduct(productRepo, "Chart Papers", 5.0, 500)

	_, err := svc.CreateSale(context.Background(), user.ID, product.ID, 4) // 20
	require.NoError(t, err)
	_, err = svc.CreateSale(context.Background(), user.ID, product.ID, 6) // 30
	require.NoError(t, err)

	// A sale outside the window must not count.
	saleRepo.sales = append(saleRepo.sales, &model.Sale{
		ID:          uuid.New(),
		UserID:      user.ID,
		ProductID:   product.ID,
		Quantity:    100,
		UnitPrice:   product.Price,
		TotalAmount: decimal.NewFromInt(500),
		SaleDate:    time.Now().UTC().AddDate(0, 0, -60),
	})

	report, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, report.PeriodDays)
	assert.Equal(t, 2, report.TotalTransactions)
	assert.Equal(t, "50", report.TotalRevenue.String())
	assert.Len(t, report.Sales, 2)
}

func TestReport_Empty(t *testing.T) {
	svc, _, _, _ := buildSalesSvc()

	report, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalTransactions)
	assert.True(t, report.TotalRevenue.IsZero())
}
