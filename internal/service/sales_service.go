package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"
	"stockpilot/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesService interface {
	// CreateSale runs the stock-checked purchase transaction. Business-rule
	// failures (unknown product, insufficient stock) come back as a
	// PurchaseResult with Success=false; only store failures return an error.
	CreateSale(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.PurchaseResult, error)
	SalesByUser(ctx context.Context, userID uuid.UUID) ([]dto.SaleResponse, error)
	Report(ctx context.Context, days int) (*dto.SalesReport, error)
}

type salesService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	dispatcher  *worker.Dispatcher
}

func NewSalesService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	dispatcher *worker.Dispatcher,
) SalesService {
	return &salesService{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateSale ───────────────────────────────────────────────────────────────
// The one place two entities are mutated together. Inside a single transaction:
//   1. conditional decrement: UPDATE products SET quantity = quantity - ?
//      WHERE id = ? AND quantity >= ?  — the guard serializes concurrent
//      purchases so stock can never be jointly over-drawn
//   2. on a zero-row update, a re-read distinguishes "Product not found"
//      from "Insufficient stock"
//   3. insert the immutable Sale snapshot at the product's current price
// Either both writes commit or neither does.

func (s *salesService) CreateSale(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.PurchaseResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var result dto.PurchaseResult
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.productRepo.DecrementStockTx(tx, productID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			product, err := s.productRepo.FindByIDTx(tx, productID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result = dto.PurchaseResult{Success: false, Message: "Product not found"}
					return nil
				}
				return err
			}
			result = dto.PurchaseResult{
				Success: false,
				Message: fmt.Sprintf("Insufficient stock. Available: %d", product.Quantity),
			}
			return nil
		}

		product, err := s.productRepo.FindByIDTx(tx, productID)
		if err != nil {
			return err
		}

		sale := &model.Sale{
			UserID:      userID,
			ProductID:   productID,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			SaleDate:    time.Now().UTC(),
		}
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return err
		}

		result = dto.PurchaseResult{
			Success: true,
			Message: "Sale completed successfully",
			Sale: &dto.SaleResponse{
				ID:          sale.ID.String(),
				User:        user.Username,
				Product:     product.Name,
				Quantity:    sale.Quantity,
				UnitPrice:   sale.UnitPrice,
				TotalAmount: sale.TotalAmount,
				SaleDate:    sale.SaleDate.Format(time.RFC3339),
			},
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if result.Success {
		log.Info().
			Str("user", user.Username).
			Str("product", result.Sale.Product).
			Int("quantity", quantity).
			Str("total", result.Sale.TotalAmount.String()).
			Msg("sale created")

		// Best-effort receipt email — never affects the transaction outcome.
		if s.dispatcher != nil {
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				ToEmail:     user.Email,
				Username:    user.Username,
				Product:     result.Sale.Product,
				Quantity:    quantity,
				UnitPrice:   result.Sale.UnitPrice.StringFixed(2),
				TotalAmount: result.Sale.TotalAmount.StringFixed(2),
				SaleDate:    result.Sale.SaleDate,
			})
		}
	}
	return &result, nil
}

func (s *salesService) SalesByUser(ctx context.Context, userID uuid.UUID) ([]dto.SaleResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return saleRowsToResponses(rows), nil
}

func (s *salesService) Report(ctx context.Context, days int) (*dto.SalesReport, error) {
	from := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.repo.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}

	report := &dto.SalesReport{
		PeriodDays:        days,
		TotalTransactions: len(rows),
		Sales:             saleRowsToResponses(rows),
	}
	for _, row := range rows {
		report.TotalRevenue = report.TotalRevenue.Add(row.TotalAmount)
	}
	return report, nil
}

func saleRowsToResponses(rows []repository.SaleRow) []dto.SaleResponse {
	resp := make([]dto.SaleResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.SaleResponse{
			ID:          row.ID.String(),
			User:        row.Username,
			Product:     row.ProductName,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
			TotalAmount: row.TotalAmount,
			SaleDate:    row.SaleDate.Format(time.RFC3339),
		})
	}
	return resp
}
