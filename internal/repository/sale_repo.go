package repository

import (
	"context"
	"time"

	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRow is a sale joined with display names. The joins are LEFT JOINs so
// that history survives user or product deletion (names come back empty).
type SaleRow struct {
	model.Sale
	Username    string
	ProductName string
}

type SaleRepository interface {
	// CreateTx inserts a sale inside the caller's transaction.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]SaleRow, error)
	// ListSince returns all sales with sale_date >= from.
	ListSince(ctx context.Context, from time.Time) ([]SaleRow, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

const saleRowSelect = "sales.*, users.username AS username, products.name AS product_name"

func (r *saleRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sales").
		Select(saleRowSelect).
		Joins("LEFT JOIN users ON users.id = sales.user_id").
		Joins("LEFT JOIN products ON products.id = sales.product_id")
}

func (r *saleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]SaleRow, error) {
	var rows []SaleRow
	err := r.joined(ctx).
		Where("sales.user_id = ?", userID).
		Order("sales.sale_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) ListSince(ctx context.Context, from time.Time) ([]SaleRow, error) {
	var rows []SaleRow
	err := r.joined(ctx).
		Where("sales.sale_date >= ?", from).
		Order("sales.sale_date ASC").
		Scan(&rows).Error
	return rows, err
}
