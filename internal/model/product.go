package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. Quantity never goes negative: the only code path
// that decrements it is the sale transaction, which performs a conditional
// update guarded by the current stock level.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	Description *string
	Category    *string `gorm:"type:varchar(50)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock reports whether the product sits at or below the given threshold.
func (p *Product) IsLowStock(threshold int) bool { return p.Quantity <= threshold }

// BeforeCreate assigns the ID in Go so the same model works on Postgres and
// the embedded SQLite store.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
