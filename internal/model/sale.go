package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable transaction record. UnitPrice is a snapshot of the
// product price at sale time, so later price edits never alter historical
// totals. UserID and ProductID are plain columns without DB-level foreign
// keys: products may be hard-deleted and the sale history must survive.
// Referential existence is enforced inside the sale transaction instead.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleDate    time.Time       `gorm:"index;not null"`
}

// BeforeCreate assigns the ID in Go so the same model works on Postgres and
// the embedded SQLite store.
func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
