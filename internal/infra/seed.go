package infra

import (
	"stockpilot/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed bootstraps an empty store: one admin credential and a fixed sample
// catalog. Both checks are independent, so a wiped products table is
// re-seeded even when users survive. Idempotent.
func Seed(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&model.User{}).Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
		if err != nil {
			return err
		}
		admin := &model.User{
			Username:     "admin",
			Email:        "admin@inventory.com",
			Phone:        "1234567890",
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Info().Msg("seeded default admin user")
	}

	var productCount int64
	if err := db.Model(&model.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount == 0 {
		samples := []struct {
			name     string
			price    float64
			quantity int
			desc     string
			category string
		}{
			{"Pencil", 2.0, 90, "Writing instrument", "Stationery"},
			{"Eraser", 5.0, 95, "Rubber eraser", "Stationery"},
			{"Sharpener", 5.0, 100, "Pencil sharpener", "Stationery"},
			{"Pen", 10.0, 100, "Ball point pen", "Stationery"},
			{"Ruler", 10.0, 68, "12 inch ruler", "Stationery"},
			{"Chart Papers", 5.0, 150, "A4 chart papers", "Paper"},
			{"Notebooks", 20.0, 100, "Spiral notebooks", "Books"},
		}
		for _, s := range samples {
			desc, cat := s.desc, s.category
			p := &model.Product{
				Name:        s.name,
				Price:       decimal.NewFromFloat(s.price),
				Quantity:    s.quantity,
				Description: &desc,
				Category:    &cat,
			}
			if err := db.Create(p).Error; err != nil {
				return err
			}
		}
		log.Info().Int("count", len(samples)).Msg("seeded sample product catalog")
	}

	return nil
}
