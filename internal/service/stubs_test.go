package service_test

import (
	"context"
	"strings"
	"time"

	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubUserRepo is an in-memory UserRepository for testing.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubProductRepo is an in-memory ProductRepository preserving insertion order.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	order    []uuid.UUID
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.products[id])
	}
	return out, nil
}

func (r *stubProductRepo) Search(_ context.Context, term string) ([]model.Product, error) {
	term = strings.ToLower(term)
	var out []model.Product
	for _, id := range r.order {
		p := r.products[id]
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, *p)
			continue
		}
		if p.Category != nil && strings.Contains(strings.ToLower(*p.Category), term) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *stubProductRepo) LowStock(_ context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	for _, id := range r.order {
		if r.products[id].Quantity <= threshold {
			out = append(out, *r.products[id])
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	p, ok := r.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo stores sales and resolves display names against the other stubs.
type stubSaleRepo struct {
	sales    []*model.Sale
	users    *stubUserRepo
	products *stubProductRepo
}

func newStubSaleRepo(users *stubUserRepo, products *stubProductRepo) *stubSaleRepo {
	return &stubSaleRepo{users: users, products: products}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) row(s *model.Sale) repository.SaleRow {
	row := repository.SaleRow{Sale: *s}
	if u, ok := r.users.users[s.UserID]; ok {
		row.Username = u.Username
	}
	if p, ok := r.products.products[s.ProductID]; ok {
		row.ProductName = p.Name
	}
	return row
}

func (r *stubSaleRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.SaleRow, error) {
	var rows []repository.SaleRow
	for _, s := range r.sales {
		if s.UserID == userID {
			rows = append(rows, r.row(s))
		}
	}
	return rows, nil
}

func (r *stubSaleRepo) ListSince(_ context.Context, from time.Time) ([]repository.SaleRow, error) {
	var rows []repository.SaleRow
	for _, s := range r.sales {
		if !s.SaleDate.Before(from) {
			rows = append(rows, r.row(s))
		}
	}
	return rows, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	repo.users[u.ID] = u
	return u
}

func seedProduct(repo *stubProductRepo, name string, price float64, quantity int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	repo.products[p.ID] = p
	repo.order = append(repo.order, p.ID)
	return p
}
