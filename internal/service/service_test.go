package service

import (
	"sync"
	"testing"

	"go-pos-register/internal/model"
	"go-pos-register/internal/repository"
	"go-pos-register/internal/ws"
	"go-pos-register/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count(t ws.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	db         *gorm.DB
	categories repository.CategoryRepository
	products   repository.ProductRepository
	sales      repository.SaleRepository
	publisher  *recordingPublisher
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect("sqlite", ":memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &fixture{
		db:         db,
		categories: repository.NewCategoryRepo(db),
		products:   repository.NewProductRepo(db),
		sales:      repository.NewSaleRepo(db),
		publisher:  &recordingPublisher{},
	}
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) product(t *testing.T, c *model.Category, name, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{CategoryID: c.ID, Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) orders(trackStock bool) OrderService {
	return NewOrderService(f.products, f.sales, f.db, f.publisher, OrderOptions{TrackStock: trackStock})
}

func (f *fixture) catalog() CatalogService {
	return NewCatalogService(f.categories, f.products, f.sales, f.db, f.publisher)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
