package service

import (
	"testing"
	"time"

	"go-pos-register/internal/model"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopularFallsBackToCatalog(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	f.product(t, drinks, "Tea", "1.50", 5)
	f.product(t, drinks, "Coffee", "2.00", 5)
	f.product(t, drinks, "Water", "1.00", 5)

	popular, err := NewPopularityService(f.sales, f.products).GetPopularProducts(30, 2, false)

	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Coffee", popular[0].Name)
	assert.Equal(t, "Tea", popular[1].Name)
	assert.Equal(t, int64(0), popular[0].QuantitySold)
}

func TestPopularRanksWithinWindow(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 50)
	tea := f.product(t, drinks, "Tea", "1.00", 50)
	old := f.product(t, drinks, "Juice", "3.00", 50)

	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	sell := func(p *model.Product, qty int, at time.Time) {
		require.NoError(t, f.db.Create(&model.SaleRecord{
			OrderID: uuid.New(), ProductID: p.ID, Quantity: qty, UnitPrice: p.Price, CreatedAt: at,
		}).Error)
	}
	sell(coffee, 2, now.AddDate(0, 0, -1))
	sell(tea, 5, now.AddDate(0, 0, -2))
	sell(old, 50, now.AddDate(0, 0, -45))

	svc := NewPopularityService(f.sales, f.products).(*popularityService)
	svc.now = func() time.Time { return now }

	popular, err := svc.GetPopularProducts(30, 6, true)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Tea", popular[0].Name)
	assert.Equal(t, int64(5), popular[0].QuantitySold)
	assert.True(t, popular[0].DisplayPrice.Equal(dec("1.1")))
	assert.True(t, popular[0].Price.Equal(dec("1")))
	assert.Equal(t, "Coffee", popular[1].Name)

	wide, err := svc.GetPopularProducts(60, 6, false)
	require.NoError(t, err)
	require.Len(t, wide, 3)
	assert.Equal(t, "Juice", wide[0].Name)
}

func TestPopularSkipsDeletedProducts(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 50)
	tea := f.product(t, drinks, "Tea", "1.00", 50)
	orders := f.orders(true)
	_, _ = orders.AddProduct(coffee.ID)
	_, _ = orders.AddProduct(tea.ID)
	_, err := orders.Pay()
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(tea.ID))

	popular, err := NewPopularityService(f.sales, f.products).GetPopularProducts(30, 6, false)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, coffee.ID, popular[0].ID)
}

func TestPopularRejectsBadWindow(t *testing.T) {
	f := setupFixture(t)
	svc := NewPopularityService(f.sales, f.products)

	_, err := svc.GetPopularProducts(0, 6, false)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = svc.GetPopularProducts(30, 0, false)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
