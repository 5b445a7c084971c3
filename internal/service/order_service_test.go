package service

import (
	"sync"
	"testing"

	"go-pos-register/internal/model"
	"go-pos-register/internal/ws"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCoffeeWalkthrough(t *testing.T) {
	f := setupFixture(t)
	coffee := f.product(t, f.category(t, "Drinks"), "Coffee", "2.00", 5)
	orders := f.orders(true)

	for i := 0; i < 3; i++ {
		_, err := orders.AddProduct(coffee.ID)
		require.NoError(t, err)
	}
	order := orders.Snapshot()
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assert.Equal(t, "6.00", order.DisplayTotal)
	assert.Equal(t, model.OrderActive, order.State)

	order, err := orders.ToggleEventPricing()
	require.NoError(t, err)
	assert.True(t, order.EventPricing)
	assert.Equal(t, "2.20", order.Lines[0].DisplayUnit)
	assert.Equal(t, "6.60", order.DisplayTotal)

	order, err = orders.RemoveOne(0)
	require.NoError(t, err)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "4.40", order.DisplayTotal)

	paidOrderID := order.OrderID
	receipt, err := orders.Pay()
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.Len(t, receipt.Records, 1)
	assert.Equal(t, 2, receipt.Records[0].Quantity)
	assert.True(t, receipt.Records[0].UnitPrice.Equal(dec("2.2")))
	assert.True(t, receipt.Total.Equal(dec("4.4")))

	order = orders.Snapshot()
	assert.Empty(t, order.Lines)
	assert.Equal(t, model.OrderEmpty, order.State)
	assert.NotEqual(t, paidOrderID, order.OrderID)
	assert.True(t, order.EventPricing, "event pricing survives payment")

	ledger, err := f.sales.FindByOrder(paidOrderID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, coffee.ID, ledger[0].ProductID)

	stocked, err := f.products.FindByID(coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stocked.Stock)

	assert.Equal(t, 1, f.publisher.count(ws.EventPopularRefresh))
	assert.Equal(t, 1, f.publisher.count(ws.EventPricingToggled))
}

func TestOrderStockCeiling(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	tea := f.product(t, drinks, "Tea", "1.50", 2)
	soldOut := f.product(t, drinks, "Juice", "3.00", 0)
	orders := f.orders(true)

	for i := 0; i < 4; i++ {
		_, err := orders.AddProduct(tea.ID)
		require.NoError(t, err)
	}
	order, err := orders.AddProduct(soldOut.ID)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "3.00", order.DisplayTotal)
}

func TestOrderAddUnknownProduct(t *testing.T) {
	f := setupFixture(t)
	orders := f.orders(true)

	order, err := orders.AddProduct(uuid.New())

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	require.NotNil(t, order)
	assert.Empty(t, order.Lines)
	assert.Equal(t, model.OrderEmpty, order.State)
}

func TestOrderAddByNameMergesLines(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 5)
	f.product(t, drinks, "Tea", "1.50", 5)
	orders := f.orders(true)

	_, err := orders.AddProductByName("Drinks", "Coffee")
	require.NoError(t, err)
	_, err = orders.AddProductByName(model.HomeCategory, "Coffee")
	require.NoError(t, err)
	order, err := orders.AddProductByName("Drinks", "Tea")
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, coffee.ID, order.Lines[0].ProductID)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "Drinks", order.Lines[0].Category)
	assert.Equal(t, 1, order.Lines[0].Position)
	assert.Equal(t, 2, order.Lines[1].Position)

	_, err = orders.AddProductByName("Drinks", "coffee")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestOrderRemoveOne(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 5)
	tea := f.product(t, drinks, "Tea", "1.50", 5)
	orders := f.orders(true)

	_, _ = orders.AddProduct(coffee.ID)
	_, _ = orders.AddProduct(tea.ID)
	_, _ = orders.AddProduct(tea.ID)

	order, err := orders.RemoveOne(0)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, tea.ID, order.Lines[0].ProductID)
	assert.Equal(t, 1, order.Lines[0].Position)

	t.Run("out of range leaves the order unchanged", func(t *testing.T) {
		for _, idx := range []int{-1, 1, 7} {
			order, err := orders.RemoveOne(idx)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
			require.Len(t, order.Lines, 1)
			assert.Equal(t, 2, order.Lines[0].Quantity)
		}
	})

	_, _ = orders.RemoveOne(0)
	order, err = orders.RemoveOne(0)
	require.NoError(t, err)
	assert.Empty(t, order.Lines)
	assert.Equal(t, model.OrderEmpty, order.State)
	assert.Equal(t, "0.00", order.DisplayTotal)
}

func TestOrderToggleTwiceRestoresPrices(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	water := f.product(t, drinks, "Water", "0.99", 5)
	orders := f.orders(true)
	_, _ = orders.AddProduct(water.ID)

	order, err := orders.ToggleEventPricing()
	require.NoError(t, err)
	assert.True(t, order.Lines[0].UnitPrice.Equal(dec("1.089")))
	assert.Equal(t, "1.09", order.Lines[0].DisplayUnit)

	order, err = orders.ToggleEventPricing()
	require.NoError(t, err)
	assert.False(t, order.EventPricing)
	assert.True(t, order.Lines[0].UnitPrice.Equal(dec("0.99")))
}

func TestOrderAddDuringEventUsesSurcharge(t *testing.T) {
	f := setupFixture(t)
	coffee := f.product(t, f.category(t, "Drinks"), "Coffee", "2.00", 5)
	orders := f.orders(true)

	_, err := orders.ToggleEventPricing()
	require.NoError(t, err)
	order, err := orders.AddProduct(coffee.ID)
	require.NoError(t, err)

	assert.Equal(t, "2.20", order.Lines[0].DisplayUnit)
}

func TestOrderToggleRepricesFromCatalog(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 5)
	tea := f.product(t, drinks, "Tea", "1.00", 5)
	orders := f.orders(true)
	_, _ = orders.AddProduct(coffee.ID)
	_, _ = orders.AddProduct(tea.ID)

	coffee.Price = dec("3.00")
	require.NoError(t, f.products.Update(coffee))
	require.NoError(t, f.products.Delete(tea.ID))

	order, err := orders.ToggleEventPricing()
	require.NoError(t, err)
	assert.Equal(t, "3.30", order.Lines[0].DisplayUnit)
	assert.Equal(t, "1.10", order.Lines[1].DisplayUnit)
	assert.Equal(t, "4.40", order.DisplayTotal)
}

func TestOrderTotalMatchesLines(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	products := []*model.Product{
		f.product(t, drinks, "Coffee", "2.00", 9),
		f.product(t, drinks, "Tea", "1.35", 9),
		f.product(t, drinks, "Water", "0.99", 9),
	}
	orders := f.orders(true)

	check := func(order *model.OrderSnapshot) {
		sum := dec("0")
		for _, line := range order.Lines {
			sum = sum.Add(line.UnitPrice.Mul(decFromInt(line.Quantity)))
		}
		assert.True(t, order.Total.Equal(sum), "total %s != %s", order.Total, sum)
	}

	for i := 0; i < 7; i++ {
		order, err := orders.AddProduct(products[i%len(products)].ID)
		require.NoError(t, err)
		check(order)
	}
	order, err := orders.ToggleEventPricing()
	require.NoError(t, err)
	check(order)
	order, err = orders.RemoveOne(1)
	require.NoError(t, err)
	check(order)
}

func TestOrderPayEmptyIsNoop(t *testing.T) {
	f := setupFixture(t)
	orders := f.orders(true)
	before := orders.Snapshot()

	receipt, err := orders.Pay()

	assert.NoError(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, before.OrderID, orders.Snapshot().OrderID)
	all, err := f.sales.FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOrderPayOneRecordPerLine(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 5)
	tea := f.product(t, drinks, "Tea", "1.50", 5)
	orders := f.orders(false)

	_, _ = orders.AddProduct(coffee.ID)
	_, _ = orders.AddProduct(tea.ID)
	_, _ = orders.AddProduct(coffee.ID)

	receipt, err := orders.Pay()
	require.NoError(t, err)
	require.Len(t, receipt.Records, 2)

	ledger, err := f.sales.FindByOrder(receipt.OrderID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	byProduct := map[uuid.UUID]int{}
	for _, s := range ledger {
		byProduct[s.ProductID] = s.Quantity
	}
	assert.Equal(t, 2, byProduct[coffee.ID])
	assert.Equal(t, 1, byProduct[tea.ID])

	unchanged, err := f.products.FindByID(coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, unchanged.Stock, "stock untouched when tracking is off")
}

func TestOrderPayFailureKeepsOrder(t *testing.T) {
	f := setupFixture(t)
	drinks := f.category(t, "Drinks")
	coffee := f.product(t, drinks, "Coffee", "2.00", 5)
	tea := f.product(t, drinks, "Tea", "1.50", 5)
	orders := f.orders(true)

	_, _ = orders.AddProduct(tea.ID)
	for i := 0; i < 3; i++ {
		_, _ = orders.AddProduct(coffee.ID)
	}
	before := orders.Snapshot()

	// stock sold elsewhere after the lines were added
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", coffee.ID).Update("stock", 1).Error)

	receipt, err := orders.Pay()
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)

	after := orders.Snapshot()
	assert.Equal(t, before.OrderID, after.OrderID)
	assert.Equal(t, model.OrderActive, after.State)
	assert.Len(t, after.Lines, 2)

	all, err := f.sales.FindAll()
	require.NoError(t, err)
	assert.Empty(t, all, "ledger untouched")

	teaNow, err := f.products.FindByID(tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, teaNow.Stock, "tea decrement rolled back")
}

func TestOrderPayDeletedProduct(t *testing.T) {
	f := setupFixture(t)
	coffee := f.product(t, f.category(t, "Drinks"), "Coffee", "2.00", 5)
	orders := f.orders(false)
	_, _ = orders.AddProduct(coffee.ID)
	require.NoError(t, f.products.Delete(coffee.ID))

	_, err := orders.Pay()

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, orders.Snapshot().Lines, 1)
}

func TestOrderConcurrentAddsRespectStock(t *testing.T) {
	f := setupFixture(t)
	coffee := f.product(t, f.category(t, "Drinks"), "Coffee", "2.00", 10)
	orders := f.orders(true)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = orders.AddProduct(coffee.ID)
		}()
	}
	wg.Wait()

	order := orders.Snapshot()
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 10, order.Lines[0].Quantity)
}
