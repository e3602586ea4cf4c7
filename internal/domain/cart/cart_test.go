package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/pricing"
)

func testRate(t *testing.T, s string) pricing.ExchangeRate {
	t.Helper()
	rate, err := pricing.NewExchangeRate(types.MustMoney(s))
	require.NoError(t, err)
	return rate
}

func testProduct(name, price string, stock int) *product.Product {
	return product.NewProduct(name, stock, types.ParsePrice(price), nil)
}

func TestEngine_AddItem_Pricing(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))

	require.NoError(t, engine.AddItem(testProduct("Cafe", "10.000", 100), 2))
	require.Equal(t, 1, engine.Len())

	item := engine.Items()[0]

	// Tax layers reconstruct the unit price exactly.
	assert.True(t, item.UnitPriceWithoutTaxUSD.Add(item.UnitTaxUSD).Equal(item.UnitPriceWithTaxUSD))
	assert.True(t, item.PriceWithoutTaxLocal.Add(item.TaxLocal).Equal(item.PriceWithTaxLocal))
	assert.True(t, item.SubtotalLocal.Add(item.TaxTotalLocal).Equal(item.TotalLocal))

	assert.Equal(t, "629.31", types.RoundDisplay(item.SubtotalLocal).String())
	assert.Equal(t, "100.69", types.RoundDisplay(item.TaxTotalLocal).String())
	assert.True(t, item.TotalLocal.Equal(types.MustMoney("730")))
}

func TestEngine_AddItem_Validation(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	p := testProduct("Cafe", "10", 5)

	err := engine.AddItem(p, 0)
	assert.Error(t, err)

	err = engine.AddItem(p, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	var unset Engine
	err = unset.AddItem(p, 1)
	assert.Error(t, err)
}

func TestEngine_AddItem_CartFull(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))

	for i := 0; i < MaxItems; i++ {
		require.NoError(t, engine.AddItem(testProduct("P", "1", 10), 1))
	}

	err := engine.AddItem(testProduct("P11", "1", 10), 1)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCartFull, appErr.Code)
	assert.Equal(t, MaxItems, engine.Len())
}

func TestEngine_ChangeQuantity(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	require.NoError(t, engine.AddItem(testProduct("Cafe", "10", 5), 2))

	// Increment within the stock snapshot.
	require.NoError(t, engine.ChangeQuantity(0, 3))
	assert.Equal(t, 5, engine.Items()[0].Quantity)

	// Increment past the snapshot is rejected without mutation.
	err := engine.ChangeQuantity(0, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 5, engine.Items()[0].Quantity)

	// Decrement clamps at 1.
	require.NoError(t, engine.ChangeQuantity(0, -10))
	assert.Equal(t, 1, engine.Items()[0].Quantity)

	// Out-of-range index.
	assert.Error(t, engine.ChangeQuantity(5, 1))
}

func TestEngine_ChangeQuantity_Reprices(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	require.NoError(t, engine.AddItem(testProduct("Cafe", "10", 10), 1))

	single := engine.Items()[0].TotalLocal

	require.NoError(t, engine.ChangeQuantity(0, 2))
	tripled := engine.Items()[0].TotalLocal

	assert.True(t, tripled.Equal(single.Mul(types.MustMoney("3"))))
}

func TestEngine_RemoveAndRestore(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	require.NoError(t, engine.AddItem(testProduct("A", "1", 10), 1))
	require.NoError(t, engine.AddItem(testProduct("B", "2", 10), 1))
	require.NoError(t, engine.AddItem(testProduct("C", "3", 10), 1))

	removed, index, err := engine.RemoveItem(1)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Name)
	assert.Equal(t, 1, index)
	assert.Equal(t, 2, engine.Len())

	engine.RestoreItem(removed, index)
	require.Equal(t, 3, engine.Len())
	assert.Equal(t, "B", engine.Items()[1].Name)

	_, _, err = engine.RemoveItem(99)
	assert.Error(t, err)
}

func TestEngine_Totals(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	require.NoError(t, engine.AddItem(testProduct("A", "10", 10), 2))
	require.NoError(t, engine.AddItem(testProduct("B", "5.5", 10), 1))

	subtotal, tax, total := types.Zero(), types.Zero(), types.Zero()
	for _, item := range engine.Items() {
		subtotal = subtotal.Add(item.SubtotalLocal)
		tax = tax.Add(item.TaxTotalLocal)
		total = total.Add(item.TotalLocal)
	}

	assert.True(t, engine.Subtotal().Equal(subtotal))
	assert.True(t, engine.TaxTotal().Equal(tax))
	assert.True(t, engine.Total().Equal(total))

	// Cart-level additivity holds because it holds per line.
	assert.True(t, engine.Subtotal().Add(engine.TaxTotal()).Equal(engine.Total()))
}

func TestEngine_SetExchangeRate_Reprices(t *testing.T) {
	engine := NewEngine(testRate(t, "36.5"))
	require.NoError(t, engine.AddItem(testProduct("A", "10", 10), 1))

	before := engine.Total()

	engine.SetExchangeRate(testRate(t, "73"))
	after := engine.Total()

	assert.True(t, after.Equal(before.Mul(types.MustMoney("2"))))
}
