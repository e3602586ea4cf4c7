// Package cart provides the in-memory cart pricing engine.
// The engine owns no durable state: it derives every price layer from the
// product price, the requested quantity and the current exchange rate, and
// recomputes on every mutation.
package cart

import (
	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// MaxItems is the maximum number of distinct line items per cart.
const MaxItems = 10

// LineItem is a priced cart line. All monetary fields are derived; the
// quantity and the stock snapshot are the only inputs kept per line.
type LineItem struct {
	ProductID id.ID  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`

	// StockQuantity is a snapshot of product.Quantity at add-time,
	// bounding later increments.
	StockQuantity int `json:"stockQuantity"`

	UnitPriceWithTaxUSD    types.Money `json:"unitPriceWithTaxUsd"`
	UnitPriceWithoutTaxUSD types.Money `json:"unitPriceWithoutTaxUsd"`
	UnitTaxUSD             types.Money `json:"unitTaxUsd"`

	PriceWithoutTaxLocal types.Money `json:"priceWithoutTaxLocal"`
	TaxLocal             types.Money `json:"taxLocal"`
	PriceWithTaxLocal    types.Money `json:"priceWithTaxLocal"`

	SubtotalLocal types.Money `json:"subtotalLocal"`
	TaxTotalLocal types.Money `json:"taxTotalLocal"`
	TotalLocal    types.Money `json:"totalLocal"`
}

// Engine maintains the transient line-item set for one session.
type Engine struct {
	rate  pricing.ExchangeRate
	items []LineItem
}

// NewEngine creates a cart engine bound to an exchange rate.
func NewEngine(rate pricing.ExchangeRate) *Engine {
	return &Engine{rate: rate}
}

// SetExchangeRate replaces the conversion rate and reprices every line.
func (e *Engine) SetExchangeRate(rate pricing.ExchangeRate) {
	e.rate = rate
	for i := range e.items {
		e.reprice(&e.items[i])
	}
}

// AddItem prices and appends a line for qty units of p.
func (e *Engine) AddItem(p *product.Product, qty int) error {
	if !e.rate.IsSet() {
		return apperror.NewValidation("exchange rate is not configured")
	}

	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	if qty > p.Quantity {
		return apperror.NewInsufficientStock(p.ID.String(), p.Name, qty, p.Quantity)
	}

	if len(e.items) >= MaxItems {
		return apperror.NewBusinessRule(apperror.CodeCartFull, "cart is limited to 10 items")
	}

	item := LineItem{
		ProductID:           p.ID,
		Name:                p.Name,
		Quantity:            qty,
		StockQuantity:       p.Quantity,
		UnitPriceWithTaxUSD: p.Price.Decimal(),
	}
	e.reprice(&item)

	e.items = append(e.items, item)
	return nil
}

// ChangeQuantity adjusts the quantity of the line at index by delta,
// clamped to [1, stockQuantity]. An increment past the stock snapshot is
// rejected without mutating the line.
func (e *Engine) ChangeQuantity(index, delta int) error {
	if index < 0 || index >= len(e.items) {
		return apperror.NewValidation("line item index out of range").
			WithDetail("index", index)
	}

	item := &e.items[index]
	newQty := item.Quantity + delta

	if newQty > item.StockQuantity {
		return apperror.NewInsufficientStock(
			item.ProductID.String(), item.Name, newQty, item.StockQuantity)
	}

	if newQty < 1 {
		newQty = 1
	}

	item.Quantity = newQty
	e.reprice(item)
	return nil
}

// RemoveItem removes the line at index and returns it together with its
// original index, so the caller can offer a bounded undo.
func (e *Engine) RemoveItem(index int) (LineItem, int, error) {
	if index < 0 || index >= len(e.items) {
		return LineItem{}, 0, apperror.NewValidation("line item index out of range").
			WithDetail("index", index)
	}

	removed := e.items[index]
	e.items = append(e.items[:index], e.items[index+1:]...)
	return removed, index, nil
}

// RestoreItem reinserts a previously removed line at its original index
// (undo path). Falls back to appending when the index no longer fits.
func (e *Engine) RestoreItem(item LineItem, index int) {
	if index < 0 || index > len(e.items) {
		index = len(e.items)
	}
	e.items = append(e.items[:index], append([]LineItem{item}, e.items[index:]...)...)
}

// Clear drops every line item.
func (e *Engine) Clear() {
	e.items = nil
}

// Items returns a copy of the current line items.
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Len returns the number of line items.
func (e *Engine) Len() int { return len(e.items) }

// Total returns the sum of all line totals in local currency.
func (e *Engine) Total() types.Money {
	total := types.Zero()
	for _, item := range e.items {
		total = total.Add(item.TotalLocal)
	}
	return total
}

// Subtotal returns the sum of all line subtotals (without tax) in local currency.
func (e *Engine) Subtotal() types.Money {
	subtotal := types.Zero()
	for _, item := range e.items {
		subtotal = subtotal.Add(item.SubtotalLocal)
	}
	return subtotal
}

// TaxTotal returns the sum of all line tax totals in local currency.
func (e *Engine) TaxTotal() types.Money {
	tax := types.Zero()
	for _, item := range e.items {
		tax = tax.Add(item.TaxTotalLocal)
	}
	return tax
}

// reprice recomputes every derived field from the unit price, quantity
// and exchange rate.
func (e *Engine) reprice(item *LineItem) {
	breakdown := pricing.DecomposeTax(item.UnitPriceWithTaxUSD)
	item.UnitPriceWithoutTaxUSD = breakdown.WithoutTax
	item.UnitTaxUSD = breakdown.Tax

	item.PriceWithoutTaxLocal = e.rate.ToLocal(breakdown.WithoutTax)
	item.TaxLocal = e.rate.ToLocal(breakdown.Tax)
	item.PriceWithTaxLocal = e.rate.ToLocal(breakdown.WithTax)

	qty := decimal.NewFromInt(int64(item.Quantity))
	item.SubtotalLocal = item.PriceWithoutTaxLocal.Mul(qty)
	item.TaxTotalLocal = item.TaxLocal.Mul(qty)
	item.TotalLocal = item.PriceWithTaxLocal.Mul(qty)
}
