package dto

// SetExchangeRateRequest replaces the global exchange rate.
type SetExchangeRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

// ExchangeRateResponse is the current conversion rate.
type ExchangeRateResponse struct {
	Rate string `json:"rate"`
}
