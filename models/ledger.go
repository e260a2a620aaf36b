package models

type ConvertRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	From   string  `json:"from" binding:"required"` // source symbol, e.g. "BTC"
	To     string  `json:"to" binding:"required"`   // target symbol, e.g. "ETH"
}

type ConvertResult struct {
	From         string      `json:"from"`
	To           string      `json:"to"`
	Amount       float64     `json:"amount"`
	ExchangeRate float64     `json:"exchangeRate"`
	GrossOutput  float64     `json:"grossOutput"`
	NetOutput    float64     `json:"netOutput"`
	FeePercent   float64     `json:"feePercent"`
	FeeUSD       float64     `json:"feeUsd"`
	Transaction  Transaction `json:"transaction"`
}

type PaymentMethod string

const (
	PayCard   PaymentMethod = "card"
	PayOnRamp PaymentMethod = "onramp"
	PayWire   PaymentMethod = "wire"
)

type BuyRequest struct {
	Asset    string        `json:"asset" binding:"required"`
	Amount   float64       `json:"amount" binding:"required"`
	Method   PaymentMethod `json:"method" binding:"required,oneof=card onramp wire"`
	Provider string        `json:"provider"` // on-ramp partner name
}

type BuyQuote struct {
	Asset        string        `json:"asset"`
	Amount       float64       `json:"amount"`
	Price        float64       `json:"price"`
	Cost         float64       `json:"cost"`
	FeePercent   float64       `json:"feePercent"`
	Fee          float64       `json:"fee"`
	Total        float64       `json:"total"`
	TotalDisplay string        `json:"totalDisplay"`
	Method       PaymentMethod `json:"method"`
}

type BuyResult struct {
	Quote       BuyQuote    `json:"quote"`
	Transaction Transaction `json:"transaction"`
}

type AdjustInput struct {
	UserID  string  `json:"user_id" binding:"required"`
	Asset   string  `json:"asset" binding:"required"`
	Balance float64 `json:"balance"`
}

type EnableInput struct {
	Asset string `json:"asset" binding:"required"`
}
