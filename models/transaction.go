package models

import "time"

type TxKind string

const (
	TxReceive         TxKind = "receive"
	TxSend            TxKind = "send"
	TxSwap            TxKind = "swap"
	TxConvert         TxKind = "convert"
	TxBuy             TxKind = "buy"
	TxAdminAdjustment TxKind = "admin_adjustment"
	TxFeeCollection   TxKind = "fee_collection"
	TxP2PBuy          TxKind = "p2p_buy"
	TxP2PSell         TxKind = "p2p_sell"
	TxWireDeposit     TxKind = "wire_deposit"
)

type TxStatus string

const (
	TxCompleted TxStatus = "completed"
	TxPending   TxStatus = "pending"
	TxFailed    TxStatus = "failed"
)

// Transaction is an entry of a user's append-only log, newest first.
type Transaction struct {
	ID           string    `json:"id" db:"id"`
	Type         TxKind    `json:"type" db:"type"`
	Asset        string    `json:"asset" db:"asset"`
	Amount       float64   `json:"amount" db:"amount"`
	Date         time.Time `json:"date" db:"date"`
	Status       TxStatus  `json:"status" db:"status"`
	Counterparty string    `json:"counterparty,omitempty" db:"counterparty"`
	Description  string    `json:"description,omitempty" db:"description"`
}

type SendInput struct {
	Asset     string  `json:"asset" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	ToAddress string  `json:"to_address" binding:"required"`
}
