package models

import "time"

type KYCRequestStatus string

const (
	KYCRequestPending  KYCRequestStatus = "pending"
	KYCRequestApproved KYCRequestStatus = "approved"
	KYCRequestRejected KYCRequestStatus = "rejected"
)

// KYCRequest stores uploaded documents inline as base64.
type KYCRequest struct {
	ID                string           `json:"id"`
	UserID            string           `json:"userId"`
	UserEmail         string           `json:"userEmail"`
	IDDocumentName    string           `json:"idDocumentName" binding:"required"`
	ProofDocumentName string           `json:"proofDocumentName" binding:"required"`
	IDDocumentData    string           `json:"idDocumentData,omitempty"`
	ProofDocumentData string           `json:"proofDocumentData,omitempty"`
	SubmittedAt       time.Time        `json:"submittedAt"`
	Status            KYCRequestStatus `json:"status"`
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

type SupportTicket struct {
	ID            string         `json:"id"`
	UserEmail     string         `json:"user_email"`
	Subject       string         `json:"subject"`
	Message       string         `json:"message"`
	Status        TicketStatus   `json:"status"`
	Priority      TicketPriority `json:"priority"`
	CreatedAt     time.Time      `json:"created_at"`
	AdminResponse string         `json:"admin_response,omitempty"`
}

type TicketInput struct {
	Subject  string         `json:"subject" binding:"required"`
	Message  string         `json:"message" binding:"required"`
	Priority TicketPriority `json:"priority"`
}

type TicketUpdate struct {
	Status        *TicketStatus   `json:"status"`
	Priority      *TicketPriority `json:"priority"`
	AdminResponse *string         `json:"admin_response"`
}

type P2POffer struct {
	ID           string  `json:"id"`
	SellerName   string  `json:"seller_name"`
	Asset        string  `json:"asset"`
	Amount       float64 `json:"amount"`
	PricePerUnit float64 `json:"price_per_unit"`
	TotalPrice   float64 `json:"total_price"`
	Type         string  `json:"type"` // buy or sell, from the taker's side
	Completed    bool    `json:"completed"`
	TrustScore   int     `json:"trust_score"`
}

// DefaultOffers seeds an empty marketplace.
var DefaultOffers = []P2POffer{
	{ID: "p2p1", SellerName: "CryptoKing99", Asset: "BTC", Amount: 0.1, PricePerUnit: 63000, TotalPrice: 6300, Type: "buy", TrustScore: 98},
	{ID: "p2p2", SellerName: "AliceWonder", Asset: "ETH", Amount: 2.0, PricePerUnit: 3400, TotalPrice: 6800, Type: "buy", TrustScore: 95},
	{ID: "p2p3", SellerName: "FastTraderX", Asset: "SOL", Amount: 50, PricePerUnit: 145, TotalPrice: 7250, Type: "buy", TrustScore: 88},
}
