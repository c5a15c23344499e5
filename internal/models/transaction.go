package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// TransactionStatus is a transaction's position in the approval lifecycle.
// Status only ever moves forward: PENDING is never reachable again once left,
// and APPROVED and REJECTED are terminal.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusVerified TransactionStatus = "VERIFIED"
	StatusApproved TransactionStatus = "APPROVED"
	StatusRejected TransactionStatus = "REJECTED"
)

// PaymentChannel is the payment source a transaction moved through.
type PaymentChannel string

const (
	ChannelCash  PaymentChannel = "Cash"
	ChannelBank  PaymentChannel = "Bank"
	ChannelBkash PaymentChannel = "Bkash"
	ChannelNagad PaymentChannel = "Nagad"
)

// PaymentChannels lists the fixed four channels.
var PaymentChannels = []PaymentChannel{ChannelCash, ChannelBank, ChannelBkash, ChannelNagad}

// CategoryRequisition marks internal fund transfers. Requisition entries go
// through the normal lifecycle and stay visible in the ledger, but are
// excluded from all income/expense aggregation.
const CategoryRequisition = "Requisition"

// Transaction is the central ledger entity. UserID and CreatedBy are set once
// at creation and never change, even if the submitting user is later edited
// or deleted. Type and Amount are immutable; only Status may change.
type Transaction struct {
	Base
	UserID      string            `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedBy   string            `gorm:"not null" json:"created_by"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Status      TransactionStatus `gorm:"not null;index" json:"status"`
	Amount      decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Category    string            `gorm:"not null;index" json:"category"`
	SubCategory string            `json:"sub_category,omitempty"`
	Channel     PaymentChannel    `gorm:"not null" json:"channel"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Note        string            `json:"note"`
}
