package domain

import "time"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	// OutcomePending is reserved for asynchronous settlement and is never written today.
	OutcomePending Outcome = "pending"
)

type SettlementKind string

const (
	KindTollPayment    SettlementKind = "toll_payment"
	KindWalletRecharge SettlementKind = "wallet_recharge"
)

const (
	RemarkTollPaid          = "Toll paid successfully"
	RemarkInsufficientFunds = "Insufficient wallet balance"
	RemarkWalletRecharge    = "Wallet recharge"
)

// SettlementRecord is an append-only ledger entry. Empty VehicleID or ZoneID
// are stored as NULL.
type SettlementRecord struct {
	ID        string         `json:"id"`
	VehicleID string         `json:"vehicleID,omitempty"`
	AccountID string         `json:"accountID"`
	ZoneID    string         `json:"zoneID,omitempty"`
	Amount    Money          `json:"amount"`
	Outcome   Outcome        `json:"status"`
	Kind      SettlementKind `json:"transactionType"`
	Location  Coordinate     `json:"location"`
	Timestamp time.Time      `json:"timestamp"`
	Remark    string         `json:"remarks"`
}

type LedgerStats struct {
	Total        int64 `json:"totalTransactions"`
	Successful   int64 `json:"successfulTransactions"`
	Failed       int64 `json:"failedTransactions"`
	TotalRevenue Money `json:"totalRevenue"`
	TodayRevenue Money `json:"todayRevenue"`
}

// RevenueDay is the successful toll revenue booked on one UTC calendar day.
type RevenueDay struct {
	Date  string `json:"date"`
	Total Money  `json:"total"`
	Count int64  `json:"count"`
}

// RevenueRange bounds a revenue query. A nil end is open; To is exclusive.
type RevenueRange struct {
	From *time.Time
	To   *time.Time
}
