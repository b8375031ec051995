package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is rental contract lifecycle state
type ContractStatus string

const (
	ContractDraft     ContractStatus = "DRAFT"
	ContractActive    ContractStatus = "ACTIVE"
	ContractCompleted ContractStatus = "COMPLETED"
	ContractCancelled ContractStatus = "CANCELLED"
)

// IsOpen reports whether contract still binds the customer
func (s ContractStatus) IsOpen() bool {
	return s == ContractDraft || s == ContractActive
}

// PaymentStatus is payment processing state
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment is single payment made against contract
type Payment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Status PaymentStatus   `json:"status"`
}

// Damage is damage record reported on contract
type Damage struct {
	ID            string           `json:"id"`
	EstimatedCost *decimal.Decimal `json:"estimatedCost"`
	ActualCost    *decimal.Decimal `json:"actualCost"`
	Status        string           `json:"status"`
}

// Cost returns actual cost, falling back to estimated cost, then zero
func (d Damage) Cost() decimal.Decimal {
	if d.ActualCost != nil {
		return *d.ActualCost
	}
	if d.EstimatedCost != nil {
		return *d.EstimatedCost
	}
	return decimal.Zero
}

// Contract is rental contract with its payments and damages
type Contract struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customerId"`
	Status      ContractStatus  `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	StartDate   time.Time       `json:"startDate"`
	Payments    []Payment       `json:"payments"`
	Damages     []Damage        `json:"damages"`
}

// CompletedPayments sums amounts of completed payments
func (c Contract) CompletedPayments() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range c.Payments {
		if p.Status == PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}
