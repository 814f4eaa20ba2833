package models

import "time"

// CardAccount is the persisted snapshot of one tracked credit card.
// StatementBalance is nullable: a card with no recorded statement defaults
// to its used limit when simulated.
type CardAccount struct {
	ID                    int64     `json:"id"`
	UserID                int64     `json:"user_id"`
	Name                  string    `json:"name"`
	UsedLimit             float64   `json:"used_limit"`
	StatementBalance      *float64  `json:"statement_balance"`
	PendingCharges        float64   `json:"pending_charges"`
	SpendPerMonth         float64   `json:"spend_per_month"`
	MinimumPayment        float64   `json:"minimum_payment"`
	MinimumPaymentType    string    `json:"minimum_payment_type"`
	MinimumPaymentPercent float64   `json:"minimum_payment_percent"`
	ExtraPayment          float64   `json:"extra_payment"`
	InterestRate          float64   `json:"interest_rate"`
	DueDay                int       `json:"due_day"`
	LastCycleAt           time.Time `json:"last_cycle_at"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
