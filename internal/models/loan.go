package models

import "time"

// Loan is the persisted snapshot of one tracked loan. The stated minimum
// payment is due on PaymentCadence; subscription fields model fixed-fee
// plans with a remaining payment count.
type Loan struct {
	ID                       int64     `json:"id"`
	UserID                   int64     `json:"user_id"`
	Name                     string    `json:"name"`
	PrincipalOutstanding     float64   `json:"principal_outstanding"`
	InterestOutstanding      float64   `json:"interest_outstanding"`
	MinimumPayment           float64   `json:"minimum_payment"`
	InterestRate             float64   `json:"interest_rate"`
	PaymentCadence           string    `json:"payment_cadence"`
	CustomInterval           int       `json:"custom_interval"`
	CustomUnit               string    `json:"custom_unit"`
	ExtraPayment             float64   `json:"extra_payment"`
	DueDay                   int       `json:"due_day"`
	SubscriptionCost         float64   `json:"subscription_cost"`
	SubscriptionPaymentsLeft int       `json:"subscription_payments_left"`
	LastCycleAt              time.Time `json:"last_cycle_at"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// Outstanding is the loan's total interest-bearing balance.
func (l Loan) Outstanding() float64 {
	return l.PrincipalOutstanding + l.InterestOutstanding
}
