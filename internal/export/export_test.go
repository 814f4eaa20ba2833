package export_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown/finance-tracker/internal/export"
	"github.com/paydown/finance-tracker/internal/models"
)

func TestBuildUserExport(t *testing.T) {
	statement := 950.0
	user := &models.User{ID: 3, Email: "sam@example.com", Username: "sam"}
	cards := []models.CardAccount{{
		ID:                 11,
		Name:               "Everyday card",
		UsedLimit:          1000,
		StatementBalance:   &statement,
		MinimumPayment:     50,
		MinimumPaymentType: "fixed",
		InterestRate:       24,
		DueDay:             15,
		LastCycleAt:        time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
	}}
	loans := []models.Loan{{
		ID:                   21,
		Name:                 "Car loan",
		PrincipalOutstanding: 8000,
		InterestOutstanding:  120,
		MinimumPayment:       250,
		InterestRate:         9.5,
		PaymentCadence:       "monthly",
		DueDay:               5,
		LastCycleAt:          time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC),
	}}
	events := []models.LoanEvent{{
		ID:         "e1",
		LoanID:     21,
		Type:       models.LoanEventPayment,
		Amount:     250,
		OccurredAt: time.Date(2026, time.July, 5, 12, 0, 0, 0, time.UTC),
	}}

	data, err := export.BuildUserExport(user, cards, loans, events)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("FinanceExport")
	require.NotNil(t, root)

	userEl := root.SelectElement("User")
	require.NotNil(t, userEl)
	assert.Equal(t, "3", userEl.SelectAttrValue("ID", ""))
	assert.Equal(t, "sam@example.com", userEl.SelectElement("Email").Text())

	cardEls := root.SelectElement("CardAccounts").SelectElements("CardAccount")
	require.Len(t, cardEls, 1)
	assert.Equal(t, "950.00", cardEls[0].SelectElement("StatementBalance").Text())
	assert.Equal(t, "fixed", cardEls[0].SelectElement("MinimumPaymentType").Text())

	loanEls := root.SelectElement("Loans").SelectElements("Loan")
	require.Len(t, loanEls, 1)
	assert.Equal(t, "8000.00", loanEls[0].SelectElement("PrincipalOutstanding").Text())
	// Monthly cadence carries no custom interval fields.
	assert.Nil(t, loanEls[0].SelectElement("CustomInterval"))
	// No subscription plan, so the subscription fields are omitted.
	assert.Nil(t, loanEls[0].SelectElement("SubscriptionCost"))

	eventEls := root.SelectElement("LoanEvents").SelectElements("LoanEvent")
	require.Len(t, eventEls, 1)
	assert.Equal(t, "21", eventEls[0].SelectAttrValue("LoanID", ""))
	assert.Equal(t, "payment", eventEls[0].SelectElement("Type").Text())
	assert.Equal(t, "2026-07-05T12:00:00Z", eventEls[0].SelectElement("OccurredAt").Text())
}

func TestBuildUserExportEmptyPortfolio(t *testing.T) {
	user := &models.User{ID: 1, Email: "empty@example.com", Username: "empty"}

	data, err := export.BuildUserExport(user, nil, nil, nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("FinanceExport")
	require.NotNil(t, root)
	assert.NotNil(t, root.SelectElement("CardAccounts"))
	assert.NotNil(t, root.SelectElement("Loans"))
	assert.NotNil(t, root.SelectElement("LoanEvents"))
}
