// Package export renders a user's tracked accounts and payment history as an
// XML document suitable for download and offline analysis.
package export

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/paydown/finance-tracker/internal/models"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// BuildUserExport serializes the user's cards, loans and loan events into an
// indented XML document.
func BuildUserExport(user *models.User, cards []models.CardAccount, loans []models.Loan, events []models.LoanEvent) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("FinanceExport")
	root.CreateAttr("GeneratedAt", formatDate(time.Now()))

	userEl := root.CreateElement("User")
	userEl.CreateAttr("ID", strconv.FormatInt(user.ID, 10))
	userEl.CreateElement("Email").SetText(user.Email)
	userEl.CreateElement("Username").SetText(user.Username)

	cardsEl := root.CreateElement("CardAccounts")
	for _, card := range cards {
		el := cardsEl.CreateElement("CardAccount")
		el.CreateAttr("ID", strconv.FormatInt(card.ID, 10))
		el.CreateElement("Name").SetText(card.Name)
		el.CreateElement("UsedLimit").SetText(formatAmount(card.UsedLimit))
		if card.StatementBalance != nil {
			el.CreateElement("StatementBalance").SetText(formatAmount(*card.StatementBalance))
		}
		el.CreateElement("PendingCharges").SetText(formatAmount(card.PendingCharges))
		el.CreateElement("SpendPerMonth").SetText(formatAmount(card.SpendPerMonth))
		el.CreateElement("MinimumPayment").SetText(formatAmount(card.MinimumPayment))
		el.CreateElement("MinimumPaymentType").SetText(card.MinimumPaymentType)
		el.CreateElement("InterestRate").SetText(formatAmount(card.InterestRate))
		el.CreateElement("DueDay").SetText(strconv.Itoa(card.DueDay))
		el.CreateElement("LastCycleAt").SetText(formatDate(card.LastCycleAt))
	}

	loansEl := root.CreateElement("Loans")
	for _, loan := range loans {
		el := loansEl.CreateElement("Loan")
		el.CreateAttr("ID", strconv.FormatInt(loan.ID, 10))
		el.CreateElement("Name").SetText(loan.Name)
		el.CreateElement("PrincipalOutstanding").SetText(formatAmount(loan.PrincipalOutstanding))
		el.CreateElement("InterestOutstanding").SetText(formatAmount(loan.InterestOutstanding))
		el.CreateElement("MinimumPayment").SetText(formatAmount(loan.MinimumPayment))
		el.CreateElement("InterestRate").SetText(formatAmount(loan.InterestRate))
		el.CreateElement("PaymentCadence").SetText(loan.PaymentCadence)
		if loan.PaymentCadence == "custom" {
			el.CreateElement("CustomInterval").SetText(strconv.Itoa(loan.CustomInterval))
			el.CreateElement("CustomUnit").SetText(loan.CustomUnit)
		}
		el.CreateElement("ExtraPayment").SetText(formatAmount(loan.ExtraPayment))
		el.CreateElement("DueDay").SetText(strconv.Itoa(loan.DueDay))
		if loan.SubscriptionCost > 0 {
			el.CreateElement("SubscriptionCost").SetText(formatAmount(loan.SubscriptionCost))
			el.CreateElement("SubscriptionPaymentsLeft").SetText(strconv.Itoa(loan.SubscriptionPaymentsLeft))
		}
		el.CreateElement("LastCycleAt").SetText(formatDate(loan.LastCycleAt))
	}

	eventsEl := root.CreateElement("LoanEvents")
	for _, ev := range events {
		el := eventsEl.CreateElement("LoanEvent")
		el.CreateAttr("ID", ev.ID)
		el.CreateAttr("LoanID", strconv.FormatInt(ev.LoanID, 10))
		el.CreateElement("Type").SetText(ev.Type)
		el.CreateElement("Amount").SetText(formatAmount(ev.Amount))
		el.CreateElement("OccurredAt").SetText(formatDate(ev.OccurredAt))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
