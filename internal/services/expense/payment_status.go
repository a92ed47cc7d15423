package expense

import "github.com/bagaichadharanadm/bagaicha-dharan/internal/models"

// DerivePaymentStatus compares the amount paid against the invoice
// amount. The three branches are exhaustive: equality is its own case.
func DerivePaymentStatus(amount, invoice float64) models.PaymentStatus {
	switch {
	case amount < invoice:
		return models.PaymentStatusPartial
	case amount > invoice:
		return models.PaymentStatusCredit
	default:
		return models.PaymentStatusPaid
	}
}
