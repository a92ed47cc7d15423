package expense_test

import (
	"testing"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/services/expense"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		invoice float64
		want    models.PaymentStatus
	}{
		{"paid less than invoice", 90, 100, models.PaymentStatusPartial},
		{"paid more than invoice", 110, 100, models.PaymentStatusCredit},
		{"paid exactly invoice", 100, 100, models.PaymentStatusPaid},
		{"tiny underpayment", 99.99, 100, models.PaymentStatusPartial},
		{"tiny overpayment", 100.01, 100, models.PaymentStatusCredit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expense.DerivePaymentStatus(tt.amount, tt.invoice); got != tt.want {
				t.Errorf("DerivePaymentStatus(%v, %v) = %v, want %v", tt.amount, tt.invoice, got, tt.want)
			}
		})
	}
}
