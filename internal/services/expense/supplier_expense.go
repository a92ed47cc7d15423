package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/apperr"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
)

// SupplierExpenseDetailInput is one item line on a supplier bill.
type SupplierExpenseDetailInput struct {
	ItemID           string  `json:"itemId" binding:"required"`
	QuantityReceived float64 `json:"quantityReceived" binding:"required,gt=0"`
	QuantityDamaged  float64 `json:"quantityDamaged" binding:"gte=0"`
	AmountPaid       float64 `json:"amountPaid" binding:"gte=0"`
	AmountPending    float64 `json:"amountPending" binding:"gte=0"`
	Comment          string  `json:"comment"`
}

type SupplierExpenseInput struct {
	TranDate      time.Time                    `json:"tranDate" binding:"required"`
	SupplierID    string                       `json:"supplierId" binding:"required"`
	PaymentType   models.PaymentType           `json:"paymentType" binding:"required,oneof=CASH CHEQUE FONEPAY"`
	PaidAmount    float64                      `json:"paidAmount" binding:"required,gt=0"`
	InvoiceAmount float64                      `json:"invoiceAmount" binding:"required,gt=0"`
	Comment       string                       `json:"comment"`
	Details       []SupplierExpenseDetailInput `json:"details" binding:"required,min=1,dive"`
}

// CreateSupplierExpense persists a supplier bill with its detail lines
// atomically. Payment status follows the same three-way derivation as
// employee expenses, on paid vs invoice amount.
func (s *Service) CreateSupplierExpense(ctx context.Context, in SupplierExpenseInput) error {
	switch {
	case in.SupplierID == "":
		return apperr.Validation("supplier is required.")
	case in.PaidAmount <= 0:
		return apperr.Validation("amount cannot be less than 1")
	case in.InvoiceAmount <= 0:
		return apperr.Validation("invoice cannot be less than 1")
	case !in.PaymentType.Valid():
		return apperr.Validation("invalid payment type")
	case len(in.Details) == 0:
		return apperr.Validation("at least one item is required.")
	}

	expenseID := uuid.New()
	details := make([]models.SupplierExpenseDetail, 0, len(in.Details))
	for _, d := range in.Details {
		if d.ItemID == "" {
			return apperr.Validation("item is required.")
		}
		if d.QuantityReceived <= 0 {
			return apperr.Validation("quantity cannot be less than 1")
		}
		details = append(details, models.SupplierExpenseDetail{
			ID:                uuid.New(),
			SupplierExpenseID: expenseID,
			ItemID:            d.ItemID,
			QuantityReceived:  d.QuantityReceived,
			QuantityDamaged:   d.QuantityDamaged,
			AmountPaid:        d.AmountPaid,
			AmountPending:     d.AmountPending,
			Comments:          d.Comment,
		})
	}

	bill := &models.SupplierExpense{
		ID:              expenseID,
		TransactionDate: in.TranDate,
		SupplierID:      in.SupplierID,
		PaymentType:     in.PaymentType,
		PaymentStatus:   DerivePaymentStatus(in.PaidAmount, in.InvoiceAmount),
		PaidAmount:      in.PaidAmount,
		InvoiceAmount:   in.InvoiceAmount,
		Comments:        in.Comment,
		Details:         details,
	}

	if err := s.supplierExpenses.Create(ctx, bill); err != nil {
		s.log.Error("failed to create supplier expense", zap.Error(err), zap.String("supplier_id", in.SupplierID))
		return apperr.Persistence(err)
	}
	s.log.Info("supplier expense created",
		zap.String("supplier_id", in.SupplierID),
		zap.Int("details", len(details)))
	return nil
}

// DailySupplierExpenses returns supplier bills for one YYYYMMDD date key.
func (s *Service) DailySupplierExpenses(ctx context.Context, dateKey string) ([]models.SupplierExpenseRow, error) {
	day, err := parseDateKey(dateKey)
	if err != nil {
		return nil, err
	}

	rows, dbErr := s.supplierExpenses.FindByDay(ctx, day)
	if dbErr != nil {
		return nil, apperr.Persistence(dbErr)
	}
	if rows == nil {
		rows = []models.SupplierExpenseRow{}
	}
	return rows, nil
}
