package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
)

type SupplierExpenseRepository struct {
	db *gorm.DB
}

func NewSupplierExpenseRepository(db *gorm.DB) *SupplierExpenseRepository {
	return &SupplierExpenseRepository{db: db}
}

// Create persists the bill header and its detail lines together; gorm
// inserts the association rows in the same transaction.
func (r *SupplierExpenseRepository) Create(ctx context.Context, expense *models.SupplierExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *SupplierExpenseRepository) FindByDay(ctx context.Context, day time.Time) ([]models.SupplierExpenseRow, error) {
	next := day.Add(24 * time.Hour)

	var rows []models.SupplierExpenseRow
	err := r.db.WithContext(ctx).
		Table("supplier_expenses").
		Select(`supplier_expenses.id,
			supplier_expenses.transaction_date as tran_date,
			supplier_expenses.supplier_id,
			suppliers.supplier_name,
			supplier_expenses.payment_type,
			supplier_expenses.payment_status,
			supplier_expenses.paid_amount,
			supplier_expenses.invoice_amount,
			supplier_expenses.comments,
			supplier_expenses.created_at`).
		Joins("inner join suppliers on supplier_expenses.supplier_id = suppliers.id").
		Where("supplier_expenses.transaction_date >= ? AND supplier_expenses.transaction_date < ?", day, next).
		Order("supplier_expenses.updated_at desc").
		Scan(&rows).Error
	return rows, err
}
