package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// CreateBatch inserts all expense rows as one atomic set.
func (r *ExpenseRepository) CreateBatch(ctx context.Context, expenses []models.Expense) error {
	return r.db.WithContext(ctx).Create(&expenses).Error
}

// GetByID fetch a single expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// FindUnreviewed returns all unreviewed expenses, newest first.
func (r *ExpenseRepository) FindUnreviewed(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("reviewed = ?", false).
		Order("created_at desc").
		Find(&expenses).Error
	return expenses, err
}

// UpdateBatch persists each record's current field values and review
// state in one transaction; the whole set succeeds or fails together.
// No version check is made: concurrent reviews are last-writer-wins.
// An audit row is appended per record inside the same transaction.
// The returned dates are each record's transaction date before the
// update, so callers can invalidate the day a record was moved off of.
func (r *ExpenseRepository) UpdateBatch(ctx context.Context, records []models.Expense, performedBy string) ([]time.Time, error) {
	prevDates := make([]time.Time, 0, len(records))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			var prev models.Expense
			if err := tx.First(&prev, "id = ?", record.ID).Error; err != nil {
				return err
			}
			prevDates = append(prevDates, prev.TransactionDate)

			err := tx.Model(&models.Expense{}).
				Where("id = ?", record.ID).
				Updates(map[string]interface{}{
					"transaction_date": record.TransactionDate,
					"item_id":          record.ItemID,
					"supplier_id":      record.SupplierID,
					"employee_id":      record.EmployeeID,
					"quantity":         record.Quantity,
					"amount":           record.Amount,
					"invoice":          record.Invoice,
					"payment_type":     record.PaymentType,
					"payment_status":   record.PaymentStatus,
					"comments":         record.Comments,
					"reviewed":         record.Reviewed,
					"accepted":         record.Accepted,
				}).Error
			if err != nil {
				return err
			}

			if err := tx.Create(auditRow(&prev, &record, "save", performedBy)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prevDates, nil
}

// SetReviewState flips the (reviewed, accepted) pair on one expense and
// returns the updated row.
func (r *ExpenseRepository) SetReviewState(ctx context.Context, id uuid.UUID, accepted bool, performedBy string) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&expense, "id = ?", id).Error; err != nil {
			return err
		}
		prev := expense

		err := tx.Model(&models.Expense{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"reviewed": true, "accepted": accepted}).Error
		if err != nil {
			return err
		}
		expense.Reviewed = true
		expense.Accepted = accepted

		action := "reject"
		if accepted {
			action = "accept"
		}
		return tx.Create(auditRow(&prev, &expense, action, performedBy)).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// MarkAllReviewed reviews every pending expense in one transaction and
// reports how many rows were touched. Like the per-record path, each
// transitioned record gets its own audit row.
func (r *ExpenseRepository) MarkAllReviewed(ctx context.Context, accepted bool, performedBy string) (int64, error) {
	action := "reject-all"
	if accepted {
		action = "accept-all"
	}

	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []models.Expense
		if err := tx.Where("reviewed = ?", false).Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		result := tx.Model(&models.Expense{}).
			Where("reviewed = ?", false).
			Updates(map[string]interface{}{"reviewed": true, "accepted": accepted})
		if result.Error != nil {
			return result.Error
		}
		count = result.RowsAffected

		for i := range pending {
			next := pending[i]
			next.Reviewed = true
			next.Accepted = accepted
			if err := tx.Create(auditRow(&pending[i], &next, action, performedBy)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return count, err
}

// FindByDay returns the joined daily view for the half-open interval
// [day, day+24h), most recently updated first. This is equivalent to the
// YYYYMMDD truncation on transaction_date and can use its index.
func (r *ExpenseRepository) FindByDay(ctx context.Context, day time.Time) ([]models.DailyExpenseRow, error) {
	next := day.Add(24 * time.Hour)

	var rows []models.DailyExpenseRow
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select(`expenses.id,
			expenses.transaction_date as tran_date,
			expenses.supplier_id,
			suppliers.supplier_name,
			expenses.employee_id,
			employees.name as employee_name,
			expenses.item_id,
			items.item_desc as item_name,
			expenses.quantity,
			expenses.amount,
			expenses.invoice,
			expenses.payment_type,
			expenses.payment_status,
			expenses.comments,
			expenses.created_at,
			expenses.reviewed,
			expenses.accepted`).
		Joins("inner join suppliers on expenses.supplier_id = suppliers.id").
		Joins("inner join items on expenses.item_id = items.id").
		Joins("inner join employees on expenses.employee_id = employees.id").
		Where("expenses.transaction_date >= ? AND expenses.transaction_date < ?", day, next).
		Order("expenses.updated_at desc").
		Scan(&rows).Error
	return rows, err
}

func auditRow(prev, next *models.Expense, action, performedBy string) *models.ReviewAuditLog {
	details, _ := json.Marshal(map[string]interface{}{
		"amount":         next.Amount,
		"invoice":        next.Invoice,
		"payment_status": next.PaymentStatus,
	})
	return &models.ReviewAuditLog{
		ID:           uuid.New(),
		ExpenseID:    next.ID,
		Action:       action,
		PrevReviewed: prev.Reviewed,
		PrevAccepted: prev.Accepted,
		NewReviewed:  next.Reviewed,
		NewAccepted:  next.Accepted,
		PerformedBy:  performedBy,
		Details:      datatypes.JSON(details),
		CreatedAt:    time.Now(),
	}
}
