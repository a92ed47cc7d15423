// Package expense implements the expense lifecycle: batch creation with
// payment-status derivation, the admin review workflow, and the daily
// read path.
package expense

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/apperr"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/cache"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/repository"
)

var dateKeyPattern = regexp.MustCompile(`^\d{8}$`)

type Service struct {
	expenses         *repository.ExpenseRepository
	supplierExpenses *repository.SupplierExpenseRepository
	cache            *cache.DailyCache
	log              *zap.Logger
}

func NewService(
	expenses *repository.ExpenseRepository,
	supplierExpenses *repository.SupplierExpenseRepository,
	dailyCache *cache.DailyCache,
	log *zap.Logger,
) *Service {
	return &Service{
		expenses:         expenses,
		supplierExpenses: supplierExpenses,
		cache:            dailyCache,
		log:              log,
	}
}

// CreateRecordInput is one candidate expense line. paymentStatus is not
// accepted from the client on creation; it is always derived.
type CreateRecordInput struct {
	TranDate    time.Time          `json:"tranDate" binding:"required"`
	ItemID      string             `json:"itemId" binding:"required"`
	SupplierID  string             `json:"supplierId" binding:"required"`
	EmployeeID  string             `json:"employeeId" binding:"required"`
	Quantity    float64            `json:"quantity" binding:"required,gt=0"`
	Amount      float64            `json:"amount" binding:"required,gt=0"`
	Invoice     float64            `json:"invoice" binding:"required,gt=0"`
	PaymentType models.PaymentType `json:"paymentType" binding:"required,oneof=CASH CHEQUE FONEPAY"`
	Comment     string             `json:"comment"`
}

type CreateBatchInput struct {
	EmployeeID string              `json:"employeeId" binding:"required"`
	Records    []CreateRecordInput `json:"records" binding:"required,min=1,dive"`
}

// EditRecordInput carries a full edited record including its review
// state. Nil review flags fall back to false at save time.
type EditRecordInput struct {
	ID            uuid.UUID            `json:"id" binding:"required"`
	TranDate      time.Time            `json:"tranDate" binding:"required"`
	ItemID        string               `json:"itemId" binding:"required"`
	SupplierID    string               `json:"supplierId" binding:"required"`
	EmployeeID    string               `json:"employeeId" binding:"required"`
	Quantity      float64              `json:"quantity" binding:"required,gt=0"`
	Amount        float64              `json:"amount" binding:"required,gt=0"`
	Invoice       float64              `json:"invoice" binding:"required,gt=0"`
	PaymentType   models.PaymentType   `json:"paymentType" binding:"required,oneof=CASH CHEQUE FONEPAY"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required,oneof=PAID PARTIAL CREDIT"`
	Comment       string               `json:"comment"`
	Reviewed      *bool                `json:"reviewed"`
	Accepted      *bool                `json:"accepted"`
}

type EditBatchInput struct {
	Records []EditRecordInput `json:"records" binding:"required,min=1,dive"`
}

// CreateExpenses validates the whole batch, derives each line's payment
// status and persists all lines atomically. One bad line fails the
// batch with no writes.
func (s *Service) CreateExpenses(ctx context.Context, in CreateBatchInput) error {
	if in.EmployeeID == "" {
		return apperr.Validation("employee is required.")
	}
	if len(in.Records) == 0 {
		return apperr.Validation("at least one expense record is required.")
	}

	expenses := make([]models.Expense, 0, len(in.Records))
	for _, record := range in.Records {
		if err := validateLine(record.ItemID, record.SupplierID, record.EmployeeID,
			record.Quantity, record.Amount, record.Invoice, record.PaymentType); err != nil {
			return err
		}
		expenses = append(expenses, models.Expense{
			ID:              uuid.New(),
			TransactionDate: record.TranDate,
			ItemID:          record.ItemID,
			SupplierID:      record.SupplierID,
			EmployeeID:      record.EmployeeID,
			Quantity:        record.Quantity,
			Amount:          record.Amount,
			Invoice:         record.Invoice,
			PaymentType:     record.PaymentType,
			PaymentStatus:   DerivePaymentStatus(record.Amount, record.Invoice),
			Comments:        record.Comment,
		})
	}

	if err := s.expenses.CreateBatch(ctx, expenses); err != nil {
		s.log.Error("failed to create expense batch", zap.Error(err), zap.Int("records", len(expenses)))
		return apperr.Persistence(err)
	}

	for _, key := range dateKeys(expenses) {
		s.cache.Invalidate(ctx, key)
	}
	s.log.Info("expense batch created",
		zap.Int("records", len(expenses)),
		zap.String("employee_id", in.EmployeeID))
	return nil
}

// EditExpenses saves a reviewed batch. Admin only. The submitted
// paymentStatus is persisted verbatim; editing amount or invoice does
// not recompute it.
func (s *Service) EditExpenses(ctx context.Context, in EditBatchInput, actor string, role models.UserRole) error {
	if role != models.RoleAdmin {
		return apperr.Unauthorized("Only admins are allowed to edit expenses.")
	}
	if len(in.Records) == 0 {
		return apperr.Validation("at least one expense record is required.")
	}

	records := make([]models.Expense, 0, len(in.Records))
	for _, record := range in.Records {
		if record.ID == uuid.Nil {
			return apperr.Validation("expense id is required.")
		}
		if err := validateLine(record.ItemID, record.SupplierID, record.EmployeeID,
			record.Quantity, record.Amount, record.Invoice, record.PaymentType); err != nil {
			return err
		}
		records = append(records, models.Expense{
			ID:              record.ID,
			TransactionDate: record.TranDate,
			ItemID:          record.ItemID,
			SupplierID:      record.SupplierID,
			EmployeeID:      record.EmployeeID,
			Quantity:        record.Quantity,
			Amount:          record.Amount,
			Invoice:         record.Invoice,
			PaymentType:     record.PaymentType,
			PaymentStatus:   record.PaymentStatus,
			Comments:        record.Comment,
			Reviewed:        record.Reviewed != nil && *record.Reviewed,
			Accepted:        record.Accepted != nil && *record.Accepted,
		})
	}

	prevDates, err := s.expenses.UpdateBatch(ctx, records, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("expense not found")
		}
		s.log.Error("failed to update expense batch", zap.Error(err), zap.Int("records", len(records)))
		return apperr.Persistence(err)
	}

	// An edit can move a record to another day, so both the day it left
	// and the day it landed on need their cached views dropped.
	for _, key := range editedDateKeys(records, prevDates) {
		s.cache.Invalidate(ctx, key)
	}
	s.log.Info("expense batch updated", zap.Int("records", len(records)), zap.String("actor", actor))
	return nil
}

// UnreviewedExpenses lists every pending record, newest first.
func (s *Service) UnreviewedExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses, err := s.expenses.FindUnreviewed(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// AcceptAll marks every unreviewed expense as reviewed and accepted.
func (s *Service) AcceptAll(ctx context.Context, actor string) (int64, error) {
	return s.reviewAll(ctx, true, actor)
}

// RejectAll marks every unreviewed expense as reviewed and not accepted.
func (s *Service) RejectAll(ctx context.Context, actor string) (int64, error) {
	return s.reviewAll(ctx, false, actor)
}

func (s *Service) reviewAll(ctx context.Context, accepted bool, actor string) (int64, error) {
	count, err := s.expenses.MarkAllReviewed(ctx, accepted, actor)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	s.cache.InvalidateAll(ctx)
	s.log.Info("bulk review applied",
		zap.Bool("accepted", accepted),
		zap.Int64("records", count),
		zap.String("actor", actor))
	return count, nil
}

// AcceptExpense approves a single record.
func (s *Service) AcceptExpense(ctx context.Context, id uuid.UUID, actor string) (*models.Expense, error) {
	return s.review(ctx, id, true, actor)
}

// RejectExpense rejects a single record.
func (s *Service) RejectExpense(ctx context.Context, id uuid.UUID, actor string) (*models.Expense, error) {
	return s.review(ctx, id, false, actor)
}

func (s *Service) review(ctx context.Context, id uuid.UUID, accepted bool, actor string) (*models.Expense, error) {
	expense, err := s.expenses.SetReviewState(ctx, id, accepted, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("expense not found")
		}
		return nil, apperr.Persistence(err)
	}
	s.cache.Invalidate(ctx, expense.TransactionDate.Format("20060102"))
	return expense, nil
}

// DailyExpenses returns the joined view for one YYYYMMDD date key. A
// malformed key is rejected before any database work. An empty day is a
// valid result, not an error.
func (s *Service) DailyExpenses(ctx context.Context, dateKey string) ([]models.DailyExpenseRow, error) {
	day, err := parseDateKey(dateKey)
	if err != nil {
		return nil, err
	}

	var rows []models.DailyExpenseRow
	if s.cache.Get(ctx, dateKey, &rows) {
		return rows, nil
	}

	rows, dbErr := s.expenses.FindByDay(ctx, day)
	if dbErr != nil {
		return nil, apperr.Persistence(dbErr)
	}
	if rows == nil {
		rows = []models.DailyExpenseRow{}
	}
	for i := range rows {
		rows[i].Status = models.ReviewStatusFromFlags(rows[i].Reviewed, rows[i].Accepted)
	}

	s.cache.Set(ctx, dateKey, rows)
	return rows, nil
}

func parseDateKey(dateKey string) (time.Time, error) {
	if !dateKeyPattern.MatchString(dateKey) {
		return time.Time{}, apperr.Validation("Invalid date format. Must be YYYYMMDD.")
	}
	day, err := time.Parse("20060102", dateKey)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date provided")
	}
	return day, nil
}

func validateLine(itemID, supplierID, employeeID string, quantity, amount, invoice float64, paymentType models.PaymentType) error {
	switch {
	case itemID == "":
		return apperr.Validation("item is required.")
	case supplierID == "":
		return apperr.Validation("supplier is required.")
	case employeeID == "":
		return apperr.Validation("employee is required.")
	case quantity <= 0:
		return apperr.Validation("quantity cannot be less than 1")
	case amount <= 0:
		return apperr.Validation("amount cannot be less than 1")
	case invoice <= 0:
		return apperr.Validation("invoice cannot be less than 1")
	case !paymentType.Valid():
		return apperr.Validation("invalid payment type")
	}
	return nil
}

func dateKeys(expenses []models.Expense) []string {
	seen := make(map[string]struct{}, len(expenses))
	keys := make([]string, 0, len(expenses))
	for _, e := range expenses {
		key := e.TransactionDate.Format("20060102")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// editedDateKeys is the deduplicated union of the records' new dates and
// the dates they held before the edit.
func editedDateKeys(records []models.Expense, prevDates []time.Time) []string {
	seen := make(map[string]struct{}, len(records)+len(prevDates))
	keys := make([]string, 0, len(records)+len(prevDates))
	add := func(day time.Time) {
		key := day.Format("20060102")
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for _, record := range records {
		add(record.TransactionDate)
	}
	for _, day := range prevDates {
		add(day)
	}
	return keys
}
