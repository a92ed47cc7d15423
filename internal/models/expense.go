package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypeCash    PaymentType = "CASH"
	PaymentTypeCheque  PaymentType = "CHEQUE"
	PaymentTypeFonepay PaymentType = "FONEPAY"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCheque, PaymentTypeFonepay:
		return true
	}
	return false
}

// PaymentStatus is derived from comparing the amount paid against the
// invoice amount. It is computed once at creation and never recomputed
// on edit.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusCredit  PaymentStatus = "CREDIT"
)

// ReviewStatus is the 3-state label encoded by the (reviewed, accepted)
// flag pair.
type ReviewStatus string

const (
	ReviewStatusApproved    ReviewStatus = "APPROVED"
	ReviewStatusRejected    ReviewStatus = "REJECTED"
	ReviewStatusNotReviewed ReviewStatus = "NOT REVIEWED"
)

func ReviewStatusFromFlags(reviewed, accepted bool) ReviewStatus {
	if !reviewed {
		return ReviewStatusNotReviewed
	}
	if accepted {
		return ReviewStatusApproved
	}
	return ReviewStatusRejected
}

// Expense is one employee-submitted expense line. Rejection is a review
// state, not a deletion; rows are never removed.
type Expense struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionDate time.Time     `gorm:"column:transaction_date;index" json:"tranDate"`
	ItemID          string        `gorm:"index" json:"itemId"`
	SupplierID      string        `gorm:"index" json:"supplierId"`
	EmployeeID      string        `gorm:"index" json:"employeeId"`
	Quantity        float64       `json:"quantity"`
	Amount          float64       `json:"amount"`
	Invoice         float64       `json:"invoice"`
	PaymentType     PaymentType   `gorm:"size:16" json:"paymentType"`
	PaymentStatus   PaymentStatus `gorm:"size:16;index" json:"paymentStatus"`
	Comments        string        `json:"comments"`
	Reviewed        bool          `gorm:"default:false;index" json:"reviewed"`
	Accepted        bool          `gorm:"default:false" json:"accepted"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (e *Expense) ReviewStatus() ReviewStatus {
	return ReviewStatusFromFlags(e.Reviewed, e.Accepted)
}

// DailyExpenseRow is the read model for the daily view: one expense
// joined with its supplier, item and employee display names.
type DailyExpenseRow struct {
	ID            uuid.UUID     `json:"id"`
	TranDate      time.Time     `json:"tranDate"`
	SupplierID    string        `json:"supplierId"`
	SupplierName  string        `json:"supplierName"`
	EmployeeID    string        `json:"employeeId"`
	EmployeeName  string        `json:"employeeName"`
	ItemID        string        `json:"itemId"`
	ItemName      string        `json:"itemName"`
	Quantity      float64       `json:"quantity"`
	Amount        float64       `json:"amount"`
	Invoice       float64       `json:"invoice"`
	PaymentType   PaymentType   `json:"paymentType"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Comments      string        `json:"comments"`
	CreatedAt     time.Time     `json:"createdAt"`
	Reviewed      bool          `json:"-"`
	Accepted      bool          `json:"-"`
	Status        ReviewStatus  `gorm:"-" json:"status"`
}
