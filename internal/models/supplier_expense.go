package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierExpense is a bill received from a supplier, with per-item
// detail lines. Header and details are persisted together.
type SupplierExpense struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionDate time.Time               `gorm:"column:transaction_date;index" json:"tranDate"`
	SupplierID      string                  `gorm:"index" json:"supplierId"`
	PaymentType     PaymentType             `gorm:"size:16" json:"paymentType"`
	PaymentStatus   PaymentStatus           `gorm:"size:16" json:"paymentStatus"`
	PaidAmount      float64                 `json:"paidAmount"`
	InvoiceAmount   float64                 `json:"invoiceAmount"`
	Comments        string                  `json:"comments"`
	Details         []SupplierExpenseDetail `gorm:"foreignKey:SupplierExpenseID" json:"details"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type SupplierExpenseDetail struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierExpenseID uuid.UUID `gorm:"type:uuid;index" json:"supplierExpenseId"`
	ItemID            string    `json:"itemId"`
	QuantityReceived  float64   `json:"quantityReceived"`
	QuantityDamaged   float64   `json:"quantityDamaged"`
	AmountPaid        float64   `json:"amountPaid"`
	AmountPending     float64   `json:"amountPending"`
	Comments          string    `json:"comments"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SupplierExpenseRow is the daily read model for supplier bills.
type SupplierExpenseRow struct {
	ID            uuid.UUID     `json:"id"`
	TranDate      time.Time     `json:"tranDate"`
	SupplierID    string        `json:"supplierId"`
	SupplierName  string        `json:"supplierName"`
	PaymentType   PaymentType   `json:"paymentType"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaidAmount    float64       `json:"paidAmount"`
	InvoiceAmount float64       `json:"invoiceAmount"`
	Comments      string        `json:"comments"`
	CreatedAt     time.Time     `json:"createdAt"`
}
