package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReviewAuditLog records one review-state transition on one expense.
type ReviewAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExpenseID    uuid.UUID `gorm:"type:uuid;index"`
	Action       string    `gorm:"size:32"` // accept / reject / save
	PrevReviewed bool
	PrevAccepted bool
	NewReviewed  bool
	NewAccepted  bool
	PerformedBy  string
	Details      datatypes.JSON
	CreatedAt    time.Time
}
