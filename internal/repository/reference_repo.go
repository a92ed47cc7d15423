package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
)

// ReferenceRepository reads the master-data tables the expense forms
// select from. All lookups are read-only.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) SupplierNamesAndIDs(ctx context.Context) ([]models.NameAndID, error) {
	var out []models.NameAndID
	err := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Select("id, supplier_name as name").
		Order("id asc").
		Scan(&out).Error
	return out, err
}

func (r *ReferenceRepository) ItemNamesAndIDs(ctx context.Context) ([]models.NameAndID, error) {
	var out []models.NameAndID
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("id, item_desc as name").
		Order("id asc").
		Scan(&out).Error
	return out, err
}

func (r *ReferenceRepository) EmployeeNamesAndIDs(ctx context.Context) ([]models.NameAndID, error) {
	var out []models.NameAndID
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Select("id, name").
		Order("name asc").
		Scan(&out).Error
	return out, err
}
