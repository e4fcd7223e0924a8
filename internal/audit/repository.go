package audit

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ailetic/entity"
)

// Repository persists compute records.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the compute_records table.
func (r *Repository) Migrate(ctx context.Context) error {
	return errors.Wrap(r.db.WithContext(ctx).AutoMigrate(&entity.ComputeRecord{}), "migrate compute_records")
}

func (r *Repository) Record(ctx context.Context, rec *entity.ComputeRecord, _ []byte) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return errors.Wrapf(err, "insert compute record %s", rec.RequestID)
	}
	return nil
}
