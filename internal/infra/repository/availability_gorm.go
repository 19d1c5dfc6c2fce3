package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) Availability(
	ctx context.Context,
	doctorID uint,
) ([]models.DoctorAvailability, error) {

	var entries []models.DoctorAvailability
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceAvailability swaps the whole weekly schedule of the doctor.
func (r *AvailabilityGormRepository) ReplaceAvailability(
	ctx context.Context,
	doctorID uint,
	entries []models.DoctorAvailability,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("doctor_id = ?", doctorID).
			Delete(&models.DoctorAvailability{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		rows := make([]models.DoctorAvailability, len(entries))
		for i, e := range entries {
			rows[i] = models.DoctorAvailability{
				DoctorID:  doctorID,
				Day:       e.Day,
				StartTime: e.StartTime,
				EndTime:   e.EndTime,
			}
		}
		return tx.Create(&rows).Error
	})
}

var _ domain.AvailabilityStore = (*AvailabilityGormRepository)(nil)
