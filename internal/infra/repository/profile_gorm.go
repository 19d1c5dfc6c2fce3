package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ProfileGormRepository maps authenticated users to their doctor or
// patient profile.
type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) DoctorIDByUser(ctx context.Context, userID uint) (uint, error) {
	var d models.Doctor
	err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrDoctorNotFound
	}
	return d.ID, err
}

func (r *ProfileGormRepository) PatientIDByUser(ctx context.Context, userID uint) (uint, error) {
	var p models.Patient
	err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrPatientNotFound
	}
	return p.ID, err
}
