package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Participants
// --------------------------------------------------

func (r *AppointmentGormRepository) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where(query, args...).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) DoctorExists(ctx context.Context, doctorID uint) (bool, error) {
	return r.exists(ctx, &models.Doctor{}, "id = ?", doctorID)
}

func (r *AppointmentGormRepository) PatientExists(ctx context.Context, patientID uint) (bool, error) {
	return r.exists(ctx, &models.Patient{}, "id = ?", patientID)
}

func (r *AppointmentGormRepository) ConditionBelongsTo(
	ctx context.Context,
	conditionID uint,
	patientID uint,
) (bool, error) {
	return r.exists(ctx, &models.ConditionDetail{}, "id = ? AND patient_id = ?", conditionID, patientID)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ap, nil
}

// GetAppointmentForUpdate reads the row with SELECT ... FOR UPDATE.
func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindByDoctorAndDate(
	ctx context.Context,
	doctorID uint,
	date string,
	excludeID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, string(domain.StatusCancelled))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) InsertAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapWriteError(r.db.WithContext(ctx).Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapWriteError(r.db.WithContext(ctx).
		Omit("Doctor", "Patient", "Condition").
		Save(ap).Error)
}

// The partial unique index on active (doctor, date, start) rows backs up the
// advisory lock.
func mapWriteError(err error) error {
	if err != nil && httperr.IsUniqueViolation(err) {
		return domain.ErrSlotTaken
	}
	return err
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Preload("Patient.User")

	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.StartDate != "" {
		q = q.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date <= ?", f.EndDate)
	}

	apps := []models.Appointment{}
	if err := q.Order("date ASC").Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Day serialization
// --------------------------------------------------

// DayLockKey is the advisory lock key of a doctor day.
func DayLockKey(doctorID uint, date string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "appointments:%d:%s", doctorID, date)
	return int64(h.Sum64())
}

// WithinDay runs fn in a transaction holding pg_advisory_xact_lock for the
// doctor day. The lock is released on commit or rollback.
func (r *AppointmentGormRepository) WithinDay(
	ctx context.Context,
	doctorID uint,
	date string,
	fn func(tx domain.Repository) error,
) error {
	return r.WithinDays(ctx, doctorID, []string{date}, fn)
}

// WithinDays takes the advisory lock of every distinct day in ascending key
// order before running fn.
func (r *AppointmentGormRepository) WithinDays(
	ctx context.Context,
	doctorID uint,
	dates []string,
	fn func(tx domain.Repository) error,
) error {
	keys := make([]int64, 0, len(dates))
	seen := make(map[int64]bool, len(dates))
	for _, date := range dates {
		k := DayLockKey(doctorID, date)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", k).Error; err != nil {
				return fmt.Errorf("lock doctor %d days %v: %w", doctorID, dates, err)
			}
		}
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
