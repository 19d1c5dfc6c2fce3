// Package memory is an in-process implementation of the scheduling
// repositories, used by tests and local runs without Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Store struct {
	mu sync.RWMutex

	doctors      map[uint]bool
	patients     map[uint]bool
	conditions   map[uint]uint // condition id -> patient id
	availability map[uint][]models.DoctorAvailability
	appointments map[uint]models.Appointment
	nextID       uint

	doctorUsers  map[uint]uint // user id -> doctor id
	patientUsers map[uint]uint // user id -> patient id

	dayMu sync.Mutex
	days  map[string]*sync.Mutex
}

var (
	_ domain.Repository        = (*Store)(nil)
	_ domain.AvailabilityStore = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		doctors:      map[uint]bool{},
		patients:     map[uint]bool{},
		conditions:   map[uint]uint{},
		availability: map[uint][]models.DoctorAvailability{},
		appointments: map[uint]models.Appointment{},
		doctorUsers:  map[uint]uint{},
		patientUsers: map[uint]uint{},
		days:         map[string]*sync.Mutex{},
	}
}

// ===============================
// Seeding
// ===============================

func (s *Store) AddDoctor(id uint, availability ...models.DoctorAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[id] = true
	s.availability[id] = append([]models.DoctorAvailability(nil), availability...)
}

func (s *Store) AddPatient(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[id] = true
}

// LinkDoctorUser makes userID authenticate as doctorID.
func (s *Store) LinkDoctorUser(userID, doctorID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctorUsers[userID] = doctorID
}

func (s *Store) LinkPatientUser(userID, patientID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patientUsers[userID] = patientID
}

func (s *Store) AddCondition(id, patientID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions[id] = patientID
}

// ===============================
// Participants
// ===============================

func (s *Store) DoctorExists(_ context.Context, id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doctors[id], nil
}

func (s *Store) PatientExists(_ context.Context, id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patients[id], nil
}

func (s *Store) ConditionBelongsTo(_ context.Context, conditionID, patientID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.conditions[conditionID]
	return ok && owner == patientID, nil
}

func (s *Store) DoctorIDByUser(_ context.Context, userID uint) (uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.doctorUsers[userID]; ok {
		return id, nil
	}
	return 0, domain.ErrDoctorNotFound
}

func (s *Store) PatientIDByUser(_ context.Context, userID uint) (uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.patientUsers[userID]; ok {
		return id, nil
	}
	return 0, domain.ErrPatientNotFound
}

// ===============================
// Availability
// ===============================

func (s *Store) Availability(_ context.Context, doctorID uint) ([]models.DoctorAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DoctorAvailability(nil), s.availability[doctorID]...), nil
}

func (s *Store) ReplaceAvailability(_ context.Context, doctorID uint, entries []models.DoctorAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DoctorAvailability, len(entries))
	for i, e := range entries {
		e.DoctorID = doctorID
		out[i] = e
	}
	s.availability[doctorID] = out
	return nil
}

// ===============================
// Appointments
// ===============================

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

// GetAppointmentForUpdate is GetAppointment; the day locks already
// serialize writers in memory.
func (s *Store) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.GetAppointment(ctx, id)
}

func (s *Store) FindByDoctorAndDate(
	_ context.Context,
	doctorID uint,
	date string,
	excludeID *uint,
) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.DoctorID != doctorID || ap.Date != date {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		out = append(out, ap)
	}
	sortAppointments(out)
	return out, nil
}

func (s *Store) InsertAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ap.ID = s.nextID
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if f.DoctorID != 0 && ap.DoctorID != f.DoctorID {
			continue
		}
		if f.PatientID != 0 && ap.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && ap.Status != string(f.Status) {
			continue
		}
		if f.StartDate != "" && ap.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && ap.Date > f.EndDate {
			continue
		}
		out = append(out, ap)
	}
	sortAppointments(out)
	return out, nil
}

func (s *Store) WithinDay(
	ctx context.Context,
	doctorID uint,
	date string,
	fn func(tx domain.Repository) error,
) error {
	return s.WithinDays(ctx, doctorID, []string{date}, fn)
}

// WithinDays locks the distinct dates in ascending order.
func (s *Store) WithinDays(
	_ context.Context,
	doctorID uint,
	dates []string,
	fn func(tx domain.Repository) error,
) error {
	ordered := append([]string(nil), dates...)
	sort.Strings(ordered)

	var prev string
	for i, date := range ordered {
		if i > 0 && date == prev {
			continue
		}
		prev = date

		lock := s.dayLock(doctorID, date)
		lock.Lock()
		defer lock.Unlock()
	}

	return fn(s)
}

func (s *Store) dayLock(doctorID uint, date string) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", doctorID, date)

	s.dayMu.Lock()
	defer s.dayMu.Unlock()

	m, ok := s.days[key]
	if !ok {
		m = &sync.Mutex{}
		s.days[key] = m
	}
	return m
}

func sortAppointments(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].Date != aps[j].Date {
			return aps[i].Date < aps[j].Date
		}
		if aps[i].StartTime != aps[j].StartTime {
			return aps[i].StartTime < aps[j].StartTime
		}
		return aps[i].ID < aps[j].ID
	})
}
