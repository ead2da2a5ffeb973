package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
	"github.com/Leganyst/naconsulta/internal/validation"
)

// AppointmentService exposes appointments and the clinical notes on them.
type AppointmentService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAppointmentService(db *gorm.DB, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{db: db, log: log.With().Str("component", "appointment_service").Logger()}
}

// FindByID is open to the patient of the appointment, doctors and admins.
// Other callers get Forbidden whether or not the appointment exists.
func (s *AppointmentService) FindByID(ctx context.Context, caller auth.Caller, id int64) (dto.AppointmentDTO, error) {
	if !caller.Authenticated() {
		return dto.AppointmentDTO{}, errs.Unauthorized("Authentication required")
	}

	staff := caller.HasRole(model.RoleDoctor) || caller.IsAdmin()

	a, err := newRepos(s.db).appointments.FindByID(ctx, id)
	if err != nil {
		if !staff && errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AppointmentDTO{}, errs.Forbidden("Access denied")
		}
		return dto.AppointmentDTO{}, storeErr(err, "Appointment", id)
	}
	if !staff && a.PatientID != caller.UserID {
		return dto.AppointmentDTO{}, errs.Forbidden("Access denied")
	}
	return dto.NewAppointment(a), nil
}

// Update replaces diagnosis and symptom. Doctors and admins only.
func (s *AppointmentService) Update(ctx context.Context, caller auth.Caller, id int64, in dto.AppointmentUpdate) (dto.AppointmentDTO, error) {
	if err := auth.RequireAnyRole(caller, model.RoleDoctor, model.RoleAdmin); err != nil {
		return dto.AppointmentDTO{}, err
	}
	if err := validation.Struct(in); err != nil {
		return dto.AppointmentDTO{}, err
	}

	var a *model.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)
		if err := r.appointments.UpdateNotes(ctx, id, in.Diagnosis, in.Symptom); err != nil {
			return err
		}
		var err error
		a, err = r.appointments.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return dto.AppointmentDTO{}, storeErr(err, "Appointment", id)
	}

	s.log.Info().Int64("appointment_id", id).Int64("by", caller.UserID).Msg("appointment notes updated")
	return dto.NewAppointment(a), nil
}
