package model

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending     AppointmentStatus = "Pending"
	AppointmentConfirmed   AppointmentStatus = "Confirmed"
	AppointmentCancelled   AppointmentStatus = "Cancelled"
	AppointmentRescheduled AppointmentStatus = "Rescheduled"
)

var ErrInvalidTransition = errors.New("invalid appointment status transition")

// appointmentTransitions maps a target status to the statuses it may be
// entered from. Pending is only ever an initial status. Confirmed and
// Cancelled overwrite any status, so repeating accept or cancel is allowed.
// Rescheduled has no sources until rescheduling exists.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentConfirmed: {
		AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentRescheduled,
	},
	AppointmentCancelled: {
		AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentRescheduled,
	},
}

// CanTransitionTo reports whether an appointment in status s may move to target.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	return slices.Contains(appointmentTransitions[target], s)
}

// TransitionSources lists the statuses target may be entered from. Stores
// use it to match the current status in the same step as the update.
func TransitionSources(target AppointmentStatus) []AppointmentStatus {
	return slices.Clone(appointmentTransitions[target])
}

// Appointment is a scheduling request owned by exactly one user, identified
// by email. Date and Time are free text.
type Appointment struct {
	ID           bson.ObjectID     `bson:"_id,omitempty"`
	UserEmail    string            `bson:"user_email"`
	Type         string            `bson:"type"`
	Date         string            `bson:"date"`
	Time         string            `bson:"time"`
	Status       AppointmentStatus `bson:"status"`
	PreviousDate string            `bson:"previous_date,omitempty"`
	PreviousTime string            `bson:"previous_time,omitempty"`
	Notes        string            `bson:"notes,omitempty"`
	CreatedAt    time.Time         `bson:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at"`
}

// Transition moves the appointment to target, or returns ErrInvalidTransition.
func (a *Appointment) Transition(target AppointmentStatus, at time.Time) error {
	if !a.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	a.Status = target
	a.UpdatedAt = at

	return nil
}
