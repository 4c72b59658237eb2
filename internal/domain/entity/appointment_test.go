package entity

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		allowed  bool
	}{
		{AppointmentStatusPending, AppointmentStatusCompleted, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusExpired, true},
		{AppointmentStatusPending, AppointmentStatusRefundInProgress, true},
		{AppointmentStatusCancelled, AppointmentStatusRefundInProgress, true},
		{AppointmentStatusRefundInProgress, AppointmentStatusRefunded, true},
		{AppointmentStatusPending, AppointmentStatusRefunded, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusExpired, AppointmentStatusPending, false},
		{AppointmentStatusRefunded, AppointmentStatusRefundInProgress, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOpenAppointmentStatuses_AreTheNonTerminalOnes(t *testing.T) {
	open := OpenAppointmentStatuses()
	assert.Contains(t, open, AppointmentStatusRefundInProgress)
	assert.Contains(t, open, AppointmentStatusCancelled)

	all := []AppointmentStatus{
		AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusExpired, AppointmentStatusRefundInProgress, AppointmentStatusRefunded,
	}
	for _, s := range all {
		assert.Equal(t, !s.IsTerminal(), slices.Contains(open, s), "%s", s)
	}
}

func TestAppointment_StartsAt(t *testing.T) {
	a := Appointment{
		ScheduledDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "10:30",
	}
	assert.Equal(t, time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC), a.StartsAt())
}

func TestAppointment_LateCancellationFine(t *testing.T) {
	a := Appointment{
		ScheduledDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "10:00",
		Amount:        decimal.RequireFromString("250.00"),
	}
	percent := decimal.NewFromInt(10)

	early := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	assert.True(t, a.LateCancellationFine(early, 24*time.Hour, percent).IsZero())

	late := time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC)
	assert.True(t, decimal.NewFromInt(25).Equal(a.LateCancellationFine(late, 24*time.Hour, percent)))
}
