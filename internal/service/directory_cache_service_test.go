package service

import (
	"testing"
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopHospitalsKey_RoundsToThreeDecimals(t *testing.T) {
	a, err := geo.Parse("12.97194", "77.59369")
	require.NoError(t, err)
	b, err := geo.Parse("12.9721", "77.5935")
	require.NoError(t, err)

	assert.Equal(t, "directory:top:0:12.972:77.594", TopHospitalsKey(0, a))
	assert.Equal(t, TopHospitalsKey(0, a), TopHospitalsKey(0, b))
	assert.NotEqual(t, TopHospitalsKey(0, a), TopHospitalsKey(1, a), "invalidation moves readers to a new key")
}

func TestTopHospitalsKey_PadsDecimals(t *testing.T) {
	c, err := geo.Parse("-33.9", "18")
	require.NoError(t, err)
	assert.Equal(t, "directory:top:7:-33.900:18.000", TopHospitalsKey(7, c))
}

func TestDirectoryCache_TopSpecialtiesInProcess(t *testing.T) {
	c := NewDirectoryCache(nil, time.Minute, time.Minute, logrus.New(), nil)

	_, found := c.GetTopSpecialties(entity.SeverityHigh)
	assert.False(t, found)

	rows := []entity.SpecialtyRanking{{ID: 1, Name: "Cardiology", Severity: entity.SeverityHigh, HospitalCount: 2, DoctorCount: 5}}
	c.SetTopSpecialties(entity.SeverityHigh, rows)

	got, found := c.GetTopSpecialties(entity.SeverityHigh)
	require.True(t, found)
	assert.Equal(t, rows, got)

	_, found = c.GetTopSpecialties(entity.SeverityLow)
	assert.False(t, found)

	c.InvalidateSpecialties()
	_, found = c.GetTopSpecialties(entity.SeverityHigh)
	assert.False(t, found)
}

func TestQuotaKey(t *testing.T) {
	id := uuid.MustParse("5b1d0b36-7f43-4a3f-9d8a-2f3a1b9c0e11")
	day := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "appointment:quota:5b1d0b36-7f43-4a3f-9d8a-2f3a1b9c0e11:2026-04-02", QuotaKey(id, day))
}

func TestQuotaTTL(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 36*time.Hour, quotaTTL(day, now))

	past := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, minQuotaTTL, quotaTTL(day, past))
}
