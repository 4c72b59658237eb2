package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekTimings_UnmarshalThreeStates(t *testing.T) {
	var w WeekTimings
	err := json.Unmarshal([]byte(`{"monday":{"start":"09:00","end":"17:00"},"sunday":null}`), &w)
	require.NoError(t, err)

	assert.Equal(t, DayOpen, w.Day(time.Monday).State)
	assert.Equal(t, "09:00", w.Day(time.Monday).Start)
	assert.Equal(t, DayClosed, w.Day(time.Sunday).State)
	assert.Equal(t, DayUnset, w.Day(time.Tuesday).State)
	assert.Equal(t, TimingsSummary{Open: 1, Closed: 1, Unset: 5}, w.Summary())
}

func TestWeekTimings_RoundTripKeepsClassification(t *testing.T) {
	var original WeekTimings
	original.Set(time.Monday, Open("08:30", "12:00"))
	original.Set(time.Wednesday, Closed())
	original.Set(time.Saturday, Open("10:00", "14:00"))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded WeekTimings
	require.NoError(t, json.Unmarshal(data, &decoded))

	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.Equal(t, original.Day(day).State, decoded.Day(day).State, day.String())
	}
	assert.Equal(t, original, decoded)
}

func TestWeekTimings_MarshalOmitsUnsetDays(t *testing.T) {
	var w WeekTimings
	w.Set(time.Friday, Closed())

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"friday":null}`, string(data))
}

func TestWeekTimings_ShortDayNames(t *testing.T) {
	var w WeekTimings
	require.NoError(t, json.Unmarshal([]byte(`{"Tue":{"start":"07:00","end":"09:00"}}`), &w))
	assert.Equal(t, DayOpen, w.Day(time.Tuesday).State)
}

func TestWeekTimings_UnknownDay(t *testing.T) {
	var w WeekTimings
	err := json.Unmarshal([]byte(`{"funday":null}`), &w)
	assert.ErrorIs(t, err, ErrInvalidTimingDay)
}

func TestWeekTimings_Validate(t *testing.T) {
	var w WeekTimings
	w.Set(time.Monday, Open("9am", "17:00"))
	assert.ErrorIs(t, w.Validate(), ErrInvalidTimingClock)

	w.Set(time.Monday, Open("17:00", "09:00"))
	assert.ErrorIs(t, w.Validate(), ErrInvalidTimingRange)

	w.Set(time.Monday, Open("09:00", "17:00"))
	assert.NoError(t, w.Validate())
}

func TestWeekTimings_ValueScan(t *testing.T) {
	var w WeekTimings
	w.Set(time.Thursday, Open("09:00", "13:00"))
	w.Set(time.Sunday, Closed())

	v, err := w.Value()
	require.NoError(t, err)

	var scanned WeekTimings
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, w, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, TimingsSummary{Unset: 7}, scanned.Summary())
}

func TestDayTiming_Covers(t *testing.T) {
	day := Open("09:00", "17:00")
	assert.True(t, day.Covers("09:00"))
	assert.True(t, day.Covers("16:59"))
	assert.False(t, day.Covers("17:00"))
	assert.False(t, day.Covers("08:59"))
	assert.False(t, Closed().Covers("10:00"))
	assert.False(t, Unset().Covers("10:00"))
}
