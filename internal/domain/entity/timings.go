package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayState is the three-valued availability of a weekday
type DayState int

const (
	DayUnset DayState = iota
	DayClosed
	DayOpen
)

func (s DayState) String() string {
	switch s {
	case DayClosed:
		return "closed"
	case DayOpen:
		return "open"
	default:
		return "unset"
	}
}

const clockLayout = "15:04"

var (
	ErrInvalidTimingDay   = errors.New("unknown weekday in timings")
	ErrInvalidTimingClock = errors.New("timings must use HH:MM 24h clock")
	ErrInvalidTimingRange = errors.New("opening time must be before closing time")
)

// DayTiming is the state of one weekday. Start/End are set only when open.
type DayTiming struct {
	State DayState
	Start string
	End   string
}

func Unset() DayTiming  { return DayTiming{State: DayUnset} }
func Closed() DayTiming { return DayTiming{State: DayClosed} }
func Open(start, end string) DayTiming {
	return DayTiming{State: DayOpen, Start: start, End: end}
}

// Covers reports whether an HH:MM time falls inside opening hours.
func (d DayTiming) Covers(clock string) bool {
	if d.State != DayOpen {
		return false
	}
	at, err := time.Parse(clockLayout, clock)
	if err != nil {
		return false
	}
	start, _ := time.Parse(clockLayout, d.Start)
	end, _ := time.Parse(clockLayout, d.End)
	return !at.Before(start) && at.Before(end)
}

func (d DayTiming) validate() error {
	if d.State != DayOpen {
		return nil
	}
	start, err := time.Parse(clockLayout, d.Start)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimingClock, d.Start)
	}
	end, err := time.Parse(clockLayout, d.End)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimingClock, d.End)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimingRange, d.Start, d.End)
	}
	return nil
}

// WeekTimings is indexed by time.Weekday.
//
// JSON form: {"monday": {"start": "09:00", "end": "17:00"}, "sunday": null}.
// A missing key is unset, null is closed.
type WeekTimings [7]DayTiming

var weekdayKeys = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type openHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w WeekTimings) Day(day time.Weekday) DayTiming {
	return w[day]
}

func (w *WeekTimings) Set(day time.Weekday, timing DayTiming) {
	w[day] = timing
}

func (w WeekTimings) Validate() error {
	for day, timing := range w {
		if err := timing.validate(); err != nil {
			return fmt.Errorf("%s: %w", weekdayKeys[day], err)
		}
	}
	return nil
}

// TimingsSummary counts days per state; the three fields always sum to 7
type TimingsSummary struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
	Unset  int `json:"unset"`
}

func (w WeekTimings) Summary() TimingsSummary {
	var s TimingsSummary
	for _, timing := range w {
		switch timing.State {
		case DayOpen:
			s.Open++
		case DayClosed:
			s.Closed++
		default:
			s.Unset++
		}
	}
	return s
}

func (w WeekTimings) MarshalJSON() ([]byte, error) {
	out := make(map[string]*openHours, 7)
	for day, timing := range w {
		switch timing.State {
		case DayClosed:
			out[weekdayKeys[day]] = nil
		case DayOpen:
			out[weekdayKeys[day]] = &openHours{Start: timing.Start, End: timing.End}
		}
	}
	return json.Marshal(out)
}

func (w *WeekTimings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = WeekTimings{}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed WeekTimings
	for key, value := range raw {
		day, ok := weekdayIndex(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidTimingDay, key)
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			parsed[day] = Closed()
			continue
		}
		var hours openHours
		if err := json.Unmarshal(value, &hours); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		parsed[day] = Open(hours.Start, hours.End)
	}

	*w = parsed
	return nil
}

// Value stores the timings as jsonb
func (w WeekTimings) Value() (driver.Value, error) {
	b, err := w.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the jsonb column
func (w *WeekTimings) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*w = WeekTimings{}
		return nil
	case []byte:
		return w.UnmarshalJSON(v)
	case string:
		return w.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into WeekTimings", value)
	}
}

func weekdayIndex(key string) (time.Weekday, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, name := range weekdayKeys {
		if name == key || name[:3] == key {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
