package attendance

import (
	"fmt"
	"math"
	"time"
)

// DefaultOnlineWindow is how recent last_active must be to show a user online.
const DefaultOnlineWindow = 5 * time.Minute

type State string

const (
	StateNotCheckedIn State = "not_checked_in"
	StateCheckedIn    State = "checked_in"
	StateCheckedOut   State = "checked_out"
)

// Label is the human readable form shown on dashboards.
func (s State) Label() string {
	switch s {
	case StateCheckedIn:
		return "Checked In"
	case StateCheckedOut:
		return "Checked Out"
	default:
		return "Not Checked In"
	}
}

func StateOf(a *Attendance) State {
	if a == nil {
		return StateNotCheckedIn
	}
	if a.CheckOut == nil {
		return StateCheckedIn
	}
	return StateCheckedOut
}

// Policy carries the check-in rules evaluated in the server timezone.
type Policy struct {
	Location     *time.Location
	CutoffHour   int
	CutoffMinute int
}

// NewPolicy parses an HH:MM late cutoff.
func NewPolicy(loc *time.Location, cutoff string) (Policy, error) {
	t, err := time.Parse("15:04", cutoff)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid late cutoff %q: %w", cutoff, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return Policy{Location: loc, CutoffHour: t.Hour(), CutoffMinute: t.Minute()}, nil
}

// Classify returns Late when the local hour:minute of checkIn is strictly
// after the cutoff. Seconds are ignored, so 09:00:59 is still on time.
func (p Policy) Classify(checkIn time.Time) Status {
	local := checkIn.In(p.location())
	h, m := local.Hour(), local.Minute()
	if h > p.CutoffHour || (h == p.CutoffHour && m > p.CutoffMinute) {
		return StatusLate
	}
	return StatusPresent
}

// Cutoff returns the cutoff instant on the local day of t.
func (p Policy) Cutoff(t time.Time) time.Time {
	local := t.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), p.CutoffHour, p.CutoffMinute, 0, 0, p.location())
}

// WorkDate is the local calendar day of t.
func (p Policy) WorkDate(t time.Time) time.Time {
	return CivilDate(t, p.location())
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// CivilDate returns the calendar day of t in loc as midnight UTC, the form
// DATE columns scan into.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns [first day of month, first day of next month) for t in loc.
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// WorkingDaysInMonth counts Monday to Friday in the calendar month of t.
func WorkingDaysInMonth(t time.Time, loc *time.Location) int {
	start, next := MonthBounds(t, loc)
	days := 0
	for d := start; d.Before(next); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

type Summary struct {
	Month       string `json:"month"`
	MonthLabel  string `json:"month_label"`
	TotalDays   int    `json:"total_days"`
	PresentDays int    `json:"present_days"`
	LateDays    int    `json:"late_days"`
	AbsentDays  int    `json:"absent_days"`
	Percentage  int    `json:"percentage"`
}

// MonthlySummary aggregates records falling in the calendar month of asOf.
// AbsentDays is total minus attended and may be negative when weekend
// check-ins exist.
func MonthlySummary(records []Attendance, asOf time.Time, loc *time.Location) Summary {
	local := asOf.In(loc)
	s := Summary{
		Month:      local.Format("2006-01"),
		MonthLabel: local.Format("January 2006"),
		TotalDays:  WorkingDaysInMonth(asOf, loc),
	}

	for _, r := range records {
		y, m, _ := r.WorkDate.Date()
		if y != local.Year() || m != local.Month() {
			continue
		}
		switch r.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusLate:
			s.LateDays++
		}
	}

	attended := s.PresentDays + s.LateDays
	s.AbsentDays = s.TotalDays - attended
	if s.TotalDays > 0 {
		s.Percentage = int(math.Round(float64(attended) / float64(s.TotalDays) * 100))
	}
	return s
}

// IsActive reports whether lastActive happened less than window before asOf.
func IsActive(lastActive *time.Time, asOf time.Time, window time.Duration) bool {
	if lastActive == nil {
		return false
	}
	if window <= 0 {
		window = DefaultOnlineWindow
	}
	return asOf.Sub(*lastActive) < window
}
