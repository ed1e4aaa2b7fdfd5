package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	MinTripBudget = 100.0
	MaxTripBudget = 100000.0
	MaxTripDays   = 365
	MaxCityLength = 100
)

// cityForbiddenChars are rejected outright instead of being escaped, since the
// city string ends up inside prompts and log lines.
var cityForbiddenChars = "<>{}[]|\\"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// Today truncates the given instant to a calendar day in UTC.
func Today(now time.Time) Date {
	y, m, d := now.UTC().Date()
	return NewDate(y, m, d)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so DATE columns land directly in a Date.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date{v}
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Value implements driver.Valuer for DATE query parameters.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// DateRange is a half-open trip window: nights are spent on every date in
// [Start, End), and End is checkout day.
type DateRange struct {
	Start Date `json:"start" swaggertype:"string" format:"date" example:"2026-03-10"`
	End   Date `json:"end" swaggertype:"string" format:"date" example:"2026-03-13"`
}

// Nights returns the trip length in nights, which is also the number of
// planned days.
func (r DateRange) Nights() int {
	return r.Start.DaysUntil(r.End)
}

// Dates lists every planned date in order, checkout day excluded.
func (r DateRange) Dates() []Date {
	n := r.Nights()
	if n <= 0 {
		return nil
	}
	out := make([]Date, n)
	for i := 0; i < n; i++ {
		out[i] = r.Start.AddDays(i)
	}
	return out
}

// GenerateItineraryRequest is the trip request accepted by the generate
// endpoint.
type GenerateItineraryRequest struct {
	City   string    `json:"city" validate:"required,max=100"`
	Budget float64   `json:"budget" validate:"required,gt=0"`
	Dates  DateRange `json:"dates" validate:"required"`
}

// ValidationError reports a rejected request field. It maps to a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate applies the request-level checks: city shape, budget bounds and a
// sane date window. Allocation-level constraints (floors, ratios) are checked
// downstream by the planner.
func (r GenerateItineraryRequest) Validate(now time.Time) error {
	city := strings.TrimSpace(r.City)
	if city == "" {
		return &ValidationError{Field: "city", Message: "must not be empty"}
	}
	if len(city) > MaxCityLength {
		return &ValidationError{Field: "city", Message: fmt.Sprintf("must be at most %d characters", MaxCityLength)}
	}
	if strings.ContainsAny(city, cityForbiddenChars) {
		return &ValidationError{Field: "city", Message: "contains invalid characters"}
	}
	if r.Budget < MinTripBudget {
		return &ValidationError{Field: "budget", Message: fmt.Sprintf("must be at least $%.0f", MinTripBudget)}
	}
	if r.Budget > MaxTripBudget {
		return &ValidationError{Field: "budget", Message: fmt.Sprintf("must be at most $%.0f", MaxTripBudget)}
	}
	if r.Dates.Start.IsZero() || r.Dates.End.IsZero() {
		return &ValidationError{Field: "dates", Message: "start and end are required"}
	}
	if !r.Dates.End.After(r.Dates.Start.Time) {
		return &ValidationError{Field: "dates", Message: "end must be after start"}
	}
	if r.Dates.Start.Before(Today(now).Time) {
		return &ValidationError{Field: "dates", Message: "start must not be in the past"}
	}
	if r.Dates.Nights() > MaxTripDays {
		return &ValidationError{Field: "dates", Message: fmt.Sprintf("trip must be at most %d days", MaxTripDays)}
	}
	return nil
}
