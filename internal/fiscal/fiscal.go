// Package fiscal maps dates onto a fiscal calendar that may start in any month.
//
// A fiscal year is named by the calendar year in which it ends, so with an
// October start, 2025-10-01 falls in FY2026. With a January start fiscal and
// calendar years coincide. Periods are fiscal months numbered 1..12.
package fiscal

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth   = errors.New("fiscal start month must be between 1 and 12")
	ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")
	ErrInvalidPeriod  = errors.New("period must be between 1 and 12")
)

// Span is the half-open interval [Start, End).
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the span.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Calendar is a fiscal calendar anchored in a time zone.
type Calendar struct {
	start time.Month
	loc   *time.Location
}

// New returns a calendar whose year starts on the first day of start.
// A nil loc means UTC.
func New(start time.Month, loc *time.Location) (*Calendar, error) {
	if start < time.January || start > time.December {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, start)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{start: start, loc: loc}, nil
}

// StartMonth returns the first month of the fiscal year.
func (c *Calendar) StartMonth() time.Month { return c.start }

// Location returns the time zone dates are evaluated in.
func (c *Calendar) Location() *time.Location { return c.loc }

// offset is how many months t lies after the start of its fiscal year, and
// the calendar year in which that fiscal year began.
func (c *Calendar) offset(t time.Time) (int, int) {
	t = t.In(c.loc)
	off := (int(t.Month()) - int(c.start) + 12) % 12
	startYear := t.Year()
	if t.Month() < c.start {
		startYear--
	}
	return off, startYear
}

func (c *Calendar) name(startYear int) int {
	if c.start == time.January {
		return startYear
	}
	return startYear + 1
}

// Year returns the fiscal year containing t.
func (c *Calendar) Year(t time.Time) int {
	_, startYear := c.offset(t)
	return c.name(startYear)
}

// YearSpan returns the bounds of fiscal year fy.
func (c *Calendar) YearSpan(fy int) Span {
	startYear := fy
	if c.start != time.January {
		startYear--
	}
	start := time.Date(startYear, c.start, 1, 0, 0, 0, 0, c.loc)
	return Span{Start: start, End: start.AddDate(1, 0, 0)}
}

// Quarter returns the fiscal year and quarter (1..4) containing t.
func (c *Calendar) Quarter(t time.Time) (int, int) {
	off, startYear := c.offset(t)
	return c.name(startYear), off/3 + 1
}

// QuarterSpan returns the bounds of quarter q of fiscal year fy.
func (c *Calendar) QuarterSpan(fy, q int) (Span, error) {
	if q < 1 || q > 4 {
		return Span{}, fmt.Errorf("%w: got %d", ErrInvalidQuarter, q)
	}
	start := c.YearSpan(fy).Start.AddDate(0, 3*(q-1), 0)
	return Span{Start: start, End: start.AddDate(0, 3, 0)}, nil
}

// Period returns the fiscal year and period (1..12) containing t.
func (c *Calendar) Period(t time.Time) (int, int) {
	off, startYear := c.offset(t)
	return c.name(startYear), off + 1
}

// PeriodSpan returns the bounds of period p of fiscal year fy.
func (c *Calendar) PeriodSpan(fy, p int) (Span, error) {
	if p < 1 || p > 12 {
		return Span{}, fmt.Errorf("%w: got %d", ErrInvalidPeriod, p)
	}
	start := c.YearSpan(fy).Start.AddDate(0, p-1, 0)
	return Span{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Description places a date on the fiscal calendar.
type Description struct {
	Date        time.Time `json:"date"`
	Label       string    `json:"label"`
	FiscalYear  int       `json:"fiscal_year"`
	Quarter     int       `json:"quarter"`
	Period      int       `json:"period"`
	YearSpan    Span      `json:"year_span"`
	QuarterSpan Span      `json:"quarter_span"`
	PeriodSpan  Span      `json:"period_span"`
}

// Describe returns everything the calendar knows about t.
func (c *Calendar) Describe(t time.Time) Description {
	t = t.In(c.loc)
	fy, p := c.Period(t)
	q := (p-1)/3 + 1
	// q and p are derived from t and always in range.
	qs, _ := c.QuarterSpan(fy, q)
	ps, _ := c.PeriodSpan(fy, p)
	return Description{
		Date:        t,
		Label:       fmt.Sprintf("FY%d Q%d P%02d", fy, q, p),
		FiscalYear:  fy,
		Quarter:     q,
		Period:      p,
		YearSpan:    c.YearSpan(fy),
		QuarterSpan: qs,
		PeriodSpan:  ps,
	}
}
