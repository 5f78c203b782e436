package types

import (
	"fmt"
	"time"
)

// Period is a half-open time interval [Start, End). A period whose end does
// not strictly follow its start is invalid.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod builds a validated Period.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate rejects zero endpoints and non-positive durations.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("period endpoints must be set")
	}
	if !p.End.After(p.Start) {
		return fmt.Errorf("period end %s must be after start %s",
			p.End.Format(time.RFC3339), p.Start.Format(time.RFC3339))
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant. Periods
// that merely touch at an endpoint do not overlap.
func (p Period) Overlaps(other Period) bool {
	return p.Start.Before(other.End) && p.End.After(other.Start)
}

// Contains reports whether t falls inside the interval.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Duration returns End minus Start.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}
