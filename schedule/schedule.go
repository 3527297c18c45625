// Package schedule defines when hob scheduled actions run and how those
// definitions become gocron jobs
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
)

// Definition represents a recurring schedule: every Interval Unit (i.e. every 10 minutes) or
// every Weekday, optionally at a given time of the day
type Definition struct {
	// Interval value (every 1 minute would be expressed with an interval of 1). Must be set explicitly or implicitly (a weekday value implicitly sets the interval to 1)
	Interval uint64

	// Must be set explicitly or implicitly ("weeks" is implicitly set when "Weekday" is set). Valid time units are: "weeks", "hours", "days", "minutes", "seconds"
	Unit string

	// Optional day of the week. If set, unit and interval are ignored and implicitly considered to be "every 1 week"
	Weekday string

	// Optional "at time" value (i.e. "10:30")
	AtTime string
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

var weekdays = map[string]func(j *gocron.Job) *gocron.Job{
	time.Monday.String():    func(j *gocron.Job) *gocron.Job { return j.Monday() },
	time.Tuesday.String():   func(j *gocron.Job) *gocron.Job { return j.Tuesday() },
	time.Wednesday.String(): func(j *gocron.Job) *gocron.Job { return j.Wednesday() },
	time.Thursday.String():  func(j *gocron.Job) *gocron.Job { return j.Thursday() },
	time.Friday.String():    func(j *gocron.Job) *gocron.Job { return j.Friday() },
	time.Saturday.String():  func(j *gocron.Job) *gocron.Job { return j.Saturday() },
	time.Sunday.String():    func(j *gocron.Job) *gocron.Job { return j.Sunday() },
}

var units = map[string]func(j *gocron.Job) *gocron.Job{
	Weeks:   func(j *gocron.Job) *gocron.Job { return j.Weeks() },
	Hours:   func(j *gocron.Job) *gocron.Job { return j.Hours() },
	Days:    func(j *gocron.Job) *gocron.Job { return j.Days() },
	Minutes: func(j *gocron.Job) *gocron.Job { return j.Minutes() },
	Seconds: func(j *gocron.Job) *gocron.Job { return j.Seconds() },
}

// String returns a human-friendly string for the Definition
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if d.Weekday != "" {
		fmt.Fprintf(&b, "%s", d.Weekday)
	} else if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}

	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}

	return b.String()
}

// NewJob sets up the gocron.Job with the schedule and leaves the task undefined for the caller to set up
func NewJob(s *gocron.Scheduler, d Definition) (j *gocron.Job, err error) {
	interval := d.Interval
	if d.Weekday != "" {
		interval = 1
	}

	if interval == 0 {
		return nil, errors.Errorf("invalid schedule [%s]: interval must be greater than 0", d)
	}

	j = s.Every(interval, false)

	if weekday, ok := weekdays[d.Weekday]; ok {
		j = weekday(j)
	} else if d.Weekday != "" {
		return nil, errors.Errorf("invalid schedule weekday [%s]", d.Weekday)
	} else if unit, ok := units[d.Unit]; ok {
		j = unit(j)
	} else {
		return nil, errors.Errorf("invalid schedule unit [%s]", d.Unit)
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}

// Builder holds a Definition to build
type Builder struct {
	definition Definition
}

// New returns a new schedule Builder
func New() (b *Builder) {
	return &Builder{definition: Definition{}}
}

// Every sets the schedule to "every 1 <unitOrWeekday>" with a unit (i.e. schedule.Minutes) or a
// weekday (i.e. time.Monday.String())
func (b *Builder) Every(unitOrWeekday string) *Builder {
	b.definition.Interval = 1

	if _, ok := weekdays[unitOrWeekday]; ok {
		b.definition.Weekday = unitOrWeekday
	} else {
		b.definition.Unit = unitOrWeekday
	}

	return b
}

// EveryN sets the schedule to every interval units (i.e. every 10 minutes)
func (b *Builder) EveryN(interval uint64, unit string) *Builder {
	b.definition.Interval = interval
	b.definition.Unit = unit

	return b
}

// AtTime sets the time of the day to run at (i.e. "10:30")
func (b *Builder) AtTime(atTime string) *Builder {
	b.definition.AtTime = atTime
	return b
}

// Build returns the Definition
func (b *Builder) Build() Definition {
	return b.definition
}
