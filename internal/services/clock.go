package services

import (
	"time"

	"github.com/hissterical/MindfulPay/internal/models"
)

// Clock supplies "now" and the time zone that decides which calendar day it
// is for the user.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

// NewClock creates a Clock. A nil now uses time.Now; a nil loc uses Local.
func NewClock(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return Clock{now: now, loc: loc}
}

// Now returns the current instant.
func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Today returns the current calendar date in the clock's time zone.
func (c Clock) Today() models.Date {
	loc := c.loc
	if loc == nil {
		loc = time.Local
	}
	return models.Today(c.Now(), loc)
}
