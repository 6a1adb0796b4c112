// Package health runs ordered prerequisite checks that decide whether the
// on-device generation capability can currently serve requests.
package health

import (
	"context"
	"time"
)

// Check is one named prerequisite. CheckFn returns nil when satisfied; its
// error message becomes the user-facing unavailability reason.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status records the result of a single check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker evaluates checks in order.
type Checker struct {
	checks []Check
	now    func() time.Time
}

// NewChecker creates a checker over the given checks.
func NewChecker(checks ...Check) *Checker {
	return &Checker{checks: checks, now: time.Now}
}

// First runs checks in order and stops at the first failure. It returns the
// statuses evaluated so far and the failing status, if any. Later checks
// assume earlier ones passed.
func (c *Checker) First(ctx context.Context) ([]Status, *Status) {
	statuses := make([]Status, 0, len(c.checks))
	for _, check := range c.checks {
		s := c.run(ctx, check)
		statuses = append(statuses, s)
		if !s.Healthy {
			return statuses, &statuses[len(statuses)-1]
		}
	}
	return statuses, nil
}

func (c *Checker) run(ctx context.Context, check Check) Status {
	s := Status{
		Name:      check.Name,
		CheckedAt: c.now(),
	}
	if err := ctx.Err(); err != nil {
		s.Error = err.Error()
		return s
	}
	if err := check.CheckFn(ctx); err != nil {
		s.Error = err.Error()
	} else {
		s.Healthy = true
	}
	return s
}
