// Package aging runs the inactivity decay pass over leads and quotes.
package aging

import (
	"context"
	"time"

	"doorcraft_backend/platform/logger"
)

// Ager is a domain that can decay its records in bulk.
type Ager interface {
	Name() string
	AgeBulk(ctx context.Context, now time.Time) (int64, error)
}

type agerFunc struct {
	name string
	fn   func(ctx context.Context, now time.Time) (int64, error)
}

func (a agerFunc) Name() string { return a.name }

func (a agerFunc) AgeBulk(ctx context.Context, now time.Time) (int64, error) {
	return a.fn(ctx, now)
}

// AgerFunc adapts a bare decay function into a named Ager.
func AgerFunc(name string, fn func(ctx context.Context, now time.Time) (int64, error)) Ager {
	return agerFunc{name: name, fn: fn}
}

// Job runs every registered ager and aggregates the results.
type Job struct {
	agers []Ager
	log   *logger.Logger
}

func NewJob(log *logger.Logger, agers ...Ager) *Job {
	return &Job{agers: agers, log: log}
}

// Run decays every domain and reports the total demoted rows and the number
// of failed domains. A failing domain never blocks the others.
func (j *Job) Run(ctx context.Context, now time.Time) (aged int64, errs int) {
	for _, ager := range j.agers {
		count, err := ager.AgeBulk(ctx, now)
		aged += count
		if err != nil {
			errs++
			j.log.Error("aging pass failed", "domain", ager.Name(), "error", err)
			continue
		}
		if count > 0 {
			j.log.Info("aging pass demoted records", "domain", ager.Name(), "count", count)
		}
	}
	return aged, errs
}
