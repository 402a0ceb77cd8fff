package valar

import (
	"time"

	"go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// Observer
///////////////////////////////////////////////////////////////////////////////

// Outcome is the immutable summary handed to an Observer after a top-level
// validation call completes.
type Outcome struct {
	Valid      bool
	ErrorCount int
	Codes      []string
	Elapsed    time.Duration
}

// Observer is a side-effect hook for logging or metrics. It receives the
// outcome of a completed top-level validation call, exactly once per call,
// never once per nested field. Observers cannot alter the result; the
// observed result is always returned to the caller unchanged. A nil
// Observer is a no-op and costs nothing.
type Observer func(outcome Outcome)

// Observe wraps a validator so that every invocation reports its outcome
// to obs. The wrapped validator's result passes through untouched.
func Observe[A any](obs Observer, v Validator[A]) Validator[A] {
	if obs == nil {
		return v
	}
	return func(value A) Result[A] {
		start := time.Now()
		r := v(value)
		obs(outcomeOf(r.Errors(), r.IsValid(), start))
		return r
	}
}

// ZapObserver reports outcomes as structured log entries: debug for valid
// results, warn for invalid ones.
func ZapObserver(log *zap.Logger) Observer {
	return func(o Outcome) {
		fields := []zap.Field{
			zap.Bool("valid", o.Valid),
			zap.Int("errors", o.ErrorCount),
			zap.Strings("codes", o.Codes),
			zap.Duration("elapsed", o.Elapsed),
		}
		if o.Valid {
			log.Debug("validation passed", fields...)
			return
		}
		log.Warn("validation failed", fields...)
	}
}

func outcomeOf(errs []FieldError, valid bool, start time.Time) Outcome {
	return Outcome{
		Valid:      valid,
		ErrorCount: len(errs),
		Codes:      Errors(errs).Codes(),
		Elapsed:    time.Since(start),
	}
}

// observe reports a completed traversal to the observer configured in
// opts, if any. Entry points call it once, after the full result is known.
func (o Opts) observe(start time.Time, valid bool, errs []FieldError) {
	if o.Observer == nil {
		return
	}
	o.Observer(outcomeOf(errs, valid, start))
}
