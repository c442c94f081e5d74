// Package disposal releases resources deterministically around a callback.
package disposal

import (
	"errors"
	"io"
	"time"
)

// ErrNilResource is returned when a nil resource is passed
// to one of the DisposeAfter functions.
var ErrNilResource = errors.New("disposal: resource cannot be nil")

// ClearAndDispose closes the resource held in slot and empties it.
// An empty slot is left alone.
// If Close fails the error is returned and the slot still holds
// the resource, so calling ClearAndDispose again closes it again.
func ClearAndDispose[T io.Closer](slot *T) error {
	if slot == nil || isNil(*slot) {
		return nil
	}
	s := load()
	if err := s.release(*slot, time.Now()); err != nil {
		return err
	}
	var zero T
	*slot = zero
	return nil
}

// DisposeAfter calls fn with resource and closes resource before
// returning, whether fn returns, fails or panics.
//
// The result and error of fn are returned unchanged when Close
// succeeds.  If only Close fails, its error is returned with the
// zero value of R.  If both fail the configured Policy decides.
// A panic in fn is re-raised after Close.
func DisposeAfter[T io.Closer, R any](
	resource T,
	fn       func(T) (R, error),
) (R, error) {
	if fn == nil {
		panic("fn cannot be nil")
	}
	return disposeAfter(resource, fn)
}

// DisposeAfterGet is DisposeAfter for a fn that does not
// need the resource.
func DisposeAfterGet[T io.Closer, R any](
	resource T,
	fn       func() (R, error),
) (R, error) {
	if fn == nil {
		panic("fn cannot be nil")
	}
	return disposeAfter(resource, func(T) (R, error) {
		return fn()
	})
}

// DisposeAfterDo is DisposeAfter for a fn with no result.
func DisposeAfterDo[T io.Closer](
	resource T,
	fn       func(T) error,
) error {
	if fn == nil {
		panic("fn cannot be nil")
	}
	_, err := disposeAfter(resource, func(r T) (struct{}, error) {
		return struct{}{}, fn(r)
	})
	return err
}

// DisposeAfterRun is DisposeAfter for a fn that takes nothing
// and has no result.
func DisposeAfterRun(
	resource io.Closer,
	fn       func() error,
) error {
	if fn == nil {
		panic("fn cannot be nil")
	}
	_, err := disposeAfter(resource, func(io.Closer) (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func disposeAfter[T io.Closer, R any](
	resource T,
	fn       func(T) (R, error),
) (result R, err error) {
	if isNil(resource) {
		return result, ErrNilResource
	}
	s := load()
	start := time.Now()
	returned := false
	defer func() {
		releaseErr := s.release(resource, start)
		if !returned {
			// fn panicked or exited the goroutine
			if releaseErr != nil {
				s.logger.Error(releaseErr, "release failed during panic",
					"resource", typeName(resource))
			}
			return
		}
		if releaseErr == nil {
			return
		}
		if err == nil {
			var zero R
			result = zero
		}
		err = s.policy.combine(err, releaseErr, s.logger)
	}()
	result, err = fn(resource)
	returned = true
	return
}

// release closes resource and traces it at the configured verbosity.
func (s settings) release(resource io.Closer, start time.Time) error {
	err := resource.Close()
	if logger := s.logger.V(s.verbosity); logger.Enabled() {
		if err != nil {
			logger.Info("release failed",
				"resource", typeName(resource),
				"duration", time.Since(start).String(),
				"error", err.Error())
		} else {
			logger.Info("released",
				"resource", typeName(resource),
				"duration", time.Since(start).String())
		}
	}
	return err
}
