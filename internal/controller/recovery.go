package controller

import (
	"fmt"
	"runtime/debug"
	"time"

	"xrmodels/internal/logger"
)

// RecoverySystem contains panics escaping a tick and trips after too many of
// them inside ResetWindow.
type RecoverySystem struct {
	ErrorCount  int
	LastError   time.Time
	MaxErrors   int
	ResetWindow time.Duration

	log logger.Logger
}

func NewRecoverySystem(maxErrors int, resetWindow time.Duration, log logger.Logger) *RecoverySystem {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecoverySystem{
		MaxErrors:   maxErrors,
		ResetWindow: resetWindow,
		log:         log,
	}
}

// ErrTooManyPanics is returned once the breaker has tripped.
type ErrTooManyPanics struct {
	Count int
}

func (e *ErrTooManyPanics) Error() string {
	return fmt.Sprintf("tick panicked %d times, giving up", e.Count)
}

// SafeUpdate runs update, converting a panic into an error.
func (r *RecoverySystem) SafeUpdate(name string, update func()) (err error) {
	// Reset error count if enough time has passed
	if !r.LastError.IsZero() && time.Since(r.LastError) > r.ResetWindow {
		r.ErrorCount = 0
	}
	if r.ErrorCount >= r.MaxErrors {
		return &ErrTooManyPanics{Count: r.ErrorCount}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			r.ErrorCount++
			r.LastError = time.Now()
			r.log.Error("panic in update",
				logger.F("system", name),
				logger.F("panic", fmt.Sprint(recovered)),
				logger.F("stack", string(debug.Stack())))
			err = fmt.Errorf("%s panicked: %v", name, recovered)
		}
	}()

	update()
	return nil
}
