package systems

import (
	"fmt"

	"xrmodels/internal/xr"
)

// MalformedPayloadError reports a render model payload that could not be
// converted, typically an index that addresses no vertex.
type MalformedPayloadError struct {
	Device xr.DeviceID
	Cause  interface{}
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed render model payload for device %d: %v", e.Device, e.Cause)
}

func (e *MalformedPayloadError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// ErrUnknownFailurePolicy is returned by ParseFailurePolicy.
type ErrUnknownFailurePolicy struct {
	Policy string
}

func (e *ErrUnknownFailurePolicy) Error() string {
	return fmt.Sprintf("unknown failure policy %q", e.Policy)
}
