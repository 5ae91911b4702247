package parser

import (
	"fmt"

	"xrmodels/internal/loader/schema"
)

var (
	ErrUnknownField  = fmt.Errorf("%w: unknown field", schema.ErrInvalidManifest)
	ErrRequiredField = fmt.Errorf("%w: required field", schema.ErrInvalidManifest)
	ErrInvalidValue  = fmt.Errorf("%w: invalid value", schema.ErrInvalidManifest)
)

type fieldError struct {
	reason    error
	device    uint32
	parentKey string
	field     string
	line      int
}

func (e *fieldError) Error() string {
	if e.device == 0 {
		return fmt.Sprintf("%s: %s field %q (line %d)", e.reason, e.parentKey, e.field, e.line)
	}
	return fmt.Sprintf("%s: %s field %q in device %d (line %d)", e.reason, e.parentKey, e.field, e.device, e.line)
}

func (e *fieldError) Unwrap() error {
	return e.reason
}

type duplicateDeviceError struct {
	id   uint32
	line int
}

func (e *duplicateDeviceError) Error() string {
	return fmt.Sprintf("duplicate device id %d (line %d), device ids must be unique", e.id, e.line)
}

func (e *duplicateDeviceError) Unwrap() error {
	return schema.ErrInvalidManifest
}
