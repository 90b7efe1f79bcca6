package lsm303agr

import "errors"

// ErrInvalidInputData is returned when a requested configuration cannot be
// expressed by the hardware, e.g. a low-power-only data rate combined with
// high-resolution mode.
var ErrInvalidInputData = errors.New("lsm303agr: invalid input data")

// CommError wraps an I2C or SPI bus failure. It propagates untranslated:
// the driver performs no retries and never swallows a transport error.
type CommError struct {
	Err error
}

func (e *CommError) Error() string {
	return "lsm303agr: communication error: " + e.Err.Error()
}

func (e *CommError) Unwrap() error { return e.Err }

// PinError wraps a chip-select signaling failure. Only the SPI transport
// produces it.
type PinError struct {
	Err error
}

func (e *PinError) Error() string {
	return "lsm303agr: chip-select pin error: " + e.Err.Error()
}

func (e *PinError) Unwrap() error { return e.Err }
