// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

// Measurement is a scaled three-axis accelerometer reading in milli-g,
// where 1 g is 9.8 m/s².
type Measurement struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// UnscaledMeasurement is a raw three-axis reading in sensor counts, already
// right-shifted to remove the mode-dependent padding bits.
type UnscaledMeasurement struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
	Z int16 `json:"z"`
}

// AccelMode is the accelerometer operating mode. It is never stored as a
// separate field on the device; it is derived on demand from the cached
// CTRL_REG1_A and CTRL_REG4_A shadows.
type AccelMode uint8

const (
	// AccelModePowerDown keeps the ADC off. Readings are meaningless but
	// not rejected; the scaled conversion yields zero on every axis.
	AccelModePowerDown AccelMode = iota
	// AccelModeLowPower produces 8-bit samples.
	AccelModeLowPower
	// AccelModeNormal produces 10-bit samples.
	AccelModeNormal
	// AccelModeHighResolution produces 12-bit samples.
	AccelModeHighResolution
)

func (m AccelMode) String() string {
	switch m {
	case AccelModePowerDown:
		return "power-down"
	case AccelModeLowPower:
		return "low-power"
	case AccelModeNormal:
		return "normal"
	case AccelModeHighResolution:
		return "high-resolution"
	}
	return "unknown"
}

// AccelScale is the accelerometer full-scale range.
type AccelScale uint8

const (
	// AccelScale2G is ±2g.
	AccelScale2G AccelScale = iota
	// AccelScale4G is ±4g.
	AccelScale4G
	// AccelScale8G is ±8g.
	AccelScale8G
	// AccelScale16G is ±16g.
	AccelScale16G
)

// AccelOutputDataRate is the accelerometer sample rate. The zero value means
// "not yet configured"; the device powers up with the rate bits cleared.
type AccelOutputDataRate uint8

const (
	// AccelODR1Hz: 1 Hz (high-resolution/normal/low-power).
	AccelODR1Hz AccelOutputDataRate = iota + 1
	// AccelODR10Hz: 10 Hz.
	AccelODR10Hz
	// AccelODR25Hz: 25 Hz.
	AccelODR25Hz
	// AccelODR50Hz: 50 Hz.
	AccelODR50Hz
	// AccelODR100Hz: 100 Hz.
	AccelODR100Hz
	// AccelODR200Hz: 200 Hz.
	AccelODR200Hz
	// AccelODR400Hz: 400 Hz.
	AccelODR400Hz
	// AccelODR1344kHz: 1.344 kHz (high-resolution/normal only).
	AccelODR1344kHz
	// AccelODR1620kHzLowPower: 1.620 kHz (low-power only).
	AccelODR1620kHzLowPower
	// AccelODR5376kHzLowPower: 5.376 kHz (low-power only).
	AccelODR5376kHzLowPower
)

// regBits returns the ODR field value for CTRL_REG1_A bits 7:4, or 0 for an
// unconfigured rate.
func (r AccelOutputDataRate) regBits() uint8 {
	switch r {
	case AccelODR1Hz:
		return 0x1
	case AccelODR10Hz:
		return 0x2
	case AccelODR25Hz:
		return 0x3
	case AccelODR50Hz:
		return 0x4
	case AccelODR100Hz:
		return 0x5
	case AccelODR200Hz:
		return 0x6
	case AccelODR400Hz:
		return 0x7
	case AccelODR1620kHzLowPower:
		return 0x8
	case AccelODR1344kHz, AccelODR5376kHzLowPower:
		return 0x9
	}
	return 0
}

// lowPowerOnly reports whether the rate is only reachable in low-power mode.
func (r AccelOutputDataRate) lowPowerOnly() bool {
	return r == AccelODR1620kHzLowPower || r == AccelODR5376kHzLowPower
}

// MagOutputDataRate is the magnetometer sample rate.
type MagOutputDataRate uint8

const (
	// MagODR10Hz: 10 Hz.
	MagODR10Hz MagOutputDataRate = iota
	// MagODR20Hz: 20 Hz.
	MagODR20Hz
	// MagODR50Hz: 50 Hz.
	MagODR50Hz
	// MagODR100Hz: 100 Hz.
	MagODR100Hz
)

// MagMode is the magnetometer system mode (CFG_REG_A_M bits 1:0).
type MagMode uint8

const (
	// MagModeContinuous samples at the configured output data rate.
	MagModeContinuous MagMode = 0x0
	// MagModeSingle performs one measurement, then returns to idle. The
	// caller polls MagStatus for data-ready between trigger and read.
	MagModeSingle MagMode = 0x1
	// MagModeIdle keeps the magnetometer powered down.
	MagModeIdle MagMode = 0x3
)

// FifoMode selects how the accelerometer FIFO buffers samples.
type FifoMode uint8

const (
	// FifoModeBypass disables the FIFO; it remains empty. Power-on default.
	FifoModeBypass FifoMode = iota
	// FifoModeFifo fills the 32-sample buffer once and stops. After an
	// overrun the mode must transition through bypass to re-arm; see
	// RestartFifo.
	FifoModeFifo
	// FifoModeStream keeps filling, overwriting the oldest samples.
	FifoModeStream
	// FifoModeStreamToFifo streams until the selected interrupt fires,
	// then freezes like FIFO mode.
	FifoModeStreamToFifo
)

// IntPin selects one of the two interrupt lines.
type IntPin uint8

const (
	// IntPin1 routes to INT1.
	IntPin1 IntPin = 1
	// IntPin2 routes to INT2.
	IntPin2 IntPin = 2
)

// Status is the decoded STATUS_REG_A / STATUS_REG_M byte.
type Status struct {
	XYZOverrun bool `json:"xyz_overrun"`
	XOverrun   bool `json:"x_overrun"`
	YOverrun   bool `json:"y_overrun"`
	ZOverrun   bool `json:"z_overrun"`
	XYZNewData bool `json:"xyz_new_data"`
	XNewData   bool `json:"x_new_data"`
	YNewData   bool `json:"y_new_data"`
	ZNewData   bool `json:"z_new_data"`
}

// TemperatureStatus is the decoded STATUS_REG_AUX_A byte.
type TemperatureStatus struct {
	Overrun bool `json:"overrun"`
	NewData bool `json:"new_data"`
}

// InterruptStatus is the decoded INT1_SRC_A byte.
type InterruptStatus struct {
	Active bool `json:"active"`
	ZHigh  bool `json:"z_high"`
	ZLow   bool `json:"z_low"`
	YHigh  bool `json:"y_high"`
	YLow   bool `json:"y_low"`
	XHigh  bool `json:"x_high"`
	XLow   bool `json:"x_low"`
}

// FifoStatus is the decoded FIFO_SRC_REG_A byte.
type FifoStatus struct {
	// Watermark is set when the FIFO fill level exceeds the threshold.
	Watermark bool `json:"watermark"`
	// Overrun is set when the buffer holds 32 unread samples; at the next
	// ODR a new sample set replaces the oldest one.
	Overrun bool `json:"overrun"`
	// Empty is set when all samples have been read.
	Empty bool `json:"empty"`
	// UnreadSamples is the current number of unread sample sets (0-31).
	UnreadSamples uint8 `json:"unread_samples"`
}
