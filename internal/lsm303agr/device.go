// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lsm303agr drives the ST LSM303AGR accelerometer/magnetometer over
// I2C or SPI. The driver keeps an in-memory shadow of every writable control
// register: configuration changes read the shadow, compute the new byte,
// issue a single bus write and commit the shadow only on success. Registers
// are never read back from the hardware.
//
// Every operation is a blocking call owning the handle exclusively; the
// driver has no goroutines, no retries and no locking. All waiting for data
// is the caller's responsibility via the status registers.
package lsm303agr

import (
	"encoding/binary"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// Device is a handle to one LSM303AGR. It owns one transport per die and the
// shadow copies of the writable control registers, initialized to the
// device's power-on reset defaults.
type Device struct {
	accel Transport
	mag   Transport

	ctrlReg1A    regConfig
	ctrlReg3A    regConfig
	ctrlReg4A    regConfig
	ctrlReg5A    regConfig
	ctrlReg6A    regConfig
	tempCfgRegA  regConfig
	fifoCtrlRegA regConfig
	intCtrlRegM  regConfig
	cfgRegAM     regConfig
	cfgRegCM     regConfig

	// accelODR remembers the last configured rate so leaving power-down
	// mode can restore it.
	accelODR AccelOutputDataRate
}

// New creates a device handle over the given per-die transports. Useful for
// tests; production code uses NewI2C or NewSPI.
func New(accel, mag Transport) *Device {
	return &Device{
		accel: accel,
		mag:   mag,
		// Power-on reset defaults per datasheet: everything zero except
		// CTRL_REG1_A (axes enabled, ODR off) and CFG_REG_A_M (idle).
		ctrlReg1A: regConfig{bits: 0x07},
		cfgRegAM:  regConfig{bits: 0x03},
	}
}

// NewI2C creates a device handle communicating over a shared I2C bus. Both
// dies live on the same bus at fixed slave addresses.
func NewI2C(bus i2c.Bus) *Device {
	return New(
		newI2CTransport(bus, accelI2CAddr),
		newI2CTransport(bus, magI2CAddr),
	)
}

// NewSPI creates a device handle communicating over SPI, with one
// chip-select pin per die.
func NewSPI(conn spi.Conn, csAccel, csMag gpio.PinOut) *Device {
	return New(
		newSPITransport(conn, csAccel),
		newSPITransport(conn, csMag),
	)
}

// Init brings the device into a defined state: temperature sensor enabled,
// block data update on both dies, FIFO in bypass, interrupt routing cleared.
// Each step follows read-shadow, mutate, write, commit-on-success. On a
// write failure Init stops immediately and returns the transport error;
// registers already written stay committed in the shadow, so the caller
// must retry Init or treat the device as unusable.
func (d *Device) Init() error {
	tempCfg := d.tempCfgRegA.withHigh(bfTempEn0).withHigh(bfTempEn1)
	if err := d.accel.WriteRegister(regTempCfgRegA, tempCfg.bits); err != nil {
		return err
	}
	d.tempCfgRegA = tempCfg

	// Written unchanged to establish a defined state; interrupt routing is
	// configured later by EnableFifo.
	if err := d.accel.WriteRegister(regCtrlReg3A, d.ctrlReg3A.bits); err != nil {
		return err
	}

	// Block data update: output registers hold until both bytes are read,
	// so a measurement can never straddle an internal update.
	reg4 := d.ctrlReg4A.withHigh(bfAccelBDU)
	if err := d.accel.WriteRegister(regCtrlReg4A, reg4.bits); err != nil {
		return err
	}
	d.ctrlReg4A = reg4

	if err := d.accel.WriteRegister(regCtrlReg5A, d.ctrlReg5A.bits); err != nil {
		return err
	}

	// Bypass mode, the power-on default.
	if err := d.accel.WriteRegister(regFifoCtrlRegA, d.fifoCtrlRegA.bits); err != nil {
		return err
	}

	if err := d.accel.WriteRegister(regIntCtrlRegM, d.intCtrlRegM.bits); err != nil {
		return err
	}

	regC := d.cfgRegCM.withHigh(bfMagBDU)
	if err := d.mag.WriteRegister(regCfgRegCM, regC.bits); err != nil {
		return err
	}
	d.cfgRegCM = regC
	return nil
}

// AccelStatus reads and decodes STATUS_REG_A.
func (d *Device) AccelStatus() (Status, error) {
	st, err := d.accel.ReadRegister(regStatusRegA)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(st), nil
}

// MagStatus reads and decodes STATUS_REG_M.
func (d *Device) MagStatus() (Status, error) {
	st, err := d.mag.ReadRegister(regStatusRegM)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(st), nil
}

// TemperatureStatus reads and decodes STATUS_REG_AUX_A.
func (d *Device) TemperatureStatus() (TemperatureStatus, error) {
	st, err := d.accel.ReadRegister(regStatusRegAuxA)
	if err != nil {
		return TemperatureStatus{}, err
	}
	return decodeTemperatureStatus(st), nil
}

// InterruptStatus reads and decodes INT1_SRC_A.
func (d *Device) InterruptStatus() (InterruptStatus, error) {
	st, err := d.accel.ReadRegister(regInt1SrcA)
	if err != nil {
		return InterruptStatus{}, err
	}
	return decodeInterruptStatus(st), nil
}

// AccelerometerID reads the accelerometer WHO_AM_I register.
func (d *Device) AccelerometerID() (uint8, error) {
	return d.accel.ReadRegister(regWhoAmIA)
}

// AccelerometerIsDetected reads and verifies the accelerometer device ID.
// A transport failure is surfaced, never treated as "not present".
func (d *Device) AccelerometerIsDetected() (bool, error) {
	id, err := d.AccelerometerID()
	if err != nil {
		return false, err
	}
	return id == whoAmIAccelVal, nil
}

// MagnetometerID reads the magnetometer WHO_AM_I register.
func (d *Device) MagnetometerID() (uint8, error) {
	return d.mag.ReadRegister(regWhoAmIM)
}

// MagnetometerIsDetected reads and verifies the magnetometer device ID.
func (d *Device) MagnetometerIsDetected() (bool, error) {
	id, err := d.MagnetometerID()
	if err != nil {
		return false, err
	}
	return id == whoAmIMagVal, nil
}

// AccelMode derives the operating mode from the cached control registers.
func (d *Device) AccelMode() AccelMode {
	switch {
	case d.ctrlReg1A.bits&maskAccelODR == 0:
		return AccelModePowerDown
	case d.ctrlReg1A.isHigh(bfLPEn):
		return AccelModeLowPower
	case d.ctrlReg4A.isHigh(bfHR):
		return AccelModeHighResolution
	default:
		return AccelModeNormal
	}
}

// SetAccelMode switches the operating mode. Power-down clears the rate bits
// but keeps the configured rate cached; the other modes restore it. Mode and
// rate combinations the hardware cannot express are rejected with
// ErrInvalidInputData before any bus traffic.
func (d *Device) SetAccelMode(mode AccelMode) error {
	switch mode {
	case AccelModePowerDown:
		reg1 := d.ctrlReg1A.withLow(maskAccelODR)
		if err := d.accel.WriteRegister(regCtrlReg1A, reg1.bits); err != nil {
			return err
		}
		d.ctrlReg1A = reg1
		return nil

	case AccelModeLowPower:
		if d.accelODR == AccelODR1344kHz {
			return ErrInvalidInputData
		}
		reg4 := d.ctrlReg4A.withLow(bfHR)
		if err := d.accel.WriteRegister(regCtrlReg4A, reg4.bits); err != nil {
			return err
		}
		d.ctrlReg4A = reg4
		reg1 := d.restoreODR(d.ctrlReg1A.withHigh(bfLPEn))
		if err := d.accel.WriteRegister(regCtrlReg1A, reg1.bits); err != nil {
			return err
		}
		d.ctrlReg1A = reg1
		return nil

	case AccelModeNormal, AccelModeHighResolution:
		if d.accelODR.lowPowerOnly() {
			return ErrInvalidInputData
		}
		reg4 := d.ctrlReg4A.withLow(bfHR)
		if mode == AccelModeHighResolution {
			reg4 = d.ctrlReg4A.withHigh(bfHR)
		}
		if err := d.accel.WriteRegister(regCtrlReg4A, reg4.bits); err != nil {
			return err
		}
		d.ctrlReg4A = reg4
		reg1 := d.restoreODR(d.ctrlReg1A.withLow(bfLPEn))
		if err := d.accel.WriteRegister(regCtrlReg1A, reg1.bits); err != nil {
			return err
		}
		d.ctrlReg1A = reg1
		return nil
	}
	return ErrInvalidInputData
}

// restoreODR puts the cached rate back into a CTRL_REG1_A value whose rate
// bits were cleared by a previous power-down.
func (d *Device) restoreODR(cfg regConfig) regConfig {
	if cfg.bits&maskAccelODR == 0 && d.accelODR != 0 {
		cfg = cfg.withHigh(d.accelODR.regBits() << 4)
	}
	return cfg
}

// SetAccelODR configures the sample rate. The rate bits are cleared before
// the new value is set so stale bits never combine with the selection. The
// low-power-only rates force LPen on; 1.344 kHz forces it off.
func (d *Device) SetAccelODR(rate AccelOutputDataRate) error {
	bits := rate.regBits()
	if bits == 0 {
		return ErrInvalidInputData
	}
	if rate.lowPowerOnly() && d.ctrlReg4A.isHigh(bfHR) {
		return ErrInvalidInputData
	}
	reg1 := d.ctrlReg1A.withLow(maskAccelODR).withHigh(bits << 4)
	switch {
	case rate.lowPowerOnly():
		reg1 = reg1.withHigh(bfLPEn)
	case rate == AccelODR1344kHz:
		reg1 = reg1.withLow(bfLPEn)
	}
	if err := d.accel.WriteRegister(regCtrlReg1A, reg1.bits); err != nil {
		return err
	}
	d.ctrlReg1A = reg1
	d.accelODR = rate
	return nil
}

// AccelScale derives the full-scale range from the cached CTRL_REG4_A.
func (d *Device) AccelScale() AccelScale {
	return AccelScale(d.ctrlReg4A.bits >> 4 & 0x3)
}

// SetAccelScale configures the full-scale range.
func (d *Device) SetAccelScale(scale AccelScale) error {
	reg4 := d.ctrlReg4A.withLow(maskAccelScale).withHigh(uint8(scale) << 4)
	if err := d.accel.WriteRegister(regCtrlReg4A, reg4.bits); err != nil {
		return err
	}
	d.ctrlReg4A = reg4
	return nil
}

// AccelDataUnscaled reads the three axis registers in one burst and removes
// the mode-dependent padding bits. In power-down mode the raw words are
// passed through untouched.
func (d *Device) AccelDataUnscaled() (UnscaledMeasurement, error) {
	var buf [6]byte
	if err := d.accel.ReadBurst(regOutXLA, buf[:]); err != nil {
		return UnscaledMeasurement{}, err
	}
	div := int16(1) << resolutionShift(d.AccelMode())
	return UnscaledMeasurement{
		X: int16(binary.LittleEndian.Uint16(buf[0:2])) / div,
		Y: int16(binary.LittleEndian.Uint16(buf[2:4])) / div,
		Z: int16(binary.LittleEndian.Uint16(buf[4:6])) / div,
	}, nil
}

// AccelData reads one acceleration sample scaled to milli-g according to the
// currently cached operating mode and full-scale range. In power-down mode
// every axis reads as zero.
func (d *Device) AccelData() (Measurement, error) {
	unscaled, err := d.AccelDataUnscaled()
	if err != nil {
		return Measurement{}, err
	}
	factor := scalingFactor(d.AccelMode(), d.AccelScale())
	return Measurement{
		X: int32(unscaled.X) * factor,
		Y: int32(unscaled.Y) * factor,
		Z: int32(unscaled.Z) * factor,
	}, nil
}

// AccelBurst reads len(buf) bytes starting at the first axis output
// register. With the FIFO enabled this drains up to 32 queued sample sets
// (6 bytes each, oldest first) in a single bus transaction.
func (d *Device) AccelBurst(buf []byte) error {
	return d.accel.ReadBurst(regOutXLA, buf)
}

// TemperatureRaw reads the signed 16-bit temperature delta.
func (d *Device) TemperatureRaw() (int16, error) {
	var buf [2]byte
	if err := d.accel.ReadBurst(regOutTempLA, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// TemperatureCelsius reads the temperature sensor. The raw value is a delta
// in 1/256 °C steps from the datasheet-defined 25 °C reference.
func (d *Device) TemperatureCelsius() (float64, error) {
	raw, err := d.TemperatureRaw()
	if err != nil {
		return 0, err
	}
	return float64(raw)/256.0 + 25.0, nil
}

// SetMagODR configures the magnetometer sample rate.
func (d *Device) SetMagODR(rate MagOutputDataRate) error {
	regA := d.cfgRegAM.withLow(maskMagODR).withHigh(uint8(rate) << 2)
	if err := d.mag.WriteRegister(regCfgRegAM, regA.bits); err != nil {
		return err
	}
	d.cfgRegAM = regA
	return nil
}

// SetMagMode switches the magnetometer between continuous, single-shot and
// idle operation. In single-shot mode the measurement starts when the mode
// is written; the caller polls MagStatus for data-ready before MagData.
func (d *Device) SetMagMode(mode MagMode) error {
	regA := d.cfgRegAM.withLow(maskMagMode).withHigh(uint8(mode))
	if err := d.mag.WriteRegister(regCfgRegAM, regA.bits); err != nil {
		return err
	}
	d.cfgRegAM = regA
	return nil
}

// MagMode returns the magnetometer mode from the cached CFG_REG_A_M. The
// reset value reads as idle.
func (d *Device) MagMode() MagMode {
	mode := MagMode(d.cfgRegAM.bits & maskMagMode)
	if mode == 0x2 {
		mode = MagModeIdle
	}
	return mode
}

// MagDataUnscaled reads the three magnetometer axis registers in one burst.
func (d *Device) MagDataUnscaled() (UnscaledMeasurement, error) {
	var buf [6]byte
	if err := d.mag.ReadBurst(regOutXLM, buf[:]); err != nil {
		return UnscaledMeasurement{}, err
	}
	return UnscaledMeasurement{
		X: int16(binary.LittleEndian.Uint16(buf[0:2])),
		Y: int16(binary.LittleEndian.Uint16(buf[2:4])),
		Z: int16(binary.LittleEndian.Uint16(buf[4:6])),
	}, nil
}

// MagData reads one magnetic field sample in nanotesla. The sensitivity is
// a fixed 1.5 mgauss per count, i.e. 150 nT.
func (d *Device) MagData() (Measurement, error) {
	unscaled, err := d.MagDataUnscaled()
	if err != nil {
		return Measurement{}, err
	}
	const nanoteslaPerCount = 150
	return Measurement{
		X: int32(unscaled.X) * nanoteslaPerCount,
		Y: int32(unscaled.Y) * nanoteslaPerCount,
		Z: int32(unscaled.Z) * nanoteslaPerCount,
	}, nil
}

// EnableFifo configures and arms the accelerometer FIFO. The write order is
// fixed by the hardware: overrun interrupt routing, interrupt polarity and
// latching, then the FIFO enable bit, and only then the mode bits. Setting
// the mode before the enable bit is a no-op on the chip. The mode bits are
// cleared before being set so a previous mode never bleeds into the new
// selection. A write failure aborts the sequence with the earlier writes
// already committed to the shadow, same as Init.
func (d *Device) EnableFifo(mode FifoMode, pin IntPin, latched, activeHigh bool) error {
	reg3 := d.ctrlReg3A.withHigh(bfI1Overrun)
	if err := d.accel.WriteRegister(regCtrlReg3A, reg3.bits); err != nil {
		return err
	}
	d.ctrlReg3A = reg3

	intCtrl := d.intCtrlRegM.withHigh(bfIEN)
	if activeHigh {
		intCtrl = intCtrl.withHigh(bfIEA)
	} else {
		intCtrl = intCtrl.withLow(bfIEA)
	}
	if latched {
		intCtrl = intCtrl.withHigh(bfIEL)
	} else {
		intCtrl = intCtrl.withLow(bfIEL)
	}
	if err := d.accel.WriteRegister(regIntCtrlRegM, intCtrl.bits); err != nil {
		return err
	}
	d.intCtrlRegM = intCtrl

	reg5 := d.ctrlReg5A.withHigh(bfFifoEn)
	if err := d.accel.WriteRegister(regCtrlReg5A, reg5.bits); err != nil {
		return err
	}
	d.ctrlReg5A = reg5

	fifoCtrl := d.fifoCtrlRegA.withLow(maskFifoMode).withHigh(fifoModeBits(mode))
	if pin == IntPin2 {
		fifoCtrl = fifoCtrl.withHigh(bfFifoTrigger)
	} else {
		fifoCtrl = fifoCtrl.withLow(bfFifoTrigger)
	}
	if err := d.accel.WriteRegister(regFifoCtrlRegA, fifoCtrl.bits); err != nil {
		return err
	}
	d.fifoCtrlRegA = fifoCtrl
	return nil
}

// RestartFifo re-arms FIFO mode after the buffer has filled and overrun.
// The hardware only re-arms capture on a mode transition, never on writing
// the same mode twice, so this forces bypass first and then FIFO mode.
func (d *Device) RestartFifo() error {
	fifoCtrl := d.fifoCtrlRegA.withLow(maskFifoMode).withHigh(bfFifoModeBypass)
	if err := d.accel.WriteRegister(regFifoCtrlRegA, fifoCtrl.bits); err != nil {
		return err
	}
	d.fifoCtrlRegA = fifoCtrl

	fifoCtrl = d.fifoCtrlRegA.withLow(maskFifoMode).withHigh(bfFifoModeFifo)
	if err := d.accel.WriteRegister(regFifoCtrlRegA, fifoCtrl.bits); err != nil {
		return err
	}
	d.fifoCtrlRegA = fifoCtrl
	return nil
}

// FifoMode returns the FIFO mode from the cached FIFO_CTRL_REG_A.
func (d *Device) FifoMode() FifoMode {
	switch d.fifoCtrlRegA.bits & maskFifoMode {
	case bfFifoModeFifo:
		return FifoModeFifo
	case bfFifoModeStream:
		return FifoModeStream
	case bfFifoModeStreamFifo:
		return FifoModeStreamToFifo
	}
	return FifoModeBypass
}

// FifoStatus reads and decodes FIFO_SRC_REG_A.
func (d *Device) FifoStatus() (FifoStatus, error) {
	st, err := d.accel.ReadRegister(regFifoSrcRegA)
	if err != nil {
		return FifoStatus{}, err
	}
	return decodeFifoStatus(st), nil
}

func fifoModeBits(mode FifoMode) uint8 {
	switch mode {
	case FifoModeFifo:
		return bfFifoModeFifo
	case FifoModeStream:
		return bfFifoModeStream
	case FifoModeStreamToFifo:
		return bfFifoModeStreamFifo
	}
	return bfFifoModeBypass
}

// ReadAccelRegister reads any accelerometer-die register. Debug use.
func (d *Device) ReadAccelRegister(addr uint8) (uint8, error) {
	return d.accel.ReadRegister(addr)
}

// ReadMagRegister reads any magnetometer-die register. Debug use.
func (d *Device) ReadMagRegister(addr uint8) (uint8, error) {
	return d.mag.ReadRegister(addr)
}

// WriteAccelRegister writes any accelerometer-die register directly,
// bypassing the shadow state. Debug use only: a shadowed control register
// written through here goes out of sync until the next Init.
func (d *Device) WriteAccelRegister(addr, value uint8) error {
	return d.accel.WriteRegister(addr, value)
}

// WriteMagRegister writes any magnetometer-die register directly, bypassing
// the shadow state. Debug use only.
func (d *Device) WriteMagRegister(addr, value uint8) error {
	return d.mag.WriteRegister(addr, value)
}
