// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/compass_computer/internal/compass"
	"github.com/relabs-tech/compass_computer/internal/config"
	"github.com/relabs-tech/compass_computer/internal/env"
	"github.com/relabs-tech/compass_computer/internal/lsm303agr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// CompassManager owns the single LSM303AGR device and serializes access to
// it across the producer, the register debug tool and the web server.
type CompassManager struct {
	mu        sync.Mutex
	dev       *lsm303agr.Device
	bus       string // "i2c" or "spi", for sample tagging
	available bool
}

var (
	managerInstance *CompassManager
	managerOnce     sync.Once
)

// GetCompassManager returns the process-wide compass manager.
func GetCompassManager() *CompassManager {
	managerOnce.Do(func() {
		managerInstance = &CompassManager{}
	})
	return managerInstance
}

// Init opens the configured bus, detects both dies and applies the
// configured accelerometer, magnetometer and FIFO settings.
func (m *CompassManager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.available {
		return nil
	}

	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("compass: periph host init: %w", err)
	}

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}

	accelOK, err := dev.AccelerometerIsDetected()
	if err != nil {
		return fmt.Errorf("compass: accelerometer WHO_AM_I: %w", err)
	}
	if !accelOK {
		id, _ := dev.AccelerometerID()
		return fmt.Errorf("compass: accelerometer not detected (WHO_AM_I=0x%02X)", id)
	}
	magOK, err := dev.MagnetometerIsDetected()
	if err != nil {
		return fmt.Errorf("compass: magnetometer WHO_AM_I: %w", err)
	}
	if !magOK {
		id, _ := dev.MagnetometerID()
		return fmt.Errorf("compass: magnetometer not detected (WHO_AM_I=0x%02X)", id)
	}
	log.Printf("compass: LSM303AGR detected on %s", cfg.CompassBus)

	if err := dev.Init(); err != nil {
		return fmt.Errorf("compass: initialization: %w", err)
	}

	if err := applyConfig(dev, cfg); err != nil {
		return err
	}

	m.dev = dev
	m.bus = cfg.CompassBus
	m.available = true
	return nil
}

// openDevice builds the device over the configured transport.
func openDevice(cfg *config.Config) (*lsm303agr.Device, error) {
	switch cfg.CompassBus {
	case "spi":
		port, err := spireg.Open(cfg.CompassSPIDevice)
		if err != nil {
			return nil, fmt.Errorf("compass: SPI open (%s): %w", cfg.CompassSPIDevice, err)
		}
		speed := physic.Frequency(cfg.CompassSPISpeedHz) * physic.Hertz
		conn, err := port.Connect(speed, spi.Mode3, 8)
		if err != nil {
			return nil, fmt.Errorf("compass: SPI connect: %w", err)
		}
		csAccel := gpioreg.ByName(cfg.CompassCSAccelPin)
		if csAccel == nil {
			return nil, fmt.Errorf("compass: CS pin %q not found", cfg.CompassCSAccelPin)
		}
		csMag := gpioreg.ByName(cfg.CompassCSMagPin)
		if csMag == nil {
			return nil, fmt.Errorf("compass: CS pin %q not found", cfg.CompassCSMagPin)
		}
		// Both dies idle deselected.
		if err := csAccel.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("compass: deselect accel CS: %w", err)
		}
		if err := csMag.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("compass: deselect mag CS: %w", err)
		}
		return lsm303agr.NewSPI(conn, csAccel, csMag), nil

	default: // "i2c"
		bus, err := i2creg.Open(cfg.CompassI2CBus)
		if err != nil {
			return nil, fmt.Errorf("compass: I2C open (%s): %w", cfg.CompassI2CBus, err)
		}
		return lsm303agr.NewI2C(bus), nil
	}
}

// applyConfig pushes the configured operating parameters to the device.
func applyConfig(dev *lsm303agr.Device, cfg *config.Config) error {
	scale := lsm303agr.AccelScale(cfg.AccelScale)
	if err := dev.SetAccelScale(scale); err != nil {
		return fmt.Errorf("compass: set accel scale: %w", err)
	}
	log.Printf("compass: accelerometer scale set to %d (±%dg)", cfg.AccelScale, []int{2, 4, 8, 16}[cfg.AccelScale])

	if err := dev.SetAccelODR(accelODRFromHz(cfg.AccelODRHz)); err != nil {
		return fmt.Errorf("compass: set accel ODR: %w", err)
	}
	log.Printf("compass: accelerometer ODR set to %d Hz", cfg.AccelODRHz)

	if err := dev.SetAccelMode(accelModeFromString(cfg.AccelMode)); err != nil {
		return fmt.Errorf("compass: set accel mode: %w", err)
	}
	log.Printf("compass: accelerometer mode set to %s", dev.AccelMode())

	if err := dev.SetMagODR(magODRFromHz(cfg.MagODRHz)); err != nil {
		return fmt.Errorf("compass: set mag ODR: %w", err)
	}
	log.Printf("compass: magnetometer ODR set to %d Hz", cfg.MagODRHz)

	if err := dev.SetMagMode(magModeFromString(cfg.MagMode)); err != nil {
		return fmt.Errorf("compass: set mag mode: %w", err)
	}
	log.Printf("compass: magnetometer mode set to %s", cfg.MagMode)

	if cfg.FifoEnabled {
		pin := lsm303agr.IntPin1
		if cfg.FifoIntPin == 2 {
			pin = lsm303agr.IntPin2
		}
		mode := lsm303agr.FifoMode(cfg.FifoMode)
		if err := dev.EnableFifo(mode, pin, cfg.FifoLatched, cfg.FifoActiveHigh); err != nil {
			return fmt.Errorf("compass: enable FIFO: %w", err)
		}
		log.Printf("compass: FIFO enabled (mode=%d, pin=INT%d, latched=%v, activeHigh=%v)",
			cfg.FifoMode, cfg.FifoIntPin, cfg.FifoLatched, cfg.FifoActiveHigh)
	}

	return nil
}

func accelModeFromString(s string) lsm303agr.AccelMode {
	switch s {
	case "low_power":
		return lsm303agr.AccelModeLowPower
	case "high_resolution":
		return lsm303agr.AccelModeHighResolution
	}
	return lsm303agr.AccelModeNormal
}

func accelODRFromHz(hz int) lsm303agr.AccelOutputDataRate {
	switch hz {
	case 1:
		return lsm303agr.AccelODR1Hz
	case 10:
		return lsm303agr.AccelODR10Hz
	case 25:
		return lsm303agr.AccelODR25Hz
	case 50:
		return lsm303agr.AccelODR50Hz
	case 200:
		return lsm303agr.AccelODR200Hz
	case 400:
		return lsm303agr.AccelODR400Hz
	}
	return lsm303agr.AccelODR100Hz
}

func magODRFromHz(hz int) lsm303agr.MagOutputDataRate {
	switch hz {
	case 20:
		return lsm303agr.MagODR20Hz
	case 50:
		return lsm303agr.MagODR50Hz
	case 100:
		return lsm303agr.MagODR100Hz
	}
	return lsm303agr.MagODR10Hz
}

func magModeFromString(s string) lsm303agr.MagMode {
	switch s {
	case "single":
		return lsm303agr.MagModeSingle
	case "idle":
		return lsm303agr.MagModeIdle
	}
	return lsm303agr.MagModeContinuous
}

// IsAvailable reports whether Init succeeded.
func (m *CompassManager) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// ReadSample reads one scaled accelerometer sample.
func (m *CompassManager) ReadSample() (compass.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return compass.Sample{}, fmt.Errorf("compass: not initialized")
	}

	raw, err := m.dev.AccelDataUnscaled()
	if err != nil {
		return compass.Sample{}, fmt.Errorf("compass: accel read: %w", err)
	}
	scaled, err := m.dev.AccelData()
	if err != nil {
		return compass.Sample{}, fmt.Errorf("compass: accel read: %w", err)
	}

	return compass.Sample{
		Source: m.bus,
		Ax:     scaled.X,
		Ay:     scaled.Y,
		Az:     scaled.Z,
		RawX:   raw.X,
		RawY:   raw.Y,
		RawZ:   raw.Z,
		Time:   time.Now().Format(time.RFC3339),
	}, nil
}

// ReadMag reads one scaled magnetometer sample. Heading is filled in by the
// producer once a matching accelerometer sample is available.
func (m *CompassManager) ReadMag() (compass.MagSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return compass.MagSample{}, fmt.Errorf("compass: not initialized")
	}

	field, err := m.dev.MagData()
	if err != nil {
		return compass.MagSample{}, fmt.Errorf("compass: mag read: %w", err)
	}

	x := float64(field.X)
	y := float64(field.Y)
	z := float64(field.Z)

	return compass.MagSample{
		Source: m.bus,
		Mx:     field.X,
		My:     field.Y,
		Mz:     field.Z,
		Norm:   math.Sqrt(x*x + y*y + z*z),
		Time:   time.Now().Format(time.RFC3339),
	}, nil
}

// ReadEnv reads the die temperature.
func (m *CompassManager) ReadEnv() (env.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return env.Sample{}, fmt.Errorf("compass: not initialized")
	}

	temp, err := m.dev.TemperatureCelsius()
	if err != nil {
		return env.Sample{}, fmt.Errorf("compass: temperature read: %w", err)
	}

	return env.Sample{
		Source:      m.bus,
		Temperature: temp,
	}, nil
}

// AccelDataReady reports whether a new accelerometer sample is waiting.
func (m *CompassManager) AccelDataReady() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return false, fmt.Errorf("compass: not initialized")
	}
	st, err := m.dev.AccelStatus()
	if err != nil {
		return false, err
	}
	return st.XYZNewData, nil
}

// FifoStatus returns the current FIFO fill state.
func (m *CompassManager) FifoStatus() (lsm303agr.FifoStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return lsm303agr.FifoStatus{}, fmt.Errorf("compass: not initialized")
	}
	return m.dev.FifoStatus()
}

// RestartFifo re-arms the FIFO after an overrun.
func (m *CompassManager) RestartFifo() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return fmt.Errorf("compass: not initialized")
	}
	return m.dev.RestartFifo()
}

// ReadRegister reads one register from the named die ("accel" or "mag").
func (m *CompassManager) ReadRegister(die string, addr uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return 0, fmt.Errorf("compass: not initialized")
	}
	if die == "mag" {
		return m.dev.ReadMagRegister(addr)
	}
	return m.dev.ReadAccelRegister(addr)
}

// WriteRegister writes one register on the named die ("accel" or "mag").
func (m *CompassManager) WriteRegister(die string, addr, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return fmt.Errorf("compass: not initialized")
	}
	if die == "mag" {
		return m.dev.WriteMagRegister(addr, value)
	}
	return m.dev.WriteAccelRegister(addr, value)
}

// ReadAllRegisters reads every documented register of the named die.
func (m *CompassManager) ReadAllRegisters(die string) (map[uint8]uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return nil, fmt.Errorf("compass: not initialized")
	}

	regMap := GetRegisterMap(die)
	values := make(map[uint8]uint8, len(regMap))
	for _, reg := range regMap {
		var addr uint8
		if _, err := fmt.Sscanf(reg.Address, "0x%X", &addr); err != nil {
			return nil, fmt.Errorf("compass: bad register address %q: %w", reg.Address, err)
		}
		var v uint8
		var err error
		if die == "mag" {
			v, err = m.dev.ReadMagRegister(addr)
		} else {
			v, err = m.dev.ReadAccelRegister(addr)
		}
		if err != nil {
			return nil, fmt.Errorf("compass: read register 0x%02X: %w", addr, err)
		}
		values[addr] = v
	}
	return values, nil
}

// GetRegisterMap returns the register metadata for the named die.
func GetRegisterMap(die string) []RegisterInfo {
	if die == "mag" {
		return getMagRegisterMap()
	}
	return getAccelRegisterMap()
}

// Reinitialize re-runs the power-on sequence and re-applies the configured
// operating parameters. Used by the register debug tool after manual writes.
func (m *CompassManager) Reinitialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return fmt.Errorf("compass: not initialized")
	}

	cfg := config.Get()
	if err := m.dev.Init(); err != nil {
		return fmt.Errorf("compass: reinitialization: %w", err)
	}
	return applyConfig(m.dev, cfg)
}
