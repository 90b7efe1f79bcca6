// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// Transport performs byte-oriented register access against one die of the
// chip. Implementations must guarantee that ReadBurst returns bytes in
// increasing register-address order. All failures are reported as *CommError
// or *PinError.
type Transport interface {
	ReadRegister(addr uint8) (uint8, error)
	WriteRegister(addr, value uint8) error
	ReadBurst(addr uint8, buf []byte) error
}

// i2cTransport frames register access for one die on a shared I2C bus.
type i2cTransport struct {
	dev i2c.Dev
}

// newI2CTransport wraps one slave address on bus.
func newI2CTransport(bus i2c.Bus, addr uint16) *i2cTransport {
	return &i2cTransport{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

func (t *i2cTransport) ReadRegister(addr uint8) (uint8, error) {
	var buf [1]byte
	if err := t.dev.Tx([]byte{addr}, buf[:]); err != nil {
		return 0, &CommError{Err: err}
	}
	return buf[0], nil
}

func (t *i2cTransport) WriteRegister(addr, value uint8) error {
	if err := t.dev.Tx([]byte{addr, value}, nil); err != nil {
		return &CommError{Err: err}
	}
	return nil
}

func (t *i2cTransport) ReadBurst(addr uint8, buf []byte) error {
	// MSB of the register address enables address auto-increment.
	if err := t.dev.Tx([]byte{addr | i2cAutoIncrement}, buf); err != nil {
		return &CommError{Err: err}
	}
	return nil
}

// spiTransport frames register access for one die on a chip-select-qualified
// SPI link. Bit 7 of the address byte selects read, bit 6 enables address
// auto-increment.
type spiTransport struct {
	conn spi.Conn
	cs   gpio.PinOut
}

// newSPITransport wraps a connected SPI port and the die's chip-select pin.
func newSPITransport(conn spi.Conn, cs gpio.PinOut) *spiTransport {
	return &spiTransport{conn: conn, cs: cs}
}

func (t *spiTransport) ReadRegister(addr uint8) (uint8, error) {
	tx := []byte{addr | spiRead, 0}
	rx := make([]byte, len(tx))
	if err := t.transfer(tx, rx); err != nil {
		return 0, err
	}
	return rx[1], nil
}

func (t *spiTransport) WriteRegister(addr, value uint8) error {
	return t.transfer([]byte{addr &^ spiRead, value}, nil)
}

func (t *spiTransport) ReadBurst(addr uint8, buf []byte) error {
	tx := make([]byte, len(buf)+1)
	tx[0] = addr | spiRead | spiAutoIncrement
	rx := make([]byte, len(tx))
	if err := t.transfer(tx, rx); err != nil {
		return err
	}
	copy(buf, rx[1:])
	return nil
}

// transfer runs one full-duplex frame with the chip selected. The deselect
// is attempted even after a bus error; a pin failure on either edge is
// surfaced as *PinError.
func (t *spiTransport) transfer(tx, rx []byte) error {
	if err := t.cs.Out(gpio.Low); err != nil {
		return &PinError{Err: err}
	}
	txErr := t.conn.Tx(tx, rx)
	if err := t.cs.Out(gpio.High); err != nil {
		return &PinError{Err: err}
	}
	if txErr != nil {
		return &CommError{Err: txErr}
	}
	return nil
}
