// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

// I2C slave addresses for the two dies.
const (
	accelI2CAddr = 0x19
	magI2CAddr   = 0x1E
)

// WHO_AM_I values.
const (
	whoAmIAccelVal = 0x33
	whoAmIMagVal   = 0x40
)

// Register addresses. The accelerometer and magnetometer are separate dies
// with separate address spaces; each constant is only valid on its own die.
const (
	regStatusRegAuxA = 0x07
	regOutTempLA     = 0x0C
	regWhoAmIA       = 0x0F
	regTempCfgRegA   = 0x1F
	regCtrlReg1A     = 0x20
	regCtrlReg3A     = 0x22
	regCtrlReg4A     = 0x23
	regCtrlReg5A     = 0x24
	regCtrlReg6A     = 0x25
	regStatusRegA    = 0x27
	regOutXLA        = 0x28
	regFifoCtrlRegA  = 0x2E
	regFifoSrcRegA   = 0x2F
	regInt1CfgA      = 0x30
	regInt1SrcA      = 0x31

	regWhoAmIM     = 0x4F
	regCfgRegAM    = 0x60
	regCfgRegCM    = 0x62
	regIntCtrlRegM = 0x63
	regStatusRegM  = 0x67
	regOutXLM      = 0x68
)

// SPI frame bits encoded in the register address byte.
const (
	spiRead          = 1 << 7
	spiAutoIncrement = 1 << 6
)

// I2C multi-byte reads auto-increment when the MSB of the register
// address is set.
const i2cAutoIncrement = 1 << 7

// Bit flags, grouped by register.
const (
	// CTRL_REG1_A
	bfLPEn       = 1 << 3
	maskAccelODR = 0xF << 4

	// CTRL_REG4_A
	bfAccelBDU     = 1 << 7
	bfHR           = 1 << 3
	maskAccelScale = 3 << 4

	// CTRL_REG5_A
	bfFifoEn = 1 << 6

	// CTRL_REG3_A
	bfI1Overrun = 1 << 1
	bfI1WTM     = 1 << 2

	// TEMP_CFG_REG_A
	bfTempEn0 = 1 << 6
	bfTempEn1 = 1 << 7

	// STATUS_REG_A / STATUS_REG_M
	bfXDR   = 1 << 0
	bfYDR   = 1 << 1
	bfZDR   = 1 << 2
	bfXYZDR = 1 << 3
	bfXOR   = 1 << 4
	bfYOR   = 1 << 5
	bfZOR   = 1 << 6
	bfXYZOR = 1 << 7

	// STATUS_REG_AUX_A
	bfTDA = 1 << 2
	bfTOR = 1 << 6

	// FIFO_CTRL_REG_A
	bfFifoTrigger        = 1 << 5
	maskFifoMode         = 3 << 6
	bfFifoModeBypass     = 0 << 6
	bfFifoModeFifo       = 1 << 6
	bfFifoModeStream     = 2 << 6
	bfFifoModeStreamFifo = 3 << 6

	// FIFO_SRC_REG_A
	bfFifoWTM   = 1 << 7
	bfFifoOvrn  = 1 << 6
	bfFifoEmpty = 1 << 5
	maskFifoFSS = 0x1F

	// INT1_SRC_A
	bfInt1IA = 1 << 6
	bfInt1ZH = 1 << 5
	bfInt1ZL = 1 << 4
	bfInt1YH = 1 << 3
	bfInt1YL = 1 << 2
	bfInt1XH = 1 << 1
	bfInt1XL = 1 << 0

	// INT_CTRL_REG_M
	bfIEA = 1 << 2
	bfIEL = 1 << 1
	bfIEN = 1 << 0

	// CFG_REG_A_M
	maskMagODR  = 3 << 2
	maskMagMode = 0x3

	// CFG_REG_C_M
	bfMagBDU = 1 << 4
)
