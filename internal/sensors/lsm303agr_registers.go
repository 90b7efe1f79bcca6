// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// BitField describes one field inside a register for the debug UI.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo holds metadata for one register.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// getAccelRegisterMap returns metadata for the accelerometer-die registers
// of the LSM303AGR.
func getAccelRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: "0x07", Name: "STATUS_REG_AUX_A", Description: "Temperature sensor status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "TOR", Description: "Temperature data overrun", Values: ""},
				{Bits: "2", Name: "TDA", Description: "Temperature new data available", Values: ""},
			}},
		{Address: "0x0C", Name: "OUT_TEMP_L_A", Description: "Temperature Low Byte (delta from 25°C, 1/256°C steps)", Access: "R"},
		{Address: "0x0D", Name: "OUT_TEMP_H_A", Description: "Temperature High Byte", Access: "R"},
		{Address: "0x0F", Name: "WHO_AM_I_A", Description: "Accelerometer device ID (should be 0x33)", Access: "R", Default: "0x33"},
		{Address: "0x1F", Name: "TEMP_CFG_REG_A", Description: "Temperature sensor enable", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "TEMP_EN", Description: "Temperature sensor enable", Values: "00=Disabled, 11=Enabled"},
			}},
		{Address: "0x20", Name: "CTRL_REG1_A", Description: "Data rate, low-power mode, axis enable", Access: "RW", Default: "0x07",
			BitFields: []BitField{
				{Bits: "7:4", Name: "ODR", Description: "Output data rate", Values: "0=Power-down, 1=1Hz, 2=10Hz, 3=25Hz, 4=50Hz, 5=100Hz, 6=200Hz, 7=400Hz, 8=1.620kHz(LP), 9=1.344kHz/5.376kHz(LP)"},
				{Bits: "3", Name: "LPen", Description: "Low-power mode enable", Values: "0=Normal/HR, 1=Low-power"},
				{Bits: "2", Name: "Zen", Description: "Z axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "Yen", Description: "Y axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "Xen", Description: "X axis enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x22", Name: "CTRL_REG3_A", Description: "Interrupt routing to INT1", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "2", Name: "I1_WTM", Description: "FIFO watermark interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "I1_OVERRUN", Description: "FIFO overrun interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x23", Name: "CTRL_REG4_A", Description: "Block data update, full scale, high resolution", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Hold until read"},
				{Bits: "5:4", Name: "FS", Description: "Full-scale selection", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
				{Bits: "3", Name: "HR", Description: "High-resolution mode", Values: "0=Off, 1=On"},
			}},
		{Address: "0x24", Name: "CTRL_REG5_A", Description: "FIFO enable, latched interrupts", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "FIFO_EN", Description: "FIFO enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x25", Name: "CTRL_REG6_A", Description: "Interrupt routing to INT2, polarity", Access: "RW", Default: "0x00"},
		{Address: "0x27", Name: "STATUS_REG_A", Description: "Axis data ready / overrun flags", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "ZYXOR", Description: "X, Y, Z data overrun", Values: ""},
				{Bits: "6", Name: "ZOR", Description: "Z data overrun", Values: ""},
				{Bits: "5", Name: "YOR", Description: "Y data overrun", Values: ""},
				{Bits: "4", Name: "XOR", Description: "X data overrun", Values: ""},
				{Bits: "3", Name: "ZYXDA", Description: "X, Y, Z new data available", Values: ""},
				{Bits: "2", Name: "ZDA", Description: "Z new data available", Values: ""},
				{Bits: "1", Name: "YDA", Description: "Y new data available", Values: ""},
				{Bits: "0", Name: "XDA", Description: "X new data available", Values: ""},
			}},
		{Address: "0x28", Name: "OUT_X_L_A", Description: "X-axis acceleration low byte", Access: "R"},
		{Address: "0x29", Name: "OUT_X_H_A", Description: "X-axis acceleration high byte", Access: "R"},
		{Address: "0x2A", Name: "OUT_Y_L_A", Description: "Y-axis acceleration low byte", Access: "R"},
		{Address: "0x2B", Name: "OUT_Y_H_A", Description: "Y-axis acceleration high byte", Access: "R"},
		{Address: "0x2C", Name: "OUT_Z_L_A", Description: "Z-axis acceleration low byte", Access: "R"},
		{Address: "0x2D", Name: "OUT_Z_H_A", Description: "Z-axis acceleration high byte", Access: "R"},
		{Address: "0x2E", Name: "FIFO_CTRL_REG_A", Description: "FIFO mode, trigger selection, watermark", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "FM", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 2=Stream, 3=Stream-to-FIFO"},
				{Bits: "5", Name: "TR", Description: "Trigger selection", Values: "0=INT1, 1=INT2"},
				{Bits: "4:0", Name: "FTH", Description: "FIFO watermark threshold", Values: "0-31"},
			}},
		{Address: "0x2F", Name: "FIFO_SRC_REG_A", Description: "FIFO status", Access: "R", Default: "0x20",
			BitFields: []BitField{
				{Bits: "7", Name: "WTM", Description: "Fill level above watermark", Values: ""},
				{Bits: "6", Name: "OVRN_FIFO", Description: "FIFO buffer full (32 unread samples)", Values: ""},
				{Bits: "5", Name: "EMPTY", Description: "All samples read", Values: ""},
				{Bits: "4:0", Name: "FSS", Description: "Unread sample count", Values: "0-31"},
			}},
		{Address: "0x30", Name: "INT1_CFG_A", Description: "INT1 event configuration", Access: "RW", Default: "0x00"},
		{Address: "0x31", Name: "INT1_SRC_A", Description: "INT1 event source", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "IA", Description: "Interrupt active", Values: ""},
				{Bits: "5", Name: "ZH", Description: "Z high event", Values: ""},
				{Bits: "4", Name: "ZL", Description: "Z low event", Values: ""},
				{Bits: "3", Name: "YH", Description: "Y high event", Values: ""},
				{Bits: "2", Name: "YL", Description: "Y low event", Values: ""},
				{Bits: "1", Name: "XH", Description: "X high event", Values: ""},
				{Bits: "0", Name: "XL", Description: "X low event", Values: ""},
			}},
	}
}

// getMagRegisterMap returns metadata for the magnetometer-die registers.
func getMagRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: "0x4F", Name: "WHO_AM_I_M", Description: "Magnetometer device ID (should be 0x40)", Access: "R", Default: "0x40"},
		{Address: "0x60", Name: "CFG_REG_A_M", Description: "Data rate, system mode", Access: "RW", Default: "0x03",
			BitFields: []BitField{
				{Bits: "7", Name: "COMP_TEMP_EN", Description: "Magnetometer temperature compensation", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3:2", Name: "ODR", Description: "Output data rate", Values: "0=10Hz, 1=20Hz, 2=50Hz, 3=100Hz"},
				{Bits: "1:0", Name: "MD", Description: "System mode", Values: "0=Continuous, 1=Single, 2/3=Idle"},
			}},
		{Address: "0x61", Name: "CFG_REG_B_M", Description: "Offset cancellation, low-pass filter", Access: "RW", Default: "0x00"},
		{Address: "0x62", Name: "CFG_REG_C_M", Description: "Block data update, interrupt on pin", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "4", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Hold until read"},
				{Bits: "0", Name: "INT_MAG", Description: "DRDY pin as digital output", Values: ""},
			}},
		{Address: "0x63", Name: "INT_CTRL_REG_M", Description: "Interrupt enable, polarity, latching", Access: "RW", Default: "0xE0",
			BitFields: []BitField{
				{Bits: "2", Name: "IEA", Description: "Interrupt polarity", Values: "0=Active low, 1=Active high"},
				{Bits: "1", Name: "IEL", Description: "Interrupt latching", Values: "0=Pulsed, 1=Latched"},
				{Bits: "0", Name: "IEN", Description: "Interrupt enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x64", Name: "INT_SOURCE_REG_M", Description: "Interrupt source", Access: "R", Default: "0x00"},
		{Address: "0x67", Name: "STATUS_REG_M", Description: "Axis data ready / overrun flags", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "ZYXOR", Description: "X, Y, Z data overrun", Values: ""},
				{Bits: "3", Name: "ZYXDA", Description: "X, Y, Z new data available", Values: ""},
			}},
		{Address: "0x68", Name: "OUTX_L_REG_M", Description: "X-axis field low byte (1.5 mgauss/LSB)", Access: "R"},
		{Address: "0x69", Name: "OUTX_H_REG_M", Description: "X-axis field high byte", Access: "R"},
		{Address: "0x6A", Name: "OUTY_L_REG_M", Description: "Y-axis field low byte", Access: "R"},
		{Address: "0x6B", Name: "OUTY_H_REG_M", Description: "Y-axis field high byte", Access: "R"},
		{Address: "0x6C", Name: "OUTZ_L_REG_M", Description: "Z-axis field low byte", Access: "R"},
		{Address: "0x6D", Name: "OUTZ_H_REG_M", Description: "Z-axis field high byte", Access: "R"},
	}
}
