package lsm303agr

import "testing"

func TestResolutionShiftTable(t *testing.T) {
	want := map[AccelMode]uint{
		AccelModePowerDown:      0,
		AccelModeHighResolution: 4,
		AccelModeNormal:         6,
		AccelModeLowPower:       8,
	}
	for mode, shift := range want {
		if got := resolutionShift(mode); got != shift {
			t.Errorf("resolutionShift(%v) = %d, want %d", mode, got, shift)
		}
	}
}

func TestScalingFactorTable(t *testing.T) {
	want := map[AccelMode][4]int32{
		AccelModePowerDown:      {0, 0, 0, 0},
		AccelModeHighResolution: {1, 2, 4, 8},
		AccelModeNormal:         {4, 8, 16, 32},
		AccelModeLowPower:       {16, 32, 64, 128},
	}
	scales := []AccelScale{AccelScale2G, AccelScale4G, AccelScale8G, AccelScale16G}
	for mode, factors := range want {
		for i, scale := range scales {
			if got := scalingFactor(mode, scale); got != factors[i] {
				t.Errorf("scalingFactor(%v, scale %d) = %d, want %d", mode, i, got, factors[i])
			}
		}
	}
}

func TestDecodeStatusAllBits(t *testing.T) {
	all := decodeStatus(0xFF)
	if all != (Status{true, true, true, true, true, true, true, true}) {
		t.Errorf("0xFF must decode to all flags set, got %+v", all)
	}
	none := decodeStatus(0x00)
	if none != (Status{}) {
		t.Errorf("0x00 must decode to all flags clear, got %+v", none)
	}
}

func TestDecodeStatusMixed(t *testing.T) {
	// 0x91: XYZ overrun, X overrun, X new data.
	got := decodeStatus(0x91)
	want := Status{
		XYZOverrun: true,
		XOverrun:   true,
		XNewData:   true,
	}
	if got != want {
		t.Errorf("decodeStatus(0x91) = %+v, want %+v", got, want)
	}
}

func TestDecodeTemperatureStatus(t *testing.T) {
	if got := decodeTemperatureStatus(0xFF); got != (TemperatureStatus{Overrun: true, NewData: true}) {
		t.Errorf("0xFF: got %+v", got)
	}
	if got := decodeTemperatureStatus(0x00); got != (TemperatureStatus{}) {
		t.Errorf("0x00: got %+v", got)
	}
	if got := decodeTemperatureStatus(0x04); !got.NewData || got.Overrun {
		t.Errorf("0x04 must decode to new-data only, got %+v", got)
	}
}

func TestDecodeInterruptStatus(t *testing.T) {
	all := decodeInterruptStatus(0xFF)
	if all != (InterruptStatus{true, true, true, true, true, true, true}) {
		t.Errorf("0xFF: got %+v", all)
	}
	if got := decodeInterruptStatus(0x00); got != (InterruptStatus{}) {
		t.Errorf("0x00: got %+v", got)
	}
	// IA plus X high.
	got := decodeInterruptStatus(0x42)
	want := InterruptStatus{Active: true, XHigh: true}
	if got != want {
		t.Errorf("decodeInterruptStatus(0x42) = %+v, want %+v", got, want)
	}
}

func TestDecodeFifoStatus(t *testing.T) {
	all := decodeFifoStatus(0xFF)
	want := FifoStatus{Watermark: true, Overrun: true, Empty: true, UnreadSamples: 0x1F}
	if all != want {
		t.Errorf("0xFF: got %+v, want %+v", all, want)
	}
	if got := decodeFifoStatus(0x00); got != (FifoStatus{}) {
		t.Errorf("0x00: got %+v", got)
	}
	// Overrun with 12 unread samples.
	got := decodeFifoStatus(0x4C)
	want = FifoStatus{Overrun: true, UnreadSamples: 12}
	if got != want {
		t.Errorf("decodeFifoStatus(0x4C) = %+v, want %+v", got, want)
	}
}
