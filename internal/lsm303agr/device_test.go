package lsm303agr

import (
	"encoding/binary"
	"errors"
	"testing"
)

// busWrite records one register write, tagged with the die it went to.
type busWrite struct {
	die   string
	addr  uint8
	value uint8
}

// busLog is shared between the two stub transports so the write order
// across both dies is observable.
type busLog struct {
	writes []busWrite
	// failAt makes the Nth write overall (1-based) fail. Zero disables.
	failAt  int
	failErr error
}

// stubTransport is an always-succeeding (unless scripted otherwise)
// in-memory transport for one die.
type stubTransport struct {
	die   string
	log   *busLog
	regs  map[uint8]uint8
	burst map[uint8][]byte
}

func (s *stubTransport) ReadRegister(addr uint8) (uint8, error) {
	return s.regs[addr], nil
}

func (s *stubTransport) WriteRegister(addr, value uint8) error {
	if s.log.failAt > 0 && len(s.log.writes)+1 == s.log.failAt {
		return s.log.failErr
	}
	s.log.writes = append(s.log.writes, busWrite{die: s.die, addr: addr, value: value})
	return nil
}

func (s *stubTransport) ReadBurst(addr uint8, buf []byte) error {
	copy(buf, s.burst[addr])
	return nil
}

func newTestDevice() (*Device, *busLog) {
	log := &busLog{}
	accel := &stubTransport{die: "accel", log: log, regs: map[uint8]uint8{}, burst: map[uint8][]byte{}}
	mag := &stubTransport{die: "mag", log: log, regs: map[uint8]uint8{}, burst: map[uint8][]byte{}}
	return New(accel, mag), log
}

func axesLE(x, y, z int16) []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(x))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(y))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(z))
	return buf
}

func TestInitWriteSequence(t *testing.T) {
	dev, log := newTestDevice()
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := []busWrite{
		{"accel", regTempCfgRegA, 0xC0},
		{"accel", regCtrlReg3A, 0x00},
		{"accel", regCtrlReg4A, 0x80},
		{"accel", regCtrlReg5A, 0x00},
		{"accel", regFifoCtrlRegA, 0x00},
		{"accel", regIntCtrlRegM, 0x00},
		{"mag", regCfgRegCM, 0x10},
	}
	if len(log.writes) != len(want) {
		t.Fatalf("Init issued %d writes, want %d: %+v", len(log.writes), len(want), log.writes)
	}
	for i, w := range want {
		if log.writes[i] != w {
			t.Errorf("write %d = %+v, want %+v", i+1, log.writes[i], w)
		}
	}
}

func TestInitPartialFailureKeepsCommittedShadows(t *testing.T) {
	dev, log := newTestDevice()
	commErr := &CommError{Err: errors.New("bus stuck")}
	log.failAt = 4
	log.failErr = commErr

	err := dev.Init()
	if err == nil {
		t.Fatal("Init must surface the transport error")
	}
	var ce *CommError
	if !errors.As(err, &ce) {
		t.Fatalf("Init error = %v, want *CommError", err)
	}
	if len(log.writes) != 3 {
		t.Fatalf("expected exactly 3 committed writes, got %d", len(log.writes))
	}
	// Shadows reflect exactly the successful writes, nothing more.
	if dev.tempCfgRegA.bits != 0xC0 {
		t.Errorf("temp config shadow = %#02x, want 0xC0", dev.tempCfgRegA.bits)
	}
	if dev.ctrlReg4A.bits != 0x80 {
		t.Errorf("ctrl4 shadow = %#02x, want 0x80", dev.ctrlReg4A.bits)
	}
	if dev.ctrlReg5A.bits != 0x00 || dev.cfgRegCM.bits != 0x00 {
		t.Errorf("later shadows must stay at reset values, ctrl5=%#02x cfgC=%#02x",
			dev.ctrlReg5A.bits, dev.cfgRegCM.bits)
	}
}

func TestAccelModeDerivation(t *testing.T) {
	dev, _ := newTestDevice()
	if got := dev.AccelMode(); got != AccelModePowerDown {
		t.Fatalf("fresh handle mode = %v, want power-down", got)
	}

	if err := dev.SetAccelODR(AccelODR100Hz); err != nil {
		t.Fatalf("SetAccelODR: %v", err)
	}
	if got := dev.AccelMode(); got != AccelModeNormal {
		t.Errorf("after ODR set, mode = %v, want normal", got)
	}

	if err := dev.SetAccelMode(AccelModeHighResolution); err != nil {
		t.Fatalf("SetAccelMode(HR): %v", err)
	}
	if got := dev.AccelMode(); got != AccelModeHighResolution {
		t.Errorf("mode = %v, want high-resolution", got)
	}

	if err := dev.SetAccelMode(AccelModeLowPower); err != nil {
		t.Fatalf("SetAccelMode(LP): %v", err)
	}
	if got := dev.AccelMode(); got != AccelModeLowPower {
		t.Errorf("mode = %v, want low-power", got)
	}

	if err := dev.SetAccelMode(AccelModePowerDown); err != nil {
		t.Fatalf("SetAccelMode(PowerDown): %v", err)
	}
	if got := dev.AccelMode(); got != AccelModePowerDown {
		t.Errorf("mode = %v, want power-down", got)
	}

	// Leaving power-down restores the cached 100 Hz rate.
	if err := dev.SetAccelMode(AccelModeNormal); err != nil {
		t.Fatalf("SetAccelMode(Normal): %v", err)
	}
	if dev.ctrlReg1A.bits&maskAccelODR != 0x5<<4 {
		t.Errorf("ODR bits not restored, ctrl1 = %#02x", dev.ctrlReg1A.bits)
	}
}

func TestSetAccelModeRejectsImpossibleCombinations(t *testing.T) {
	dev, _ := newTestDevice()
	if err := dev.SetAccelODR(AccelODR5376kHzLowPower); err != nil {
		t.Fatalf("SetAccelODR: %v", err)
	}
	if err := dev.SetAccelMode(AccelModeHighResolution); !errors.Is(err, ErrInvalidInputData) {
		t.Errorf("HR with a low-power-only rate: err = %v, want ErrInvalidInputData", err)
	}
	if err := dev.SetAccelMode(AccelModeNormal); !errors.Is(err, ErrInvalidInputData) {
		t.Errorf("normal with a low-power-only rate: err = %v, want ErrInvalidInputData", err)
	}

	dev2, _ := newTestDevice()
	if err := dev2.SetAccelODR(AccelODR1344kHz); err != nil {
		t.Fatalf("SetAccelODR: %v", err)
	}
	if err := dev2.SetAccelMode(AccelModeLowPower); !errors.Is(err, ErrInvalidInputData) {
		t.Errorf("low-power at 1.344 kHz: err = %v, want ErrInvalidInputData", err)
	}

	dev3, _ := newTestDevice()
	if err := dev3.SetAccelMode(AccelModeHighResolution); err != nil {
		t.Fatalf("SetAccelMode(HR): %v", err)
	}
	if err := dev3.SetAccelODR(AccelODR1620kHzLowPower); !errors.Is(err, ErrInvalidInputData) {
		t.Errorf("low-power-only rate in HR mode: err = %v, want ErrInvalidInputData", err)
	}
}

func TestAccelDataScaling(t *testing.T) {
	dev, _ := newTestDevice()
	if err := dev.SetAccelODR(AccelODR50Hz); err != nil {
		t.Fatalf("SetAccelODR: %v", err)
	}
	if err := dev.SetAccelMode(AccelModeHighResolution); err != nil {
		t.Fatalf("SetAccelMode: %v", err)
	}
	if err := dev.SetAccelScale(AccelScale4G); err != nil {
		t.Fatalf("SetAccelScale: %v", err)
	}

	// High resolution samples are left-aligned 12-bit words: raw counts
	// 100, -50, 0 arrive shifted up by 4.
	accel := dev.accel.(*stubTransport)
	accel.burst[regOutXLA] = axesLE(100<<4, -50<<4, 0)

	unscaled, err := dev.AccelDataUnscaled()
	if err != nil {
		t.Fatalf("AccelDataUnscaled: %v", err)
	}
	if unscaled != (UnscaledMeasurement{X: 100, Y: -50, Z: 0}) {
		t.Fatalf("unscaled = %+v, want {100 -50 0}", unscaled)
	}

	scaled, err := dev.AccelData()
	if err != nil {
		t.Fatalf("AccelData: %v", err)
	}
	// HR at ±4g scales by 2 mg per count.
	if scaled != (Measurement{X: 200, Y: -100, Z: 0}) {
		t.Fatalf("scaled = %+v, want {200 -100 0}", scaled)
	}
}

func TestAccelDataPowerDownReadsZero(t *testing.T) {
	dev, _ := newTestDevice()
	accel := dev.accel.(*stubTransport)
	accel.burst[regOutXLA] = axesLE(1234, -567, 89)

	scaled, err := dev.AccelData()
	if err != nil {
		t.Fatalf("AccelData: %v", err)
	}
	if scaled != (Measurement{}) {
		t.Fatalf("power-down must scale every axis to zero, got %+v", scaled)
	}
}

func TestResolutionShiftPerMode(t *testing.T) {
	cases := []struct {
		mode AccelMode
		raw  int16
		want int16
	}{
		{AccelModeHighResolution, 100 << 4, 100},
		{AccelModeNormal, 100 << 6, 100},
		{AccelModeLowPower, 100 << 8, 100},
		{AccelModePowerDown, 100, 100},
	}
	for _, tc := range cases {
		dev, _ := newTestDevice()
		if tc.mode != AccelModePowerDown {
			if err := dev.SetAccelODR(AccelODR10Hz); err != nil {
				t.Fatalf("SetAccelODR: %v", err)
			}
			if err := dev.SetAccelMode(tc.mode); err != nil {
				t.Fatalf("SetAccelMode(%v): %v", tc.mode, err)
			}
		}
		accel := dev.accel.(*stubTransport)
		accel.burst[regOutXLA] = axesLE(tc.raw, 0, 0)
		got, err := dev.AccelDataUnscaled()
		if err != nil {
			t.Fatalf("AccelDataUnscaled: %v", err)
		}
		if got.X != tc.want {
			t.Errorf("%v: X = %d, want %d", tc.mode, got.X, tc.want)
		}
	}
}

func TestTemperatureCelsius(t *testing.T) {
	dev, _ := newTestDevice()
	accel := dev.accel.(*stubTransport)

	// +2 °C above the 25 °C reference.
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(int16(512)))
	accel.burst[regOutTempLA] = buf

	c, err := dev.TemperatureCelsius()
	if err != nil {
		t.Fatalf("TemperatureCelsius: %v", err)
	}
	if c != 27.0 {
		t.Errorf("temperature = %v, want 27.0", c)
	}

	// Negative delta.
	negDelta := int16(-256)
	binary.LittleEndian.PutUint16(buf, uint16(negDelta))
	accel.burst[regOutTempLA] = buf
	c, err = dev.TemperatureCelsius()
	if err != nil {
		t.Fatalf("TemperatureCelsius: %v", err)
	}
	if c != 24.0 {
		t.Errorf("temperature = %v, want 24.0", c)
	}
}

func TestDetection(t *testing.T) {
	dev, _ := newTestDevice()
	accel := dev.accel.(*stubTransport)
	mag := dev.mag.(*stubTransport)

	accel.regs[regWhoAmIA] = whoAmIAccelVal
	mag.regs[regWhoAmIM] = whoAmIMagVal

	if ok, err := dev.AccelerometerIsDetected(); err != nil || !ok {
		t.Errorf("accelerometer detection: ok=%v err=%v", ok, err)
	}
	if ok, err := dev.MagnetometerIsDetected(); err != nil || !ok {
		t.Errorf("magnetometer detection: ok=%v err=%v", ok, err)
	}

	accel.regs[regWhoAmIA] = 0x00
	if ok, err := dev.AccelerometerIsDetected(); err != nil || ok {
		t.Errorf("mismatched ID must report not detected: ok=%v err=%v", ok, err)
	}
}

func TestEnableFifoWriteOrder(t *testing.T) {
	dev, log := newTestDevice()
	if err := dev.EnableFifo(FifoModeFifo, IntPin1, true, true); err != nil {
		t.Fatalf("EnableFifo: %v", err)
	}

	want := []busWrite{
		{"accel", regCtrlReg3A, bfI1Overrun},
		{"accel", regIntCtrlRegM, bfIEN | bfIEA | bfIEL},
		{"accel", regCtrlReg5A, bfFifoEn},
		{"accel", regFifoCtrlRegA, bfFifoModeFifo},
	}
	if len(log.writes) != len(want) {
		t.Fatalf("EnableFifo issued %d writes, want %d: %+v", len(log.writes), len(want), log.writes)
	}
	for i, w := range want {
		if log.writes[i] != w {
			t.Errorf("write %d = %+v, want %+v", i+1, log.writes[i], w)
		}
	}
	if got := dev.FifoMode(); got != FifoModeFifo {
		t.Errorf("FifoMode = %v, want FifoModeFifo", got)
	}
}

func TestEnableFifoIntPin2AndPolarity(t *testing.T) {
	dev, log := newTestDevice()
	if err := dev.EnableFifo(FifoModeStream, IntPin2, false, false); err != nil {
		t.Fatalf("EnableFifo: %v", err)
	}
	last := log.writes[len(log.writes)-1]
	if last.addr != regFifoCtrlRegA || last.value != bfFifoModeStream|bfFifoTrigger {
		t.Errorf("final FIFO control write = %+v", last)
	}
	intCtrl := log.writes[1]
	if intCtrl.value != bfIEN {
		t.Errorf("interrupt control = %#02x, want IEN only", intCtrl.value)
	}
}

func TestRestartFifoRoundTrip(t *testing.T) {
	dev, log := newTestDevice()
	if err := dev.EnableFifo(FifoModeFifo, IntPin1, false, true); err != nil {
		t.Fatalf("EnableFifo: %v", err)
	}
	log.writes = nil

	if err := dev.RestartFifo(); err != nil {
		t.Fatalf("RestartFifo: %v", err)
	}
	if len(log.writes) != 2 {
		t.Fatalf("RestartFifo issued %d writes, want 2", len(log.writes))
	}
	// Bypass must be the intermediate state, then FIFO mode again.
	if log.writes[0].addr != regFifoCtrlRegA || log.writes[0].value&maskFifoMode != bfFifoModeBypass {
		t.Errorf("first write = %+v, want bypass mode", log.writes[0])
	}
	if log.writes[1].addr != regFifoCtrlRegA || log.writes[1].value&maskFifoMode != bfFifoModeFifo {
		t.Errorf("second write = %+v, want FIFO mode", log.writes[1])
	}
	if got := dev.FifoMode(); got != FifoModeFifo {
		t.Errorf("FifoMode = %v, want FifoModeFifo", got)
	}
}

func TestEnableFifoPartialFailure(t *testing.T) {
	dev, log := newTestDevice()
	log.failAt = 3
	log.failErr = &CommError{Err: errors.New("nak")}

	err := dev.EnableFifo(FifoModeFifo, IntPin1, false, true)
	var ce *CommError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CommError", err)
	}
	// The first two writes stay committed; the FIFO enable bit and mode
	// bits were never set.
	if dev.ctrlReg3A.bits != bfI1Overrun {
		t.Errorf("ctrl3 shadow = %#02x", dev.ctrlReg3A.bits)
	}
	if dev.ctrlReg5A.bits != 0 || dev.fifoCtrlRegA.bits != 0 {
		t.Errorf("ctrl5/fifo shadows must stay at reset, got %#02x/%#02x",
			dev.ctrlReg5A.bits, dev.fifoCtrlRegA.bits)
	}
	if got := dev.FifoMode(); got != FifoModeBypass {
		t.Errorf("FifoMode = %v, want bypass", got)
	}
}

func TestMagData(t *testing.T) {
	dev, _ := newTestDevice()
	mag := dev.mag.(*stubTransport)
	mag.burst[regOutXLM] = axesLE(10, -20, 30)

	unscaled, err := dev.MagDataUnscaled()
	if err != nil {
		t.Fatalf("MagDataUnscaled: %v", err)
	}
	if unscaled != (UnscaledMeasurement{X: 10, Y: -20, Z: 30}) {
		t.Fatalf("unscaled = %+v", unscaled)
	}

	scaled, err := dev.MagData()
	if err != nil {
		t.Fatalf("MagData: %v", err)
	}
	if scaled != (Measurement{X: 1500, Y: -3000, Z: 4500}) {
		t.Fatalf("scaled = %+v, want 150 nT per count", scaled)
	}
}

func TestMagModeAndODR(t *testing.T) {
	dev, log := newTestDevice()
	if got := dev.MagMode(); got != MagModeIdle {
		t.Fatalf("reset mag mode = %v, want idle", got)
	}

	if err := dev.SetMagODR(MagODR100Hz); err != nil {
		t.Fatalf("SetMagODR: %v", err)
	}
	if err := dev.SetMagMode(MagModeContinuous); err != nil {
		t.Fatalf("SetMagMode: %v", err)
	}
	if got := dev.MagMode(); got != MagModeContinuous {
		t.Errorf("mag mode = %v, want continuous", got)
	}
	// Both writes target CFG_REG_A_M on the magnetometer die, and the
	// mode change preserves the ODR bits.
	for _, w := range log.writes {
		if w.die != "mag" || w.addr != regCfgRegAM {
			t.Errorf("unexpected write %+v", w)
		}
	}
	if dev.cfgRegAM.bits != 0x3<<2|uint8(MagModeContinuous) {
		t.Errorf("cfgA shadow = %#02x", dev.cfgRegAM.bits)
	}
}

func TestStatusReads(t *testing.T) {
	dev, _ := newTestDevice()
	accel := dev.accel.(*stubTransport)
	mag := dev.mag.(*stubTransport)

	accel.regs[regStatusRegA] = 0x0F
	st, err := dev.AccelStatus()
	if err != nil {
		t.Fatalf("AccelStatus: %v", err)
	}
	if !st.XYZNewData || st.XYZOverrun {
		t.Errorf("accel status = %+v", st)
	}

	mag.regs[regStatusRegM] = 0x08
	mst, err := dev.MagStatus()
	if err != nil {
		t.Fatalf("MagStatus: %v", err)
	}
	if !mst.XYZNewData {
		t.Errorf("mag status = %+v", mst)
	}

	accel.regs[regFifoSrcRegA] = 0xA5
	fst, err := dev.FifoStatus()
	if err != nil {
		t.Fatalf("FifoStatus: %v", err)
	}
	if !fst.Watermark || !fst.Empty || fst.Overrun || fst.UnreadSamples != 5 {
		t.Errorf("fifo status = %+v", fst)
	}
}
