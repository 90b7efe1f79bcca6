package lsm303agr

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

type i2cTx struct {
	addr uint16
	w    []byte
	rLen int
}

type fakeI2CBus struct {
	txs  []i2cTx
	resp []byte
	err  error
}

func (b *fakeI2CBus) String() string                    { return "fake-i2c" }
func (b *fakeI2CBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *fakeI2CBus) Tx(addr uint16, w, r []byte) error {
	b.txs = append(b.txs, i2cTx{addr: addr, w: append([]byte(nil), w...), rLen: len(r)})
	if b.err != nil {
		return b.err
	}
	copy(r, b.resp)
	return nil
}

var _ i2c.Bus = (*fakeI2CBus)(nil)

func TestI2CTransportFraming(t *testing.T) {
	bus := &fakeI2CBus{}
	tr := newI2CTransport(bus, accelI2CAddr)

	if err := tr.WriteRegister(regCtrlReg1A, 0x57); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	bus.resp = []byte{whoAmIAccelVal}
	v, err := tr.ReadRegister(regWhoAmIA)
	if err != nil {
		t.Fatalf("ReadRegister: %v", err)
	}
	if v != whoAmIAccelVal {
		t.Errorf("read value = %#02x", v)
	}

	bus.resp = []byte{1, 2, 3, 4, 5, 6}
	buf := make([]byte, 6)
	if err := tr.ReadBurst(regOutXLA, buf); err != nil {
		t.Fatalf("ReadBurst: %v", err)
	}

	if len(bus.txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(bus.txs))
	}
	write := bus.txs[0]
	if write.addr != accelI2CAddr || write.w[0] != regCtrlReg1A || write.w[1] != 0x57 {
		t.Errorf("write framing: %+v", write)
	}
	read := bus.txs[1]
	if read.w[0] != regWhoAmIA || read.rLen != 1 {
		t.Errorf("read framing: %+v", read)
	}
	// Multi-byte reads must set the auto-increment bit.
	burst := bus.txs[2]
	if burst.w[0] != regOutXLA|i2cAutoIncrement || burst.rLen != 6 {
		t.Errorf("burst framing: %+v", burst)
	}
}

func TestI2CTransportWrapsBusError(t *testing.T) {
	busErr := errors.New("nak")
	tr := newI2CTransport(&fakeI2CBus{err: busErr}, magI2CAddr)

	_, err := tr.ReadRegister(regWhoAmIM)
	var ce *CommError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CommError", err)
	}
	if !errors.Is(err, busErr) {
		t.Errorf("CommError must wrap the bus error")
	}
}

type spiTx struct {
	w []byte
	r int
}

type fakeSPIConn struct {
	txs  []spiTx
	resp []byte
	err  error
}

func (c *fakeSPIConn) String() string                 { return "fake-spi" }
func (c *fakeSPIConn) Duplex() conn.Duplex            { return conn.Full }
func (c *fakeSPIConn) TxPackets(p []spi.Packet) error { return nil }

func (c *fakeSPIConn) Tx(w, r []byte) error {
	c.txs = append(c.txs, spiTx{w: append([]byte(nil), w...), r: len(r)})
	if c.err != nil {
		return c.err
	}
	copy(r, c.resp)
	return nil
}

var _ spi.Conn = (*fakeSPIConn)(nil)

type fakeCSPin struct {
	levels []gpio.Level
	err    error
}

func (p *fakeCSPin) String() string   { return "fake-cs" }
func (p *fakeCSPin) Halt() error      { return nil }
func (p *fakeCSPin) Name() string     { return "fake-cs" }
func (p *fakeCSPin) Number() int      { return 0 }
func (p *fakeCSPin) Function() string { return "Out" }
func (p *fakeCSPin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.levels = append(p.levels, l)
	return nil
}
func (p *fakeCSPin) PWM(d gpio.Duty, f physic.Frequency) error { return nil }

var _ gpio.PinOut = (*fakeCSPin)(nil)

func TestSPITransportFraming(t *testing.T) {
	c := &fakeSPIConn{}
	cs := &fakeCSPin{}
	tr := newSPITransport(c, cs)

	if err := tr.WriteRegister(regCtrlReg1A, 0x57); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	c.resp = []byte{0, whoAmIAccelVal}
	v, err := tr.ReadRegister(regWhoAmIA)
	if err != nil {
		t.Fatalf("ReadRegister: %v", err)
	}
	if v != whoAmIAccelVal {
		t.Errorf("read value = %#02x", v)
	}

	c.resp = []byte{0, 1, 2, 3, 4, 5, 6}
	buf := make([]byte, 6)
	if err := tr.ReadBurst(regOutXLA, buf); err != nil {
		t.Fatalf("ReadBurst: %v", err)
	}
	if buf[0] != 1 || buf[5] != 6 {
		t.Errorf("burst payload = %v", buf)
	}

	if len(c.txs) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(c.txs))
	}
	// Write: read bit clear.
	if c.txs[0].w[0] != regCtrlReg1A || c.txs[0].w[1] != 0x57 {
		t.Errorf("write frame = %v", c.txs[0].w)
	}
	// Single read: read bit set, one dummy clock byte.
	if c.txs[1].w[0] != regWhoAmIA|spiRead || len(c.txs[1].w) != 2 {
		t.Errorf("read frame = %v", c.txs[1].w)
	}
	// Burst read: read and auto-increment bits set.
	if c.txs[2].w[0] != regOutXLA|spiRead|spiAutoIncrement || len(c.txs[2].w) != 7 {
		t.Errorf("burst frame = %v", c.txs[2].w)
	}

	// Chip select toggles low/high around every frame.
	want := []gpio.Level{gpio.Low, gpio.High, gpio.Low, gpio.High, gpio.Low, gpio.High}
	if len(cs.levels) != len(want) {
		t.Fatalf("CS transitions = %v", cs.levels)
	}
	for i, l := range want {
		if cs.levels[i] != l {
			t.Errorf("CS transition %d = %v, want %v", i, cs.levels[i], l)
		}
	}
}

func TestSPITransportErrors(t *testing.T) {
	pinErr := errors.New("pin stuck")
	tr := newSPITransport(&fakeSPIConn{}, &fakeCSPin{err: pinErr})
	err := tr.WriteRegister(regCtrlReg1A, 0x00)
	var pe *PinError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PinError", err)
	}
	if !errors.Is(err, pinErr) {
		t.Errorf("PinError must wrap the pin error")
	}

	busErr := errors.New("mosi open")
	cs := &fakeCSPin{}
	tr = newSPITransport(&fakeSPIConn{err: busErr}, cs)
	err = tr.WriteRegister(regCtrlReg1A, 0x00)
	var ce *CommError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CommError", err)
	}
	// The chip must still be deselected after a bus error.
	if len(cs.levels) != 2 || cs.levels[1] != gpio.High {
		t.Errorf("CS transitions after bus error = %v", cs.levels)
	}
}
