package lsm303agr

// regConfig is the in-memory shadow of a single writable control register.
// It records the last value successfully written to the hardware; registers
// are never read back, so the shadow is the sole source of truth for
// read-modify-write updates. Values are replaced, not mutated: every write
// path builds a new regConfig, issues the bus write, and commits the new
// value only on success.
type regConfig struct {
	bits uint8
}

// withHigh returns a copy with every bit in mask forced to 1.
// Bits outside the mask are unchanged.
func (c regConfig) withHigh(mask uint8) regConfig {
	return regConfig{bits: c.bits | mask}
}

// withLow returns a copy with every bit in mask forced to 0.
// Bits outside the mask are unchanged.
func (c regConfig) withLow(mask uint8) regConfig {
	return regConfig{bits: c.bits &^ mask}
}

// isHigh reports whether every bit in mask is set.
func (c regConfig) isHigh(mask uint8) bool {
	return c.bits&mask == mask
}
