package lsm303agr

// resolutionShift is the right shift that removes the mode-dependent padding
// bits from a raw 16-bit ADC word: the sensor always produces a 16-bit value
// but only the mode-dependent high-order bits are significant.
func resolutionShift(mode AccelMode) uint {
	switch mode {
	case AccelModeHighResolution:
		return 4
	case AccelModeNormal:
		return 6
	case AccelModeLowPower:
		return 8
	}
	// Power-down: the value is undefined but passed through unmodified.
	return 0
}

// scalingFactor is the milli-g per count multiplier for a (mode, scale)
// pair. Power-down yields 0 for every range, so a powered-down axis reads
// as zero instead of failing.
func scalingFactor(mode AccelMode, scale AccelScale) int32 {
	var base int32
	switch mode {
	case AccelModeHighResolution:
		base = 1
	case AccelModeNormal:
		base = 4
	case AccelModeLowPower:
		base = 16
	default:
		return 0
	}
	switch scale {
	case AccelScale4G:
		return base * 2
	case AccelScale8G:
		return base * 4
	case AccelScale16G:
		return base * 8
	}
	return base
}

func decodeStatus(st uint8) Status {
	return Status{
		XYZOverrun: st&bfXYZOR != 0,
		ZOverrun:   st&bfZOR != 0,
		YOverrun:   st&bfYOR != 0,
		XOverrun:   st&bfXOR != 0,
		XYZNewData: st&bfXYZDR != 0,
		ZNewData:   st&bfZDR != 0,
		YNewData:   st&bfYDR != 0,
		XNewData:   st&bfXDR != 0,
	}
}

func decodeTemperatureStatus(st uint8) TemperatureStatus {
	return TemperatureStatus{
		Overrun: st&bfTOR != 0,
		NewData: st&bfTDA != 0,
	}
}

func decodeInterruptStatus(st uint8) InterruptStatus {
	return InterruptStatus{
		Active: st&bfInt1IA != 0,
		ZHigh:  st&bfInt1ZH != 0,
		ZLow:   st&bfInt1ZL != 0,
		YHigh:  st&bfInt1YH != 0,
		YLow:   st&bfInt1YL != 0,
		XHigh:  st&bfInt1XH != 0,
		XLow:   st&bfInt1XL != 0,
	}
}

func decodeFifoStatus(st uint8) FifoStatus {
	return FifoStatus{
		Watermark:     st&bfFifoWTM != 0,
		Overrun:       st&bfFifoOvrn != 0,
		Empty:         st&bfFifoEmpty != 0,
		UnreadSamples: st & maskFifoFSS,
	}
}
