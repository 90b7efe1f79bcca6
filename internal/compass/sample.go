package compass

// Sample represents a single scaled accelerometer reading.
type Sample struct {
	Source string `json:"source"` // "i2c" or "spi"

	Ax int32 `json:"ax"` // milli-g
	Ay int32 `json:"ay"`
	Az int32 `json:"az"`

	RawX int16 `json:"raw_x"` // sensor counts
	RawY int16 `json:"raw_y"`
	RawZ int16 `json:"raw_z"`

	Time string `json:"time"`
}

// MagSample represents a single magnetic field reading.
type MagSample struct {
	Source string `json:"source"`

	Mx int32 `json:"mx"` // nanotesla
	My int32 `json:"my"`
	Mz int32 `json:"mz"`

	Norm    float64 `json:"norm"`    // field magnitude, nanotesla
	Heading float64 `json:"heading"` // tilt-compensated heading, degrees

	Time string `json:"time"`
}
