package env

// Sample represents a single temperature measurement from the compass die.
type Sample struct {
	Source string `json:"source"` // "i2c" or "spi"

	Temperature float64 `json:"temp_c"` // °C
}
