package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	MQTTClientIDDebug    string

	// Topics
	TopicAccel string
	TopicMag   string
	TopicEnv   string
	TopicPose  string

	// Compass Hardware
	// Bus selects the transport: "i2c" or "spi".
	CompassBus        string
	CompassI2CBus     string
	CompassSPIDevice  string
	CompassCSAccelPin string
	CompassCSMagPin   string
	CompassSPISpeedHz int

	// Accelerometer Configuration
	// Mode: "low_power", "normal" or "high_resolution"
	AccelMode string
	// Scale: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	AccelScale byte
	// Output data rate in Hz: 1, 10, 25, 50, 100, 200, 400
	AccelODRHz int

	// Magnetometer Configuration
	// Output data rate in Hz: 10, 20, 50, 100
	MagODRHz int
	// Mode: "continuous", "single" or "idle"
	MagMode string

	// FIFO Configuration
	FifoEnabled bool
	// FIFO mode: 0=bypass, 1=fifo, 2=stream, 3=stream-to-fifo
	FifoMode byte
	// Interrupt pin routing: 1 or 2
	FifoIntPin     int
	FifoLatched    bool
	FifoActiveHigh bool

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_DEBUG":
		c.MQTTClientIDDebug = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_MAG":
		c.TopicMag = value
	case "TOPIC_ENV":
		c.TopicEnv = value
	case "TOPIC_POSE":
		c.TopicPose = value

	// Compass Hardware
	case "COMPASS_BUS":
		if value != "i2c" && value != "spi" {
			return fmt.Errorf("COMPASS_BUS must be \"i2c\" or \"spi\", got %q", value)
		}
		c.CompassBus = value
	case "COMPASS_I2C_BUS":
		c.CompassI2CBus = value
	case "COMPASS_SPI_DEVICE":
		c.CompassSPIDevice = value
	case "COMPASS_CS_ACCEL_PIN":
		c.CompassCSAccelPin = value
	case "COMPASS_CS_MAG_PIN":
		c.CompassCSMagPin = value
	case "COMPASS_SPI_SPEED_HZ":
		speed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid COMPASS_SPI_SPEED_HZ %q: %w", value, err)
		}
		if speed <= 0 || speed > 10000000 {
			return fmt.Errorf("COMPASS_SPI_SPEED_HZ must be 1-10000000, got %d", speed)
		}
		c.CompassSPISpeedHz = speed

	// Accelerometer Configuration
	case "ACCEL_MODE":
		switch value {
		case "low_power", "normal", "high_resolution":
			c.AccelMode = value
		default:
			return fmt.Errorf("ACCEL_MODE must be \"low_power\", \"normal\" or \"high_resolution\", got %q", value)
		}
	case "ACCEL_SCALE":
		scaleVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_SCALE %q: %w", value, err)
		}
		if scaleVal < 0 || scaleVal > 3 {
			return fmt.Errorf("ACCEL_SCALE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", scaleVal)
		}
		c.AccelScale = byte(scaleVal)
	case "ACCEL_ODR_HZ":
		odr, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_ODR_HZ %q: %w", value, err)
		}
		switch odr {
		case 1, 10, 25, 50, 100, 200, 400:
			c.AccelODRHz = odr
		default:
			return fmt.Errorf("ACCEL_ODR_HZ must be one of 1, 10, 25, 50, 100, 200, 400, got %d", odr)
		}

	// Magnetometer Configuration
	case "MAG_ODR_HZ":
		odr, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_ODR_HZ %q: %w", value, err)
		}
		switch odr {
		case 10, 20, 50, 100:
			c.MagODRHz = odr
		default:
			return fmt.Errorf("MAG_ODR_HZ must be one of 10, 20, 50, 100, got %d", odr)
		}
	case "MAG_MODE":
		switch value {
		case "continuous", "single", "idle":
			c.MagMode = value
		default:
			return fmt.Errorf("MAG_MODE must be \"continuous\", \"single\" or \"idle\", got %q", value)
		}

	// FIFO Configuration
	case "FIFO_ENABLED":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FIFO_ENABLED %q: %w", value, err)
		}
		c.FifoEnabled = enabled
	case "FIFO_MODE":
		mode, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FIFO_MODE %q: %w", value, err)
		}
		if mode < 0 || mode > 3 {
			return fmt.Errorf("FIFO_MODE must be 0-3 (0=bypass, 1=fifo, 2=stream, 3=stream-to-fifo), got %d", mode)
		}
		c.FifoMode = byte(mode)
	case "FIFO_INT_PIN":
		pin, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FIFO_INT_PIN %q: %w", value, err)
		}
		if pin != 1 && pin != 2 {
			return fmt.Errorf("FIFO_INT_PIN must be 1 or 2, got %d", pin)
		}
		c.FifoIntPin = pin
	case "FIFO_LATCHED":
		latched, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FIFO_LATCHED %q: %w", value, err)
		}
		c.FifoLatched = latched
	case "FIFO_ACTIVE_HIGH":
		activeHigh, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FIFO_ACTIVE_HIGH %q: %w", value, err)
		}
		c.FifoActiveHigh = activeHigh

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.CompassBus == "" {
		return fmt.Errorf("COMPASS_BUS is required")
	}
	if c.CompassBus == "spi" {
		if c.CompassSPIDevice == "" {
			return fmt.Errorf("COMPASS_SPI_DEVICE is required when COMPASS_BUS=spi")
		}
		if c.CompassCSAccelPin == "" {
			return fmt.Errorf("COMPASS_CS_ACCEL_PIN is required when COMPASS_BUS=spi")
		}
		if c.CompassCSMagPin == "" {
			return fmt.Errorf("COMPASS_CS_MAG_PIN is required when COMPASS_BUS=spi")
		}
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.ConsoleLogInterval == 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
