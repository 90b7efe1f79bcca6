package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/compass_computer/internal/config"
	"github.com/relabs-tech/compass_computer/internal/env"
	"github.com/relabs-tech/compass_computer/internal/orientation"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	pose     orientation.Pose
	havePose bool

	env     env.Sample
	haveEnv bool
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	display, err := ssd1306.NewI2C(bus, cfg.DisplayI2CAddr, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := showSplash(display); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	// Data storage
	data := &DisplayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to pose
	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("display: pose unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.pose = p
		data.havePose = true
		data.mu.Unlock()
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicPose)

	// Subscribe to die temperature
	envToken := client.Subscribe(cfg.TopicEnv, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s env.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("display: env unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.env = s
		data.haveEnv = true
		data.mu.Unlock()
	})
	envToken.Wait()
	if envToken.Error() != nil {
		return envToken.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicEnv)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		// Read data without copying the mutex
		data.mu.RLock()
		pose := data.pose
		havePose := data.havePose
		envSample := data.env
		haveEnv := data.haveEnv
		data.mu.RUnlock()

		if err := updateCompassDisplay(display, pose, havePose, envSample, haveEnv); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func updateCompassDisplay(dev *ssd1306.Dev, pose orientation.Pose, havePose bool, envSample env.Sample, haveEnv bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !havePose {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Compass"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("HDG: %5.1f %s", pose.Heading, cardinal(pose.Heading))))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("R: %6.1f", pose.Roll)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("P: %6.1f", pose.Pitch)))

		if haveEnv {
			drawer.Dot = fixed.P(0, 52)
			drawer.DrawBytes([]byte(fmt.Sprintf("T: %5.1fC", envSample.Temperature)))
		}
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// cardinal maps a heading in degrees to one of the eight compass points.
func cardinal(heading float64) string {
	points := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int((heading+22.5)/45.0) % 8
	if idx < 0 {
		idx += 8
	}
	return points[idx]
}

func showSplash(dev *ssd1306.Dev) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Compass Pi"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Finding"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("north"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
