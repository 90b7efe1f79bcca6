package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/compass_computer/internal/compass"
	"github.com/relabs-tech/compass_computer/internal/config"
	"github.com/relabs-tech/compass_computer/internal/env"
	"github.com/relabs-tech/compass_computer/internal/orientation"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to accelerometer samples
	accelToken := client.Subscribe(cfg.TopicAccel, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s compass.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: accel unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[ACC ] ax=%6d ay=%6d az=%6d mg  raw=(%6d %6d %6d)  src=%s\n",
			s.Ax, s.Ay, s.Az, s.RawX, s.RawY, s.RawZ, s.Source,
		)
	})
	accelToken.Wait()
	if accelToken.Error() != nil {
		return accelToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicAccel)

	// Subscribe to magnetometer samples
	magToken := client.Subscribe(cfg.TopicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s compass.MagSample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: mag unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[MAG ] mx=%8d my=%8d mz=%8d nT  |B|=%8.0f  heading=%6.1f°\n",
			s.Mx, s.My, s.Mz, s.Norm, s.Heading,
		)
	})
	magToken.Wait()
	if magToken.Error() != nil {
		return magToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMag)

	// Subscribe to die temperature
	envToken := client.Subscribe(cfg.TopicEnv, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s env.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: env unmarshal error: %v", err)
			return
		}

		fmt.Printf("[ENV ] temp=%5.2f°C  src=%s\n", s.Temperature, s.Source)
	})
	envToken.Wait()
	if envToken.Error() != nil {
		return envToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicEnv)

	// Subscribe to pose
	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE] ROLL=%6.2f  PITCH=%6.2f  HEADING=%6.2f\n",
			p.Roll, p.Pitch, p.Heading,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPose)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
