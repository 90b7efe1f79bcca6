package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/compass_computer/internal/config"
	"github.com/relabs-tech/compass_computer/internal/lsm303agr"
	"github.com/relabs-tech/compass_computer/internal/orientation"
	"github.com/relabs-tech/compass_computer/internal/sensors"
)

func RunCompassProducer() error {
	log.Println("starting compass-computer producer")

	cfg := config.Get()

	// --- Initialize compass manager ---
	mgr := sensors.GetCompassManager()
	if err := mgr.Init(); err != nil {
		log.Fatalf("failed to initialize compass manager: %v", err)
		return err
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	// main tick
	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		// 1) Accelerometer
		if ready, err := mgr.AccelDataReady(); err != nil {
			log.Printf("error reading accel status: %v", err)
			continue
		} else if !ready {
			// Sampling faster than the configured ODR; skip the tick
			// instead of republishing a stale measurement.
			continue
		}

		acc, err := mgr.ReadSample()
		if err != nil {
			log.Printf("error reading accelerometer: %v", err)
			continue
		}

		if payload, err := json.Marshal(acc); err != nil {
			log.Printf("accel marshal error: %v", err)
			continue
		} else {
			if token := client.Publish(cfg.TopicAccel, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (accel): %v", token.Error())
				continue
			}
		}

		// 2) Magnetometer + tilt-compensated pose
		mag, err := mgr.ReadMag()
		if err != nil {
			log.Printf("error reading magnetometer: %v", err)
			continue
		}

		pose := orientation.ComputePose(
			float64(acc.Ax), float64(acc.Ay), float64(acc.Az),
			float64(mag.Mx), float64(mag.My), float64(mag.Mz),
		)
		mag.Heading = pose.Heading

		if payload, err := json.Marshal(mag); err != nil {
			log.Printf("mag marshal error: %v", err)
		} else {
			client.Publish(cfg.TopicMag, 0, true, payload)
		}

		if payload, err := json.Marshal(pose); err != nil {
			log.Printf("json marshal error (pose): %v", err)
		} else {
			if token := client.Publish(cfg.TopicPose, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (pose): %v", token.Error())
				continue
			}
		}

		// 3) Die temperature
		if envSample, err := mgr.ReadEnv(); err != nil {
			log.Printf("env read error: %v", err)
			continue
		} else if payload, err := json.Marshal(envSample); err != nil {
			log.Printf("env marshal error: %v", err)
			continue
		} else {
			if token := client.Publish(cfg.TopicEnv, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (env): %v", token.Error())
				continue
			}
		}

		// 4) FIFO housekeeping: a stopped FIFO produces stale samples until
		// it is cycled through bypass.
		if cfg.FifoEnabled && lsm303agr.FifoMode(cfg.FifoMode) == lsm303agr.FifoModeFifo {
			if fs, err := mgr.FifoStatus(); err != nil {
				log.Printf("FIFO status error: %v", err)
			} else if fs.Overrun {
				log.Printf("FIFO overrun (%d unread), restarting", fs.UnreadSamples)
				if err := mgr.RestartFifo(); err != nil {
					log.Printf("FIFO restart error: %v", err)
				}
			}
		}

		log.Printf("%s tick: accel ax=%d ay=%d az=%d | mag mx=%d my=%d mz=%d | heading=%.1f° |B|=%.0f",
			t.Format(time.RFC3339),
			acc.Ax, acc.Ay, acc.Az,
			mag.Mx, mag.My, mag.Mz,
			pose.Heading, mag.Norm,
		)
	}
	return nil
}
