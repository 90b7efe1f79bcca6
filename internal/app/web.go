package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/compass_computer/internal/compass"
	"github.com/relabs-tech/compass_computer/internal/config"
	"github.com/relabs-tech/compass_computer/internal/env"
	"github.com/relabs-tech/compass_computer/internal/orientation"
)

// compassState is the aggregated view served by /api/compass.
type compassState struct {
	Accel *compass.Sample    `json:"accel,omitempty"`
	Mag   *compass.MagSample `json:"mag,omitempty"`
	Env   *env.Sample        `json:"env,omitempty"`
	Pose  *orientation.Pose  `json:"pose,omitempty"`
}

func RunWeb() error {
	cfg := config.Get()

	var (
		mu    sync.RWMutex
		state compassState
	)

	// 1) Connect to MQTT broker on the Pi
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to each topic and keep the latest message
	subscribe := func(topic string, handler mqtt.MessageHandler) error {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("subscribed to MQTT topic %s", topic)
		return nil
	}

	if err := subscribe(cfg.TopicAccel, func(_ mqtt.Client, msg mqtt.Message) {
		var s compass.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("MQTT payload unmarshal error (accel): %v", err)
			return
		}
		mu.Lock()
		state.Accel = &s
		mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribe(cfg.TopicMag, func(_ mqtt.Client, msg mqtt.Message) {
		var s compass.MagSample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("MQTT payload unmarshal error (mag): %v", err)
			return
		}
		mu.Lock()
		state.Mag = &s
		mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribe(cfg.TopicEnv, func(_ mqtt.Client, msg mqtt.Message) {
		var s env.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("MQTT payload unmarshal error (env): %v", err)
			return
		}
		mu.Lock()
		state.Env = &s
		mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribe(cfg.TopicPose, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("MQTT payload unmarshal error (pose): %v", err)
			return
		}
		mu.Lock()
		state.Pose = &p
		mu.Unlock()
	}); err != nil {
		return err
	}

	// 3) JSON API endpoint: latest samples
	http.HandleFunc("/api/compass", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if state.Accel == nil && state.Mag == nil {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// 4) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
