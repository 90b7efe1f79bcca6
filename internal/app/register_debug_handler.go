// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relabs-tech/compass_computer/internal/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn *websocket.Conn
}

// Response types
type RegisterResponse struct {
	Type        string                 `json:"type"`          // "register_data", "register_map", "status", "error"
	Die         string                 `json:"die,omitempty"` // "accel" or "mag"
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"` // for bulk read
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Status      string                 `json:"status,omitempty"`
	RegisterMap []sensors.RegisterInfo `json:"register_map,omitempty"`
}

// RegisterConfigFile represents the JSON structure for exported register configuration
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Die       string            `json:"die"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// HandleRegisterDebugWS handles the WebSocket connection for register debugging
func HandleRegisterDebugWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &RegisterDebugSession{Conn: conn}

	// Send register map on connection (accelerometer die by default)
	if err := session.sendRegisterMap("accel"); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	// Message loop
	for {
		var rawMsg map[string]interface{}
		err := conn.ReadJSON(&rawMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			break
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			session.sendError("missing or invalid action field")
			continue
		}

		// Route based on action
		switch action {
		case "get_map":
			die, _ := rawMsg["die"].(string)
			if die == "" {
				die = "accel" // default
			}
			session.sendRegisterMap(die)
		case "read":
			session.handleRead(rawMsg)
		case "read_all":
			session.handleReadAll(rawMsg)
		case "write":
			session.handleWrite(rawMsg)
		case "init":
			session.handleInit()
		case "export_config":
			session.handleExportConfig(rawMsg)
		default:
			session.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (s *RegisterDebugSession) handleRead(rawMsg map[string]interface{}) {
	die, _ := rawMsg["die"].(string)
	addr, _ := rawMsg["addr"].(string)

	if die == "" || addr == "" {
		s.sendError("missing die or addr field")
		return
	}

	// Parse hex address
	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}

	mgr := sensors.GetCompassManager()
	value, err := mgr.ReadRegister(die, addrByte)
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Die:       die,
		Address:   addr,
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleReadAll(rawMsg map[string]interface{}) {
	die, _ := rawMsg["die"].(string)
	if die == "" {
		die = "accel"
	}

	mgr := sensors.GetCompassManager()
	registers, err := mgr.ReadAllRegisters(die)
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Die:       die,
		Registers: regMap,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleWrite(rawMsg map[string]interface{}) {
	die, _ := rawMsg["die"].(string)
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)

	if die == "" || addr == "" || valueStr == "" {
		s.sendError("missing die, addr, or value field")
		return
	}

	// Parse hex address and value
	var addrByte, valueByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, err := fmt.Sscanf(valueStr, "0x%X", &valueByte); err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", valueStr))
		return
	}

	if !isRegisterWritable(die, addrByte) {
		s.sendError(fmt.Sprintf("register 0x%02X is not writable", addrByte))
		return
	}

	mgr := sensors.GetCompassManager()
	if err := mgr.WriteRegister(die, addrByte, valueByte); err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	// Send confirmation
	resp := RegisterResponse{
		Type:      "register_data",
		Die:       die,
		Address:   addr,
		Value:     valueStr,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleInit() {
	// Re-run the power-on sequence; manual register writes bypass the
	// driver's shadow state, so this is the way back to a known config.
	mgr := sensors.GetCompassManager()
	if err := mgr.Reinitialize(); err != nil {
		s.sendError(fmt.Sprintf("reinit error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:    "status",
		Status:  "initialized",
		Message: "compass reinitialized successfully",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleExportConfig(rawMsg map[string]interface{}) {
	die, _ := rawMsg["die"].(string)
	if die == "" {
		die = "accel"
	}

	mgr := sensors.GetCompassManager()
	registers, err := mgr.ReadAllRegisters(die)
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Create config file structure
	configFile := RegisterConfigFile{
		Version:   1,
		Die:       die,
		Timestamp: time.Now().Format(time.RFC3339),
		Registers: regMap,
	}

	// Send as download
	configJSON, _ := json.Marshal(configFile)
	rawResp := map[string]interface{}{
		"type":     "export_config",
		"die":      die,
		"message":  "config exported",
		"config":   string(configJSON),
		"filename": fmt.Sprintf("lsm303agr_%s_%s_registers.json", die, time.Now().Format("20060102_150405")),
	}
	s.Conn.WriteJSON(rawResp)
}

func (s *RegisterDebugSession) sendRegisterMap(die string) error {
	resp := RegisterResponse{
		Type:        "register_map",
		Die:         die,
		RegisterMap: sensors.GetRegisterMap(die),
	}
	return s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) sendError(message string) {
	resp := RegisterResponse{
		Type:    "error",
		Message: message,
	}
	s.Conn.WriteJSON(resp)
}

// HandleCompassData serves live compass data via REST API
// Query parameter: ?data=accel, ?data=mag or ?data=env (defaults to accel)
func HandleCompassData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	kind := r.URL.Query().Get("data")
	if kind == "" {
		kind = "accel"
	}

	mgr := sensors.GetCompassManager()

	var sample interface{}
	var err error

	switch kind {
	case "accel":
		sample, err = mgr.ReadSample()
	case "mag":
		sample, err = mgr.ReadMag()
	case "env":
		sample, err = mgr.ReadEnv()
	default:
		http.Error(w, `{"error": "invalid data parameter, use 'accel', 'mag' or 'env'"}`, http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": "%v"}`, err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(sample)
}

// isRegisterWritable checks the register metadata for write access.
func isRegisterWritable(die string, addr byte) bool {
	for _, reg := range sensors.GetRegisterMap(die) {
		var regAddr byte
		if _, err := fmt.Sscanf(reg.Address, "0x%X", &regAddr); err != nil {
			continue
		}
		if regAddr == addr {
			return reg.Access == "RW" || reg.Access == "W"
		}
	}
	return false
}
