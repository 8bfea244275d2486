package model

// Event describes one executed device action. Events are pushed to
// websocket subscribers and, when configured, to MQTT. Text fields are
// sanitized before an event is built.
type Event struct {
	ID        string `json:"id"`
	Command   string `json:"command"`
	Text      string `json:"text,omitempty"`
	Device    string `json:"device,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// LightState is the resolved power state of the primary light.
type LightState struct {
	EntityID string `json:"entityId"`
	Name     string `json:"name"`
	On       bool   `json:"on"`
}
