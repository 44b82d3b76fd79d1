package data

import "time"

// EntityState mirrors the Home Assistant state object.
type EntityState struct {
	EntityID    string                 `json:"entity_id"`
	State       string                 `json:"state"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	LastChanged time.Time              `json:"last_changed"`
}

// PrinterStatus is the derived view shown to clients.
type PrinterStatus struct {
	Title    string            `json:"title"`
	Entity   string            `json:"entity"`
	Online   string            `json:"online"` // online, offline, unknown
	State    string            `json:"state,omitempty"`
	Paper    string            `json:"paper"` // ok, out, unknown
	Usage    *float64          `json:"usage,omitempty"`
	Counters map[string]string `json:"counters,omitempty"`
}
