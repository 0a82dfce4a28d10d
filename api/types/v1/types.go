// Package v1 contains the REST API types for the webOS remote gateway.
package v1

import "time"

// StatusResponse reports the device link state
type StatusResponse struct {
	// Connected is true when a usable session with the TV is held
	Connected bool `json:"connected"`
	// State is the link state (DISCONNECTED, CONNECTING, CONNECTED)
	State string `json:"state"`
	// TVIP is the configured TV address
	TVIP string `json:"tv_ip"`
	// TVPort is the configured TV control port
	TVPort int `json:"tv_port"`
	// Timestamp is when the snapshot was taken
	Timestamp time.Time `json:"timestamp"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	// Message describes what was done
	Message string `json:"message"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	// Error is a free text description of the failure
	Error string `json:"error"`
}

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	// Status is always "ok" when the server answers
	Status string `json:"status"`
	// Connected mirrors the device link state
	Connected bool `json:"connected"`
}
