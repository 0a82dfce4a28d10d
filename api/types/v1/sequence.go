package v1

import (
	"encoding/json"
	"time"
)

// ComboRequest runs an ordered list of actions
type ComboRequest struct {
	// Actions is the raw action list; it is validated by the server
	Actions json.RawMessage `json:"actions"`
}

// ComboAction is one element of a combo request
type ComboAction struct {
	// Type is one of volume, message, app, channel
	Type string `json:"type"`
	// Data carries the fields of the matching single-action request
	Data json.RawMessage `json:"data,omitempty"`
	// Delay is the pause in milliseconds after this action; 200 when absent or zero
	Delay *int `json:"delay,omitempty"`
}

// ComboResponse lists the outcome of every action in input order
type ComboResponse struct {
	Success      bool          `json:"success"`
	TotalActions int           `json:"totalActions"`
	Results      []ComboResult `json:"results"`
}

// ComboResult is the outcome of one combo action
type ComboResult struct {
	// Action is the input type
	Action  string `json:"action"`
	Success bool   `json:"success"`
	// Data echoes the input data
	Data json.RawMessage `json:"data,omitempty"`
	// Result is the raw device response when a command was sent
	Result json.RawMessage `json:"result,omitempty"`
	// Error describes a failed action
	Error string `json:"error,omitempty"`
}

// ShutdownRequest schedules the standard announcement plan
type ShutdownRequest struct {
	// CustomMessages optionally replaces the announcement texts
	CustomMessages *CustomMessages `json:"customMessages,omitempty"`
}

// ScheduleEntry describes one timer of an announcement plan
type ScheduleEntry struct {
	// Time is the offset from scheduling, e.g. "60s"
	Time string `json:"time"`
	// Action describes what fires at that offset
	Action string `json:"action"`
}

// ShutdownResponse returns the schedule of a newly armed plan
type ShutdownResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// PlanID identifies the plan in logs
	PlanID string `json:"planId"`
	// ScheduledAt is when the timers were armed
	ScheduledAt time.Time       `json:"scheduledAt"`
	Schedule    []ScheduleEntry `json:"schedule"`
}

// CancelShutdownResponse confirms the cancellation notice was shown
type CancelShutdownResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Note explains that armed timers keep running
	Note string `json:"note"`
}
