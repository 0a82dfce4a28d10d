package v1

// VolumeRequest changes the TV volume
type VolumeRequest struct {
	// Action is one of up, down, set, mute, unmute
	Action string `json:"action"`
	// Level is the absolute volume, used by set
	Level *int `json:"level,omitempty"`
}

// VolumeResponse echoes a volume request
type VolumeResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Level   *int   `json:"level,omitempty"`
}

// ChannelRequest changes the TV channel
type ChannelRequest struct {
	// Action is one of up, down, set
	Action string `json:"action"`
	// Number is the channel to open, used by set
	Number *ChannelNumber `json:"number,omitempty"`
}

// ChannelResponse echoes a channel request
type ChannelResponse struct {
	Success bool           `json:"success"`
	Action  string         `json:"action"`
	Number  *ChannelNumber `json:"number,omitempty"`
}

// PowerRequest changes the TV power state
type PowerRequest struct {
	// Action is off, or on when Wake-on-LAN is configured
	Action string `json:"action"`
}

// PowerResponse echoes a power request
type PowerResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

// NavigateRequest sends a remote control key
type NavigateRequest struct {
	// Direction is home, or a key name such as up, down, left, right, ok, back
	Direction string `json:"direction"`
}

// NavigateResponse echoes a navigate request
type NavigateResponse struct {
	Success   bool   `json:"success"`
	Direction string `json:"direction"`
}

// AppRequest launches an application
type AppRequest struct {
	// AppID is a well-known short name (netflix, youtube, ...) or a raw platform id
	AppID string `json:"appId"`
}

// AppResponse reports the platform id that was launched
type AppResponse struct {
	Success bool   `json:"success"`
	AppID   string `json:"appId"`
}

// InputRequest switches the active external input
type InputRequest struct {
	// InputID is the platform input id, e.g. HDMI_1
	InputID string `json:"inputId"`
}

// InputResponse echoes an input request
type InputResponse struct {
	Success bool   `json:"success"`
	InputID string `json:"inputId"`
}

// ToastRequest shows a notification on the TV
type ToastRequest struct {
	// Message is the text to display
	Message string `json:"message"`
	// Duration is the display time in milliseconds; the server default applies when absent
	Duration *int `json:"duration,omitempty"`
}

// ToastResponse echoes a toast request with the effective duration
type ToastResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Duration int    `json:"duration"`
}

// MessageMuteRequest mutes or unmutes then shows a notification
type MessageMuteRequest struct {
	// Message is the text to display
	Message string `json:"message"`
	// Duration is the display time in milliseconds
	Duration *int `json:"duration,omitempty"`
	// MuteAction is mute (default) or unmute
	MuteAction string `json:"muteAction,omitempty"`
}

// MessageMuteResponse reports the steps completed before the response was sent.
// Results is either a list of StepResult or the pending marker string.
type MessageMuteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Duration   int    `json:"duration"`
	MuteAction string `json:"muteAction"`
	Results    any    `json:"results"`
}

// StepResult is the outcome of one message-mute step
type StepResult struct {
	// Action names the step (mute or message)
	Action  string `json:"action"`
	Success bool   `json:"success"`
	// Value is the mute action applied
	Value string `json:"value,omitempty"`
	// Error describes a failed step
	Error string `json:"error,omitempty"`
}
