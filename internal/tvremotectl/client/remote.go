package client

import (
	"context"
	"encoding/json"
	"net/http"

	v1 "github.com/wrale/webos-remote/api/types/v1"
)

// Status returns the device link state
func (c *Client) Status(ctx context.Context) (*v1.StatusResponse, error) {
	var res v1.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Connect asks the gateway to start a new connection attempt
func (c *Client) Connect(ctx context.Context) (*v1.MessageResponse, error) {
	var res v1.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/connect", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Volume changes the volume
func (c *Client) Volume(ctx context.Context, req v1.VolumeRequest) (*v1.VolumeResponse, error) {
	var res v1.VolumeResponse
	if err := c.do(ctx, http.MethodPost, "/volume", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Channel changes the channel
func (c *Client) Channel(ctx context.Context, req v1.ChannelRequest) (*v1.ChannelResponse, error) {
	var res v1.ChannelResponse
	if err := c.do(ctx, http.MethodPost, "/channel", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Power turns the TV on or off
func (c *Client) Power(ctx context.Context, req v1.PowerRequest) (*v1.PowerResponse, error) {
	var res v1.PowerResponse
	if err := c.do(ctx, http.MethodPost, "/power", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Navigate sends a remote key
func (c *Client) Navigate(ctx context.Context, req v1.NavigateRequest) (*v1.NavigateResponse, error) {
	var res v1.NavigateResponse
	if err := c.do(ctx, http.MethodPost, "/navigate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LaunchApp launches an application
func (c *Client) LaunchApp(ctx context.Context, req v1.AppRequest) (*v1.AppResponse, error) {
	var res v1.AppResponse
	if err := c.do(ctx, http.MethodPost, "/app", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SwitchInput switches the external input
func (c *Client) SwitchInput(ctx context.Context, req v1.InputRequest) (*v1.InputResponse, error) {
	var res v1.InputResponse
	if err := c.do(ctx, http.MethodPost, "/input", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ShowMessage shows a toast notification
func (c *Client) ShowMessage(ctx context.Context, req v1.ToastRequest) (*v1.ToastResponse, error) {
	var res v1.ToastResponse
	if err := c.do(ctx, http.MethodPost, "/message", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MessageMute mutes or unmutes, then shows a toast
func (c *Client) MessageMute(ctx context.Context, req v1.MessageMuteRequest) (*v1.MessageMuteResponse, error) {
	var res v1.MessageMuteResponse
	if err := c.do(ctx, http.MethodPost, "/message-mute", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Combo runs a sequence of actions and waits for all of them
func (c *Client) Combo(ctx context.Context, actions []v1.ComboAction) (*v1.ComboResponse, error) {
	raw, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}

	var res v1.ComboResponse
	if err := c.do(ctx, http.MethodPost, "/combo", v1.ComboRequest{Actions: raw}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Shutdown schedules the standard announcement plan
func (c *Client) Shutdown(ctx context.Context, custom *v1.CustomMessages) (*v1.ShutdownResponse, error) {
	var res v1.ShutdownResponse
	if err := c.do(ctx, http.MethodPost, "/shutdown-sequence", v1.ShutdownRequest{CustomMessages: custom}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ShutdownFast schedules the short test plan
func (c *Client) ShutdownFast(ctx context.Context) (*v1.ShutdownResponse, error) {
	var res v1.ShutdownResponse
	if err := c.do(ctx, http.MethodPost, "/shutdown-sequence-fast", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelShutdown shows the cancellation notice
func (c *Client) CancelShutdown(ctx context.Context) (*v1.CancelShutdownResponse, error) {
	var res v1.CancelShutdownResponse
	if err := c.do(ctx, http.MethodPost, "/cancel-shutdown", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListApps returns the raw installed application list
func (c *Client) ListApps(ctx context.Context) (json.RawMessage, error) {
	return c.query(ctx, "/apps")
}

// ListInputs returns the raw external input list
func (c *Client) ListInputs(ctx context.Context) (json.RawMessage, error) {
	return c.query(ctx, "/inputs")
}

// SystemInfo returns the raw TV system information
func (c *Client) SystemInfo(ctx context.Context) (json.RawMessage, error) {
	return c.query(ctx, "/system")
}

func (c *Client) query(ctx context.Context, pathStr string) (json.RawMessage, error) {
	var res json.RawMessage
	if err := c.do(ctx, http.MethodGet, pathStr, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}
