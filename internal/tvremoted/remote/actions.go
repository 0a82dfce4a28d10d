package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

// Kind identifies an action family
type Kind string

const (
	KindVolume   Kind = "volume"
	KindChannel  Kind = "channel"
	KindPower    Kind = "power"
	KindNavigate Kind = "navigate"
	KindApp      Kind = "app"
	KindInput    Kind = "input"
	KindMessage  Kind = "message"
)

// Action is one symbolic remote-control instruction. The set of
// implementations is closed; see the Kind constants.
type Action interface {
	Kind() Kind
	isAction()
}

// VolumeAction is up, down, set, mute or unmute. Set without a level and
// unknown operations resolve to no command.
type VolumeAction struct {
	Op    string
	Level *int
}

// ChannelAction is up, down or set. Set without a number resolves to no command.
type ChannelAction struct {
	Op     string
	Number *v1.ChannelNumber
}

// PowerAction is off, or on when a waker is configured
type PowerAction struct {
	Op string
}

// NavigateAction sends a remote key; home opens the launcher
type NavigateAction struct {
	Direction string
}

// AppAction launches an application by short name or platform id
type AppAction struct {
	AppID string
}

// InputAction switches the external input
type InputAction struct {
	InputID string
}

// MessageAction shows a toast. A nil Duration uses the configured default.
type MessageAction struct {
	Message  string
	Duration *int
}

func (VolumeAction) Kind() Kind   { return KindVolume }
func (ChannelAction) Kind() Kind  { return KindChannel }
func (PowerAction) Kind() Kind    { return KindPower }
func (NavigateAction) Kind() Kind { return KindNavigate }
func (AppAction) Kind() Kind      { return KindApp }
func (InputAction) Kind() Kind    { return KindInput }
func (MessageAction) Kind() Kind  { return KindMessage }

func (VolumeAction) isAction()   {}
func (ChannelAction) isAction()  {}
func (PowerAction) isAction()    {}
func (NavigateAction) isAction() {}
func (AppAction) isAction()      {}
func (InputAction) isAction()    {}
func (MessageAction) isAction()  {}

// resolve maps an action to its device command. ok is false when the
// action sends nothing.
func resolve(a Action, defaultDuration int) (cmd Command, ok bool) {
	switch a := a.(type) {
	case VolumeAction:
		switch a.Op {
		case "up":
			return Command{URI: URIVolumeUp}, true
		case "down":
			return Command{URI: URIVolumeDown}, true
		case "set":
			if a.Level == nil {
				return Command{}, false
			}
			return Command{URI: URISetVolume, Payload: link.Payload{"volume": *a.Level}}, true
		case "mute":
			return Command{URI: URISetMute, Payload: link.Payload{"mute": true}}, true
		case "unmute":
			return Command{URI: URISetMute, Payload: link.Payload{"mute": false}}, true
		}

	case ChannelAction:
		switch a.Op {
		case "up":
			return Command{URI: URIChannelUp}, true
		case "down":
			return Command{URI: URIChannelDown}, true
		case "set":
			if a.Number == nil {
				return Command{}, false
			}
			return Command{URI: URIOpenChannel, Payload: link.Payload{"channelNumber": a.Number}}, true
		}

	case PowerAction:
		if a.Op == "off" {
			return Command{URI: URITurnOff}, true
		}

	case NavigateAction:
		if a.Direction == "home" {
			return Command{URI: URIHome}, true
		}
		return Command{URI: URIKeyEvent, Payload: link.Payload{"keyCode": strings.ToUpper(a.Direction)}}, true

	case AppAction:
		return Command{URI: URILaunch, Payload: link.Payload{"id": ResolveApp(a.AppID)}}, true

	case InputAction:
		return Command{URI: URISwitchInput, Payload: link.Payload{"inputId": a.InputID}}, true

	case MessageAction:
		return Command{URI: URICreateToast, Payload: toastPayload(a.Message, a.duration(defaultDuration))}, true
	}
	return Command{}, false
}

func (a MessageAction) duration(def int) int {
	if a.Duration == nil {
		return def
	}
	return *a.Duration
}

func toastPayload(message string, duration int) link.Payload {
	return link.Payload{"message": message, "duration": duration}
}

// DefaultStepDelay is the pause between combo steps when none is given
const DefaultStepDelay = 200 * time.Millisecond

// Step is one decoded combo element. Err is set when the element cannot run;
// it becomes that step's outcome without affecting the others.
type Step struct {
	Type   string
	Data   json.RawMessage
	Delay  time.Duration
	Action Action
	Err    error
}

// DecodeSteps validates a combo action list and decodes each element
func DecodeSteps(raw json.RawMessage) ([]Step, error) {
	const op = "Remote.DecodeSteps"
	invalid := errors.BadRequest(op, "actions must be a non-empty array")

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, invalid
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, invalid
	}
	if len(elems) == 0 {
		return nil, invalid
	}

	steps := make([]Step, 0, len(elems))
	for _, elem := range elems {
		steps = append(steps, decodeStep(elem))
	}
	return steps, nil
}

func decodeStep(elem json.RawMessage) Step {
	const op = "Remote.DecodeStep"

	var in v1.ComboAction
	if err := json.Unmarshal(elem, &in); err != nil {
		return Step{Delay: DefaultStepDelay, Err: errors.BadRequest(op, "invalid action")}
	}

	step := Step{
		Type:  in.Type,
		Data:  in.Data,
		Delay: stepDelay(in.Delay),
	}

	action, err := decodeAction(in.Type, in.Data)
	if err != nil {
		step.Err = err
		return step
	}
	step.Action = action
	return step
}

func stepDelay(ms *int) time.Duration {
	switch {
	case ms == nil || *ms == 0:
		return DefaultStepDelay
	case *ms < 0:
		return 0
	default:
		return time.Duration(*ms) * time.Millisecond
	}
}

// decodeAction decodes the data of a combo element of the given type
func decodeAction(typ string, data json.RawMessage) (Action, error) {
	const op = "Remote.DecodeAction"

	switch Kind(typ) {
	case KindVolume, KindMessage, KindApp, KindChannel:
	default:
		return nil, errors.Unsupported(op, typ)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errors.BadRequest(op, fmt.Sprintf("missing data for %s action", typ))
	}

	invalid := func(err error) error {
		return errors.BadRequest(op, fmt.Sprintf("invalid data for %s action: %v", typ, err))
	}

	switch Kind(typ) {
	case KindVolume:
		var req v1.VolumeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, invalid(err)
		}
		return VolumeAction{Op: req.Action, Level: req.Level}, nil

	case KindChannel:
		var req v1.ChannelRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, invalid(err)
		}
		return ChannelAction{Op: req.Action, Number: req.Number}, nil

	case KindApp:
		var req v1.AppRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, invalid(err)
		}
		return AppAction{AppID: req.AppID}, nil

	default:
		var req v1.ToastRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, invalid(err)
		}
		// A zero duration inside a combo falls back to the default
		if req.Duration != nil && *req.Duration == 0 {
			req.Duration = nil
		}
		return MessageAction{Message: req.Message, Duration: req.Duration}, nil
	}
}
