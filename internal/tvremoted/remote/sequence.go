package remote

import (
	"context"
	"time"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

// PendingMarker replaces the message-mute results when no step has completed
const PendingMarker = "Actions in progress..."

// toastDelay separates the mute command from the toast in message-mute
const toastDelay = 100 * time.Millisecond

// MessageMute is a mute or unmute followed by a toast
type MessageMute struct {
	Message  string
	Duration *int
	// MuteAction is "mute" (default) or anything else to unmute
	MuteAction string
}

// MessageMuteResult is what is known when the response is built
type MessageMuteResult struct {
	Message    string
	Duration   int
	MuteAction string
	Results    []v1.StepResult
}

// MessageMute awaits the mute command, then sends the toast in the background
// after a short delay. The returned results never include the toast outcome;
// it is only logged.
func (d *Dispatcher) MessageMute(ctx context.Context, mm MessageMute) MessageMuteResult {
	if mm.MuteAction == "" {
		mm.MuteAction = "mute"
	}
	duration := MessageAction{Duration: mm.Duration}.duration(d.defaultDuration())

	out := MessageMuteResult{
		Message:    mm.Message,
		Duration:   duration,
		MuteAction: mm.MuteAction,
	}

	_, err := d.send(ctx, Command{URI: URISetMute, Payload: link.Payload{"mute": mm.MuteAction == "mute"}})
	if err != nil {
		out.Results = append(out.Results, v1.StepResult{Action: "mute", Error: errors.Message(err)})
	} else {
		out.Results = append(out.Results, v1.StepResult{Action: "mute", Success: true, Value: mm.MuteAction})
	}

	bg := context.WithoutCancel(ctx)
	toast := Command{URI: URICreateToast, Payload: toastPayload(mm.Message, duration)}
	d.after(toastDelay, func() {
		if _, err := d.send(bg, toast); err != nil {
			d.logger.Error().Err(err).Str("step", "message").Msg("message-mute toast failed")
			return
		}
		d.logger.Info().Str("step", "message").Msg("message-mute toast sent")
	})

	return out
}

// Combo runs steps strictly in order, pausing each step's delay before the
// next one. Step failures are recorded and never stop the sequence. The
// sequence runs to completion even if ctx is cancelled.
func (d *Dispatcher) Combo(ctx context.Context, steps []Step) []v1.ComboResult {
	ctx = context.WithoutCancel(ctx)
	results := make([]v1.ComboResult, 0, len(steps))

	for i, step := range steps {
		res := v1.ComboResult{Action: step.Type, Data: step.Data}

		err := step.Err
		if err == nil {
			res.Result, err = d.Execute(ctx, step.Action)
		}
		if err != nil {
			res.Error = errors.Message(err)
			d.logger.Warn().
				Int("step", i+1).
				Str("type", step.Type).
				Err(err).
				Msg("combo step failed")
		} else {
			res.Success = true
		}
		results = append(results, res)

		if i < len(steps)-1 {
			d.clock.Sleep(step.Delay)
		}
	}

	d.logger.Debug().Int("steps", len(steps)).Msg("combo completed")
	return results
}
