package remote

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	v1 "github.com/wrale/webos-remote/api/types/v1"
)

// Clock abstracts time for delays and timers
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(d time.Duration)
}

// Timer is a pending AfterFunc call
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Timing holds the offsets of the three announcements and the power-off
type Timing struct {
	First  time.Duration
	Second time.Duration
	Third  time.Duration
	Final  time.Duration
}

// PlanKind names an announcement plan
type PlanKind string

const (
	PlanStandard PlanKind = "standard"
	PlanFast     PlanKind = "fast"
)

// Toast durations of the announcement plans, in milliseconds
const (
	standardToastDuration = 8000
	fastToastDuration     = 5000
	cancelToastDuration   = 5000
)

// Default announcement texts
const (
	StandardFirstMessage  = "The TV will turn off in 2 minutes"
	StandardSecondMessage = "The TV will turn off in 1 minute"
	StandardThirdMessage  = "Good night 😴"

	FastFirstMessage  = "Test: TV will turn off in 20 seconds"
	FastSecondMessage = "Test: TV will turn off in 10 seconds"
	FastThirdMessage  = "Test: Good night 😴"

	CancelMessage = "✅ Shutdown sequence cancelled"
	CancelNote    = "Timers already scheduled cannot be cancelled. Restart the server if needed."
)

// Announcement is one timed toast of a plan
type Announcement struct {
	Message string
	At      time.Duration
}

// Plan is a set of timed announcements followed by a power-off
type Plan struct {
	ID            string
	Kind          PlanKind
	Announcements []Announcement
	ToastDuration int
	PowerOffAt    time.Duration
	ScheduledAt   time.Time
}

// Schedule describes the plan's timers in firing order
func (p *Plan) Schedule() []v1.ScheduleEntry {
	entries := make([]v1.ScheduleEntry, 0, len(p.Announcements)+1)
	for _, a := range p.Announcements {
		entries = append(entries, v1.ScheduleEntry{
			Time:   formatOffset(a.At),
			Action: "Message: " + a.Message,
		})
	}
	return append(entries, v1.ScheduleEntry{
		Time:   formatOffset(p.PowerOffAt),
		Action: "TV power off",
	})
}

// formatOffset renders an offset in seconds, e.g. "0s", "60s", "1.5s"
func formatOffset(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Milliseconds())/1000, 'f', -1, 64) + "s"
}

func newPlan(kind PlanKind, timing Timing, toastDuration int, messages [3]string) *Plan {
	return &Plan{
		ID:   uuid.NewString(),
		Kind: kind,
		Announcements: []Announcement{
			{Message: messages[0], At: timing.First},
			{Message: messages[1], At: timing.Second},
			{Message: messages[2], At: timing.Third},
		},
		ToastDuration: toastDuration,
		PowerOffAt:    timing.Final,
	}
}

// StandardPlan builds the standard plan. Non-empty custom texts replace
// the matching defaults.
func (d *Dispatcher) StandardPlan(custom *v1.CustomMessages) *Plan {
	messages := [3]string{StandardFirstMessage, StandardSecondMessage, StandardThirdMessage}
	if custom != nil {
		for i, s := range []string{custom.First, custom.Second, custom.Third} {
			if s != "" {
				messages[i] = s
			}
		}
	}
	return newPlan(PlanStandard, d.settings.Standard, standardToastDuration, messages)
}

// FastPlan builds the short test plan
func (d *Dispatcher) FastPlan() *Plan {
	messages := [3]string{FastFirstMessage, FastSecondMessage, FastThirdMessage}
	return newPlan(PlanFast, d.settings.Fast, fastToastDuration, messages)
}

// SchedulePlan arms one timer per announcement and one for the power-off,
// then returns without waiting. Armed timers always run; failures are logged.
func (d *Dispatcher) SchedulePlan(p *Plan) {
	p.ScheduledAt = d.clock.Now()
	logger := d.logger.With().Str("planId", p.ID).Str("plan", string(p.Kind)).Logger()

	total := len(p.Announcements)
	for i, a := range p.Announcements {
		n, message := i+1, a.Message
		cmd := Command{URI: URICreateToast, Payload: toastPayload(message, p.ToastDuration)}
		d.after(a.At, func() {
			if _, err := d.send(context.Background(), cmd); err != nil {
				logger.Error().Err(err).Int("index", n).Int("total", total).Msg("announcement failed")
				return
			}
			logger.Info().Int("index", n).Int("total", total).Str("message", message).Msg("announcement sent")
		})
	}

	d.after(p.PowerOffAt, func() {
		if _, err := d.send(context.Background(), Command{URI: URITurnOff}); err != nil {
			logger.Error().Err(err).Msg("scheduled power off failed")
			return
		}
		logger.Info().Msg("tv powered off by plan")
	})

	d.recorder.ObservePlan(string(p.Kind))
	logger.Info().Dur("powerOffAt", p.PowerOffAt).Msg("shutdown sequence scheduled")
}

// CancelShutdown announces a cancellation on the TV. It does not disarm
// timers that are already scheduled.
func (d *Dispatcher) CancelShutdown(ctx context.Context) error {
	_, err := d.send(ctx, Command{URI: URICreateToast, Payload: toastPayload(CancelMessage, cancelToastDuration)})
	return err
}
