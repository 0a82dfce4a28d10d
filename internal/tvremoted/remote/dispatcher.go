// Package remote turns symbolic remote-control actions into device commands.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

// Link is the device link used by the dispatcher
type Link interface {
	Connect()
	Status() link.Status
	SendCommand(ctx context.Context, uri string, payload link.Payload) (json.RawMessage, error)
}

// Waker powers the TV on out of band
type Waker interface {
	Wake(ctx context.Context) error
}

// Recorder observes dispatched commands and scheduled plans
type Recorder interface {
	ObserveCommand(uri string, err error)
	ObservePlan(kind string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCommand(string, error) {}
func (nopRecorder) ObservePlan(string)           {}

// Settings holds the timing defaults of the dispatcher
type Settings struct {
	// MessageDuration is the toast duration used when a request has none
	MessageDuration time.Duration
	// Standard and Fast are the announcement plan offsets
	Standard Timing
	Fast     Timing
}

// Dispatcher resolves actions and forwards them through the device link
type Dispatcher struct {
	link     Link
	waker    Waker
	clock    Clock
	recorder Recorder
	settings Settings
	logger   zerolog.Logger

	mu      sync.Mutex
	timers  map[uint64]Timer
	nextID  uint64
	stopped bool
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithWaker enables power on
func WithWaker(w Waker) Option {
	return func(d *Dispatcher) {
		d.waker = w
	}
}

// WithClock replaces the wall clock used for delays and timers
func WithClock(c Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// WithRecorder sets the command and plan observer
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithLogger sets the dispatcher logger
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher bound to l
func NewDispatcher(l Link, settings Settings, options ...Option) *Dispatcher {
	d := &Dispatcher{
		link:     l,
		clock:    realClock{},
		recorder: nopRecorder{},
		settings: settings,
		logger:   zerolog.Nop(),
		timers:   make(map[uint64]Timer),
	}
	for _, opt := range options {
		opt(d)
	}
	d.logger = d.logger.With().Str("component", "dispatcher").Logger()
	return d
}

// Connect starts a new connection attempt
func (d *Dispatcher) Connect() {
	d.link.Connect()
}

// Status returns the current link snapshot
func (d *Dispatcher) Status() link.Status {
	return d.link.Status()
}

func (d *Dispatcher) defaultDuration() int {
	return int(d.settings.MessageDuration.Milliseconds())
}

// send forwards one command and records its outcome
func (d *Dispatcher) send(ctx context.Context, cmd Command) (json.RawMessage, error) {
	res, err := d.link.SendCommand(ctx, cmd.URI, cmd.Payload)
	d.recorder.ObserveCommand(cmd.URI, err)
	return res, err
}

// Execute resolves a and sends its command. Actions that resolve to no
// command succeed without touching the link.
func (d *Dispatcher) Execute(ctx context.Context, a Action) (json.RawMessage, error) {
	if p, ok := a.(PowerAction); ok && p.Op == "on" && d.waker != nil {
		return nil, d.wake(ctx)
	}

	cmd, ok := resolve(a, d.defaultDuration())
	if !ok {
		d.logger.Debug().Str("kind", string(a.Kind())).Msg("action resolved to no command")
		return nil, nil
	}
	return d.send(ctx, cmd)
}

func (d *Dispatcher) wake(ctx context.Context) error {
	const op = "Dispatcher.Wake"
	if err := d.waker.Wake(ctx); err != nil {
		return errors.Device(op, fmt.Sprintf("wake-on-lan failed: %v", err))
	}
	d.logger.Info().Msg("wake-on-lan packet sent")
	return nil
}

// Volume changes the volume
func (d *Dispatcher) Volume(ctx context.Context, a VolumeAction) error {
	_, err := d.Execute(ctx, a)
	return err
}

// Channel changes the channel
func (d *Dispatcher) Channel(ctx context.Context, a ChannelAction) error {
	_, err := d.Execute(ctx, a)
	return err
}

// Power turns the TV off, or on through the waker when one is configured
func (d *Dispatcher) Power(ctx context.Context, a PowerAction) error {
	_, err := d.Execute(ctx, a)
	return err
}

// Navigate sends a remote key
func (d *Dispatcher) Navigate(ctx context.Context, a NavigateAction) error {
	if a.Direction == "" {
		return errors.InvalidAction("Dispatcher.Navigate", "direction is required")
	}
	_, err := d.Execute(ctx, a)
	return err
}

// LaunchApp launches an application and returns the resolved platform id
func (d *Dispatcher) LaunchApp(ctx context.Context, a AppAction) (string, error) {
	if _, err := d.Execute(ctx, a); err != nil {
		return "", err
	}
	return ResolveApp(a.AppID), nil
}

// SwitchInput switches the external input
func (d *Dispatcher) SwitchInput(ctx context.Context, a InputAction) error {
	_, err := d.Execute(ctx, a)
	return err
}

// ShowMessage shows a toast and returns the effective duration in milliseconds
func (d *Dispatcher) ShowMessage(ctx context.Context, a MessageAction) (int, error) {
	if _, err := d.Execute(ctx, a); err != nil {
		return 0, err
	}
	return a.duration(d.defaultDuration()), nil
}

// ListApps returns the raw installed application list
func (d *Dispatcher) ListApps(ctx context.Context) (json.RawMessage, error) {
	return d.send(ctx, Command{URI: URIListApps})
}

// ListInputs returns the raw external input list
func (d *Dispatcher) ListInputs(ctx context.Context) (json.RawMessage, error) {
	return d.send(ctx, Command{URI: URIListInputs})
}

// SystemInfo returns the raw system information
func (d *Dispatcher) SystemInfo(ctx context.Context) (json.RawMessage, error) {
	return d.send(ctx, Command{URI: URISystemInfo})
}

// after runs fn once delay has elapsed. The timer stays registered until it
// fires or Stop is called.
func (d *Dispatcher) after(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	id := d.nextID
	d.nextID++
	d.timers[id] = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, id)
		d.mu.Unlock()
		fn()
	})
}

// Pending returns the number of armed timers
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop disarms every pending timer. It is meant for process shutdown;
// timers cannot be cancelled individually.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}
