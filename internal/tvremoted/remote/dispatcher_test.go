package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

type mockLink struct {
	mock.Mock
}

func (m *mockLink) Connect() {
	m.Called()
}

func (m *mockLink) Status() link.Status {
	args := m.Called()
	return args.Get(0).(link.Status)
}

func (m *mockLink) SendCommand(ctx context.Context, uri string, payload link.Payload) (json.RawMessage, error) {
	args := m.Called(ctx, uri, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mockWaker struct {
	mock.Mock
}

func (m *mockWaker) Wake(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeClock advances only when told to
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	sleeps []time.Duration
}

type fakeTimer struct {
	at      time.Time
	f       func()
	fired   bool
	stopped bool
	clock   *fakeClock
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f, clock: c}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Advance moves time forward, firing due timers in order
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeRecorder struct {
	mu       sync.Mutex
	commands map[string]int
	failures int
	plans    []string
}

func (r *fakeRecorder) ObserveCommand(uri string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commands == nil {
		r.commands = make(map[string]int)
	}
	r.commands[uri]++
	if err != nil {
		r.failures++
	}
}

func (r *fakeRecorder) ObservePlan(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, kind)
}

var testSettings = Settings{
	MessageDuration: 3 * time.Second,
	Standard: Timing{
		First:  0,
		Second: 60 * time.Second,
		Third:  120 * time.Second,
		Final:  125 * time.Second,
	},
	Fast: Timing{
		First:  0,
		Second: 10 * time.Second,
		Third:  20 * time.Second,
		Final:  30 * time.Second,
	},
}

func newTestDispatcher(l Link, options ...Option) (*Dispatcher, *fakeClock) {
	clock := newFakeClock()
	options = append([]Option{WithClock(clock)}, options...)
	return NewDispatcher(l, testSettings, options...), clock
}

var okResponse = json.RawMessage(`{"returnValue":true}`)

func intPtr(v int) *int { return &v }

func TestExecute_ResolvesCommands(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		uri     string
		payload link.Payload
	}{
		{name: "volume up", action: VolumeAction{Op: "up"}, uri: URIVolumeUp},
		{name: "volume down", action: VolumeAction{Op: "down"}, uri: URIVolumeDown},
		{name: "volume set", action: VolumeAction{Op: "set", Level: intPtr(12)}, uri: URISetVolume, payload: link.Payload{"volume": 12}},
		{name: "volume set zero", action: VolumeAction{Op: "set", Level: intPtr(0)}, uri: URISetVolume, payload: link.Payload{"volume": 0}},
		{name: "mute", action: VolumeAction{Op: "mute"}, uri: URISetMute, payload: link.Payload{"mute": true}},
		{name: "unmute", action: VolumeAction{Op: "unmute"}, uri: URISetMute, payload: link.Payload{"mute": false}},
		{name: "channel up", action: ChannelAction{Op: "up"}, uri: URIChannelUp},
		{name: "channel down", action: ChannelAction{Op: "down"}, uri: URIChannelDown},
		{
			name:    "channel set",
			action:  ChannelAction{Op: "set", Number: v1.NewChannelNumber("5")},
			uri:     URIOpenChannel,
			payload: link.Payload{"channelNumber": v1.NewChannelNumber("5")},
		},
		{name: "power off", action: PowerAction{Op: "off"}, uri: URITurnOff},
		{name: "navigate home", action: NavigateAction{Direction: "home"}, uri: URIHome},
		{name: "navigate left", action: NavigateAction{Direction: "left"}, uri: URIKeyEvent, payload: link.Payload{"keyCode": "LEFT"}},
		{name: "navigate ok", action: NavigateAction{Direction: "ok"}, uri: URIKeyEvent, payload: link.Payload{"keyCode": "OK"}},
		{name: "app known", action: AppAction{AppID: "youtube"}, uri: URILaunch, payload: link.Payload{"id": "youtube.leanback.v4"}},
		{name: "input", action: InputAction{InputID: "HDMI_2"}, uri: URISwitchInput, payload: link.Payload{"inputId": "HDMI_2"}},
		{
			name:    "message default duration",
			action:  MessageAction{Message: "hello"},
			uri:     URICreateToast,
			payload: link.Payload{"message": "hello", "duration": 3000},
		},
		{
			name:    "message explicit duration",
			action:  MessageAction{Message: "hello", Duration: intPtr(0)},
			uri:     URICreateToast,
			payload: link.Payload{"message": "hello", "duration": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := new(mockLink)
			l.On("SendCommand", mock.Anything, tt.uri, tt.payload).Return(okResponse, nil).Once()

			d, _ := newTestDispatcher(l)
			res, err := d.Execute(context.Background(), tt.action)
			require.NoError(t, err)
			assert.Equal(t, okResponse, res)
			l.AssertExpectations(t)
		})
	}
}

func TestExecute_NoCommand(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{name: "volume set without level", action: VolumeAction{Op: "set"}},
		{name: "volume unknown", action: VolumeAction{Op: "louder"}},
		{name: "channel set without number", action: ChannelAction{Op: "set"}},
		{name: "power on without waker", action: PowerAction{Op: "on"}},
		{name: "power unknown", action: PowerAction{Op: "reboot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := new(mockLink)
			d, _ := newTestDispatcher(l)

			res, err := d.Execute(context.Background(), tt.action)
			require.NoError(t, err)
			assert.Nil(t, res)
			l.AssertNotCalled(t, "SendCommand", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSingleActions_NotConnected(t *testing.T) {
	ops := map[string]func(d *Dispatcher) error{
		"volume":   func(d *Dispatcher) error { return d.Volume(context.Background(), VolumeAction{Op: "up"}) },
		"channel":  func(d *Dispatcher) error { return d.Channel(context.Background(), ChannelAction{Op: "down"}) },
		"power":    func(d *Dispatcher) error { return d.Power(context.Background(), PowerAction{Op: "off"}) },
		"navigate": func(d *Dispatcher) error { return d.Navigate(context.Background(), NavigateAction{Direction: "up"}) },
		"input":    func(d *Dispatcher) error { return d.SwitchInput(context.Background(), InputAction{InputID: "HDMI_1"}) },
		"app": func(d *Dispatcher) error {
			_, err := d.LaunchApp(context.Background(), AppAction{AppID: "netflix"})
			return err
		},
		"message": func(d *Dispatcher) error {
			_, err := d.ShowMessage(context.Background(), MessageAction{Message: "hi"})
			return err
		},
		"cancel": func(d *Dispatcher) error { return d.CancelShutdown(context.Background()) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			l := new(mockLink)
			l.On("SendCommand", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, errors.NotConnected("Link.SendCommand")).Once()
			recorder := &fakeRecorder{}

			d, clock := newTestDispatcher(l, WithRecorder(recorder))
			err := op(d)
			require.Error(t, err)
			assert.True(t, errors.IsNotConnected(err))
			assert.Equal(t, "TV not connected", errors.Message(err))

			// No timers or further commands follow a rejected send
			clock.Advance(time.Hour)
			assert.Zero(t, d.Pending())
			l.AssertNumberOfCalls(t, "SendCommand", 1)
			assert.Equal(t, 1, recorder.failures)
		})
	}
}

func TestLaunchApp_Resolution(t *testing.T) {
	tests := []struct {
		appID string
		want  string
	}{
		{appID: "netflix", want: "netflix"},
		{appID: "youtube", want: "youtube.leanback.v4"},
		{appID: "prime", want: "amazon"},
		{appID: "disney", want: "com.disney.disneyplus-prod"},
		{appID: "spotify", want: "spotify-beehive"},
		{appID: "browser", want: "com.webos.app.browser"},
		{appID: "some.unknown.id", want: "some.unknown.id"},
	}

	for _, tt := range tests {
		t.Run(tt.appID, func(t *testing.T) {
			l := new(mockLink)
			l.On("SendCommand", mock.Anything, URILaunch, link.Payload{"id": tt.want}).Return(okResponse, nil).Once()

			d, _ := newTestDispatcher(l)
			got, err := d.LaunchApp(context.Background(), AppAction{AppID: tt.appID})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			l.AssertExpectations(t)
		})
	}
}

func TestNavigate_RequiresDirection(t *testing.T) {
	l := new(mockLink)
	d, _ := newTestDispatcher(l)

	err := d.Navigate(context.Background(), NavigateAction{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidAction(err))
	assert.False(t, errors.IsBadRequest(err))
	l.AssertNotCalled(t, "SendCommand", mock.Anything, mock.Anything, mock.Anything)
}

func TestPower_OnWakes(t *testing.T) {
	l := new(mockLink)
	w := new(mockWaker)
	w.On("Wake", mock.Anything).Return(nil).Once()

	d, _ := newTestDispatcher(l, WithWaker(w))
	require.NoError(t, d.Power(context.Background(), PowerAction{Op: "on"}))
	w.AssertExpectations(t)
	l.AssertNotCalled(t, "SendCommand", mock.Anything, mock.Anything, mock.Anything)

	w.On("Wake", mock.Anything).Return(fmt.Errorf("network unreachable")).Once()
	err := d.Power(context.Background(), PowerAction{Op: "on"})
	require.Error(t, err)
	assert.True(t, errors.IsDevice(err))
	assert.Contains(t, errors.Message(err), "network unreachable")
}

func TestShowMessage_Duration(t *testing.T) {
	l := new(mockLink)
	l.On("SendCommand", mock.Anything, URICreateToast, mock.Anything).Return(okResponse, nil)

	d, _ := newTestDispatcher(l)

	got, err := d.ShowMessage(context.Background(), MessageAction{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 3000, got)

	got, err = d.ShowMessage(context.Background(), MessageAction{Message: "hi", Duration: intPtr(1500)})
	require.NoError(t, err)
	assert.Equal(t, 1500, got)
}

func TestQueries(t *testing.T) {
	l := new(mockLink)
	apps := json.RawMessage(`{"returnValue":true,"apps":[{"id":"netflix"}]}`)
	l.On("SendCommand", mock.Anything, URIListApps, link.Payload(nil)).Return(apps, nil).Once()
	l.On("SendCommand", mock.Anything, URIListInputs, link.Payload(nil)).Return(okResponse, nil).Once()
	l.On("SendCommand", mock.Anything, URISystemInfo, link.Payload(nil)).
		Return(nil, errors.Device("SSAP.Request", "timeout")).Once()

	d, _ := newTestDispatcher(l)

	res, err := d.ListApps(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, string(apps), string(res))

	_, err = d.ListInputs(context.Background())
	require.NoError(t, err)

	_, err = d.SystemInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, "timeout", errors.Message(err))
	l.AssertExpectations(t)
}

func TestConnectAndStatus(t *testing.T) {
	l := new(mockLink)
	l.On("Connect").Return().Once()
	l.On("Status").Return(link.Status{Connected: true, State: link.StateConnected, Host: "tv", Port: 3000})

	d, _ := newTestDispatcher(l)
	d.Connect()
	assert.True(t, d.Status().Connected)
	l.AssertExpectations(t)
}
