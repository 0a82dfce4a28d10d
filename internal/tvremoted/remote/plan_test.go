package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

type firing struct {
	at  time.Duration
	uri string
	msg any
}

func recordFirings(l *mockLink, clock *fakeClock, start time.Time, out *[]firing) {
	l.On("SendCommand", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f := firing{at: clock.Now().Sub(start), uri: args.String(1)}
			if p, ok := args.Get(2).(link.Payload); ok && p != nil {
				f.msg = p["message"]
			}
			*out = append(*out, f)
		}).
		Return(okResponse, nil)
}

func TestFastPlan_Schedule(t *testing.T) {
	l := new(mockLink)
	recorder := &fakeRecorder{}
	d, clock := newTestDispatcher(l, WithRecorder(recorder))
	start := clock.Now()

	var fired []firing
	recordFirings(l, clock, start, &fired)

	plan := d.FastPlan()
	d.SchedulePlan(plan)

	// Nothing fires before the scheduling call returns
	l.AssertNotCalled(t, "SendCommand", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 4, d.Pending())
	assert.Equal(t, start, plan.ScheduledAt)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, []string{"fast"}, recorder.plans)

	assert.Equal(t, []v1.ScheduleEntry{
		{Time: "0s", Action: "Message: " + FastFirstMessage},
		{Time: "10s", Action: "Message: " + FastSecondMessage},
		{Time: "20s", Action: "Message: " + FastThirdMessage},
		{Time: "30s", Action: "TV power off"},
	}, plan.Schedule())

	clock.Advance(30 * time.Second)

	assert.Equal(t, []firing{
		{at: 0, uri: URICreateToast, msg: FastFirstMessage},
		{at: 10 * time.Second, uri: URICreateToast, msg: FastSecondMessage},
		{at: 20 * time.Second, uri: URICreateToast, msg: FastThirdMessage},
		{at: 30 * time.Second, uri: URITurnOff},
	}, fired)
	assert.Zero(t, d.Pending())

	l.AssertCalled(t, "SendCommand", mock.Anything, URICreateToast,
		link.Payload{"message": FastFirstMessage, "duration": 5000})
}

func TestStandardPlan_Schedule(t *testing.T) {
	l := new(mockLink)
	d, clock := newTestDispatcher(l)
	start := clock.Now()

	var fired []firing
	recordFirings(l, clock, start, &fired)

	plan := d.StandardPlan(nil)
	d.SchedulePlan(plan)

	assert.Equal(t, []v1.ScheduleEntry{
		{Time: "0s", Action: "Message: " + StandardFirstMessage},
		{Time: "60s", Action: "Message: " + StandardSecondMessage},
		{Time: "120s", Action: "Message: " + StandardThirdMessage},
		{Time: "125s", Action: "TV power off"},
	}, plan.Schedule())

	clock.Advance(124 * time.Second)
	require.Len(t, fired, 3)
	clock.Advance(time.Second)
	require.Len(t, fired, 4)
	assert.Equal(t, URITurnOff, fired[3].uri)
	assert.Equal(t, 125*time.Second, fired[3].at)

	l.AssertCalled(t, "SendCommand", mock.Anything, URICreateToast,
		link.Payload{"message": StandardThirdMessage, "duration": 8000})
}

func TestStandardPlan_CustomMessages(t *testing.T) {
	d, _ := newTestDispatcher(new(mockLink))

	plan := d.StandardPlan(&v1.CustomMessages{First: "Bedtime soon", Third: "Sleep well"})
	require.Len(t, plan.Announcements, 3)
	assert.Equal(t, "Bedtime soon", plan.Announcements[0].Message)
	assert.Equal(t, StandardSecondMessage, plan.Announcements[1].Message)
	assert.Equal(t, "Sleep well", plan.Announcements[2].Message)

	plan = d.StandardPlan(&v1.CustomMessages{})
	assert.Equal(t, StandardFirstMessage, plan.Announcements[0].Message)
}

func TestSchedulePlan_FailuresAreLogged(t *testing.T) {
	l := new(mockLink)
	l.On("SendCommand", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.NotConnected("Link.SendCommand"))

	d, clock := newTestDispatcher(l)
	d.SchedulePlan(d.FastPlan())

	// Every timer still fires after earlier ones fail
	clock.Advance(30 * time.Second)
	l.AssertNumberOfCalls(t, "SendCommand", 4)
}

func TestSchedulePlan_IndependentPlans(t *testing.T) {
	l := new(mockLink)
	l.On("SendCommand", mock.Anything, mock.Anything, mock.Anything).Return(okResponse, nil)

	d, clock := newTestDispatcher(l)
	first, second := d.FastPlan(), d.FastPlan()
	d.SchedulePlan(first)
	clock.Advance(5 * time.Second)
	d.SchedulePlan(second)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 3+4, d.Pending())

	clock.Advance(35 * time.Second)
	l.AssertNumberOfCalls(t, "SendCommand", 8)
}

func TestCancelShutdown_DoesNotDisarm(t *testing.T) {
	l := new(mockLink)
	l.On("SendCommand", mock.Anything, mock.Anything, mock.Anything).Return(okResponse, nil)

	d, clock := newTestDispatcher(l)
	d.SchedulePlan(d.FastPlan())
	clock.Advance(0)

	require.NoError(t, d.CancelShutdown(context.Background()))
	l.AssertCalled(t, "SendCommand", mock.Anything, URICreateToast,
		link.Payload{"message": CancelMessage, "duration": 5000})
	assert.Equal(t, 3, d.Pending())

	clock.Advance(30 * time.Second)
	l.AssertCalled(t, "SendCommand", mock.Anything, URITurnOff, link.Payload(nil))
}

func TestStop(t *testing.T) {
	l := new(mockLink)
	d, clock := newTestDispatcher(l)

	d.SchedulePlan(d.StandardPlan(nil))
	require.Equal(t, 4, d.Pending())

	d.Stop()
	assert.Zero(t, d.Pending())

	clock.Advance(time.Hour)
	l.AssertNotCalled(t, "SendCommand", mock.Anything, mock.Anything, mock.Anything)

	// Plans scheduled after Stop are not armed
	d.SchedulePlan(d.FastPlan())
	assert.Zero(t, d.Pending())
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "0s", formatOffset(0))
	assert.Equal(t, "60s", formatOffset(time.Minute))
	assert.Equal(t, "1.5s", formatOffset(1500*time.Millisecond))
	assert.Equal(t, "0.25s", formatOffset(250*time.Millisecond))
}
