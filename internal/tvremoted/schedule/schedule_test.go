package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

type fakePlanner struct {
	mu        sync.Mutex
	scheduled []*remote.Plan
}

func (p *fakePlanner) StandardPlan(custom *v1.CustomMessages) *remote.Plan {
	return &remote.Plan{ID: "plan-1", Kind: remote.PlanStandard}
}

func (p *fakePlanner) SchedulePlan(plan *remote.Plan) {
	plan.ScheduledAt = time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scheduled = append(p.scheduled, plan)
}

func (p *fakePlanner) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.scheduled)
}

func TestNewNightly_InvalidExpression(t *testing.T) {
	_, err := NewNightly("not a cron", &fakePlanner{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewNightly("61 23 * * *", &fakePlanner{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNightly_FireArmsStandardPlan(t *testing.T) {
	planner := &fakePlanner{}
	n, err := NewNightly("30 23 * * *", planner, zerolog.Nop())
	require.NoError(t, err)

	n.fire()

	require.Equal(t, 1, planner.count())
	assert.Equal(t, remote.PlanStandard, planner.scheduled[0].Kind)

	runs, last := n.Runs()
	assert.Equal(t, 1, runs)
	assert.False(t, last.IsZero())
}

func TestNightly_StartStop(t *testing.T) {
	planner := &fakePlanner{}
	n, err := NewNightly("30 23 * * *", planner, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, n.Next().IsZero())

	n.Start()
	n.Start()
	next := n.Next()
	assert.Equal(t, 23, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.True(t, next.After(time.Now()))

	n.Stop()
	n.Stop()
	assert.Equal(t, 0, planner.count())
}

func TestNightly_RunsOnSchedule(t *testing.T) {
	planner := &fakePlanner{}
	n, err := NewNightly("@every 1s", planner, zerolog.Nop())
	require.NoError(t, err)

	n.Start()
	defer n.Stop()

	require.Eventually(t, func() bool { return planner.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
}
