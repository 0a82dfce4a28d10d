// Package schedule triggers the standard announcement plan on a cron schedule.
package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

// Planner builds and arms announcement plans
type Planner interface {
	StandardPlan(custom *v1.CustomMessages) *remote.Plan
	SchedulePlan(p *remote.Plan)
}

// Nightly arms the standard plan every time its cron expression fires
type Nightly struct {
	cron    *cron.Cron
	entryID cron.EntryID
	planner Planner
	expr    string
	logger  zerolog.Logger

	mu      sync.Mutex
	running bool
	lastRun time.Time
	runs    int
}

// NewNightly parses expr in standard five-field cron syntax (descriptors such
// as @daily are accepted) and registers the plan trigger. The schedule does
// not run until Start is called.
func NewNightly(expr string, planner Planner, logger zerolog.Logger) (*Nightly, error) {
	n := &Nightly{
		planner: planner,
		expr:    expr,
		logger:  logger.With().Str("component", "schedule").Str("cron", expr).Logger(),
	}

	n.cron = cron.New(
		cron.WithChain(cron.Recover(cronLogger{n.logger})),
		cron.WithLogger(cronLogger{n.logger}),
	)

	entryID, err := n.cron.AddFunc(expr, n.fire)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	n.entryID = entryID
	return n, nil
}

// Start runs the schedule in the background
func (n *Nightly) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.running {
		return
	}
	n.cron.Start()
	n.running = true
	n.logger.Info().Time("nextRun", n.cron.Entry(n.entryID).Next).Msg("nightly shutdown schedule started")
}

// Stop halts the schedule and waits for a running trigger to return.
// Plans already armed keep their timers.
func (n *Nightly) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	n.mu.Unlock()

	<-n.cron.Stop().Done()
	n.logger.Info().Msg("nightly shutdown schedule stopped")
}

// Next returns the next activation time. It is zero before Start.
func (n *Nightly) Next() time.Time {
	return n.cron.Entry(n.entryID).Next
}

// Runs returns how many plans the schedule has armed and when the last one was
func (n *Nightly) Runs() (int, time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.runs, n.lastRun
}

func (n *Nightly) fire() {
	p := n.planner.StandardPlan(nil)
	n.planner.SchedulePlan(p)

	n.mu.Lock()
	n.runs++
	n.lastRun = p.ScheduledAt
	n.mu.Unlock()

	n.logger.Info().Str("planId", p.ID).Msg("nightly shutdown sequence armed")
}

// cronLogger adapts zerolog to the cron.Logger interface
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
