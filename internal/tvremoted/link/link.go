// Package link owns the single control connection between the gateway and the TV.
package link

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrale/webos-remote/internal/tvremoted/errors"
)

// State represents the connectivity of the device link
type State string

const (
	// StateDisconnected indicates no session exists
	StateDisconnected State = "DISCONNECTED"
	// StateConnecting indicates a dial or pairing handshake is in progress
	StateConnecting State = "CONNECTING"
	// StateConnected indicates a usable session is held
	StateConnected State = "CONNECTED"
)

// defaultTimeout bounds a single command when no timeout is configured
const defaultTimeout = 5 * time.Second

// Payload is the parameter object sent along with a device command
type Payload map[string]any

// Session is one live control session with the TV
type Session interface {
	// Request sends a command and waits for its response payload
	Request(ctx context.Context, uri string, payload Payload) (json.RawMessage, error)

	// Done is closed when the underlying transport closes or fails
	Done() <-chan struct{}

	// Err reports why Done was closed
	Err() error

	// Close terminates the session
	Close() error
}

// Dialer establishes new sessions
type Dialer interface {
	// Dial connects and completes the pairing handshake
	Dial(ctx context.Context) (Session, error)
}

// Status is a point-in-time snapshot of the link
type Status struct {
	Connected bool
	State     State
	Host      string
	Port      int
	Timestamp time.Time
}

// Options configures a Manager
type Options struct {
	// Host and Port identify the TV for status reporting
	Host string
	Port int
	// Timeout bounds every SendCommand call
	Timeout time.Duration
	// Reconnect is the wait before redialing after a failure; zero disables redialing
	Reconnect time.Duration
	// OnStateChange is invoked after every state transition
	OnStateChange func(State)
	Logger        zerolog.Logger
}

// Manager owns the device link. Sends fail fast while the link is not
// connected; they never queue or wait for a future connection.
type Manager struct {
	dialer Dialer
	opts   Options
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	state      State
	session    Session
	generation uint64
	cancel     context.CancelFunc
	closed     bool

	wg sync.WaitGroup
}

// NewManager creates a disconnected link manager
func NewManager(dialer Dialer, opts Options) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Manager{
		dialer: dialer,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "link").Logger(),
		now:    time.Now,
		state:  StateDisconnected,
	}
}

// Connect starts a new connection attempt and returns immediately. Any
// previous attempt or session is superseded and torn down.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	old := m.session
	m.session = nil
	m.state = StateConnecting
	m.generation++
	gen := m.generation
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	m.notify(StateConnecting)

	if old != nil {
		if err := old.Close(); err != nil {
			m.logger.Debug().Err(err).Msg("error closing superseded session")
		}
	}

	m.logger.Info().
		Str("host", m.opts.Host).
		Int("port", m.opts.Port).
		Msg("connecting to tv")

	go m.run(ctx, gen)
}

// run dials until it holds a session, then watches it. A dropped session is
// redialed after the reconnect interval until the attempt is superseded.
func (m *Manager) run(ctx context.Context, gen uint64) {
	defer m.wg.Done()

	for {
		m.transition(gen, StateConnecting, nil)

		session, err := m.dialer.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn().Err(err).Msg("tv connection failed")
			m.transition(gen, StateDisconnected, nil)
		} else {
			if !m.transition(gen, StateConnected, session) {
				_ = session.Close()
				return
			}

			m.logger.Info().Msg("connected to tv")
			select {
			case <-session.Done():
				m.logger.Warn().Err(session.Err()).Msg("tv connection closed")
				m.transition(gen, StateDisconnected, nil)
			case <-ctx.Done():
				_ = session.Close()
				return
			}
		}

		if m.opts.Reconnect <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.opts.Reconnect):
		}
	}
}

// transition applies a state change if gen is still the current attempt
func (m *Manager) transition(gen uint64, state State, session Session) bool {
	m.mu.Lock()
	if m.closed || gen != m.generation {
		m.mu.Unlock()
		return false
	}
	changed := m.state != state
	m.state = state
	m.session = session
	m.mu.Unlock()

	if changed {
		m.notify(state)
	}
	return true
}

func (m *Manager) notify(state State) {
	if m.opts.OnStateChange != nil {
		m.opts.OnStateChange(state)
	}
}

// Status returns a non-blocking snapshot of the link
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Connected: m.state == StateConnected && m.session != nil,
		State:     m.state,
		Host:      m.opts.Host,
		Port:      m.opts.Port,
		Timestamp: m.now(),
	}
}

// SendCommand forwards one command to the TV and returns its raw response payload
func (m *Manager) SendCommand(ctx context.Context, uri string, payload Payload) (json.RawMessage, error) {
	const op = "Link.SendCommand"

	m.mu.RLock()
	session, state := m.session, m.state
	m.mu.RUnlock()

	if state != StateConnected || session == nil {
		return nil, errors.NotConnected(op)
	}

	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	res, err := session.Request(ctx, uri, payload)
	if err != nil {
		if errors.IsDevice(err) {
			return nil, err
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Device(op, "timeout")
		}
		return nil, errors.Device(op, err.Error())
	}
	return res, nil
}

// Close stops any connection attempt and closes the current session
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
	session := m.session
	m.session = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	var err error
	if session != nil {
		err = session.Close()
	}
	m.wg.Wait()
	m.notify(StateDisconnected)
	return err
}
