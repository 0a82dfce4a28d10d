package link

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wrale/webos-remote/internal/tvremoted/errors"
)

const (
	// Time allowed to write a message to the TV
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong or message from the TV
	defaultPongWait = 30 * time.Second

	// Default time allowed for the user to accept the pairing prompt
	defaultPairingTimeout = 60 * time.Second

	// registerID correlates the pairing handshake messages
	registerID = "register_0"
)

// SSAP message types
const (
	msgTypeRegister   = "register"
	msgTypeRegistered = "registered"
	msgTypeRequest    = "request"
	msgTypeResponse   = "response"
	msgTypeError      = "error"
)

// message is the SSAP wire envelope
type message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	URI     string          `json:"uri,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// KeyStore persists the client keys returned by the TV after pairing
type KeyStore interface {
	// Get returns the stored key for a TV address, or "" when unknown
	Get(addr string) string
	// Put stores the key for a TV address
	Put(addr, key string) error
}

// SSAPDialer connects to the webOS control service over a websocket
type SSAPDialer struct {
	url            string
	keys           KeyStore
	pairingTimeout time.Duration
	pongWait       time.Duration
	dialer         *websocket.Dialer
	logger         zerolog.Logger
}

// SSAPOption configures an SSAPDialer
type SSAPOption func(*SSAPDialer)

// WithPairingTimeout sets how long the handshake waits for the user to accept the prompt
func WithPairingTimeout(d time.Duration) SSAPOption {
	return func(s *SSAPDialer) {
		if d > 0 {
			s.pairingTimeout = d
		}
	}
}

// WithKeepalive sets how long a session waits for a pong before it treats the
// TV as gone. Pings are sent every nine tenths of that period.
func WithKeepalive(pongWait time.Duration) SSAPOption {
	return func(s *SSAPDialer) {
		if pongWait > 0 {
			s.pongWait = pongWait
		}
	}
}

// WithHandshakeTimeout bounds the websocket opening handshake
func WithHandshakeTimeout(d time.Duration) SSAPOption {
	return func(s *SSAPDialer) {
		s.dialer.HandshakeTimeout = d
	}
}

// WithLogger sets the logger used by dialed sessions
func WithLogger(logger zerolog.Logger) SSAPOption {
	return func(s *SSAPDialer) {
		s.logger = logger
	}
}

// NewSSAPDialer creates a dialer for the given ws:// URL
func NewSSAPDialer(url string, keys KeyStore, options ...SSAPOption) *SSAPDialer {
	d := &SSAPDialer{
		url:            url,
		keys:           keys,
		pairingTimeout: defaultPairingTimeout,
		pongWait:       defaultPongWait,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(d)
	}
	d.logger = d.logger.With().Str("component", "ssap").Str("url", url).Logger()
	return d
}

// Dial opens the websocket and completes the register handshake
func (d *SSAPDialer) Dial(ctx context.Context) (Session, error) {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}

	s := newSSAPSession(conn, d.logger)

	var clientKey string
	if d.keys != nil {
		clientKey = d.keys.Get(d.url)
	}

	key, err := s.register(ctx, clientKey, d.pairingTimeout)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if d.keys != nil && key != "" && key != clientKey {
		if err := d.keys.Put(d.url, key); err != nil {
			d.logger.Error().Err(err).Msg("failed to store client key")
		}
	}

	if err := s.keepalive(d.pongWait); err != nil {
		_ = conn.Close()
		return nil, errors.Device("SSAP.Dial", err.Error())
	}

	go s.readLoop()
	go s.pingLoop()
	return s, nil
}

// ssapSession correlates requests with responses by message id
type ssapSession struct {
	conn     *websocket.Conn
	logger   zerolog.Logger
	pongWait time.Duration

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan message

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

func newSSAPSession(conn *websocket.Conn, logger zerolog.Logger) *ssapSession {
	return &ssapSession{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan message),
		done:    make(chan struct{}),
	}
}

// register performs the pairing handshake and returns the client key
func (s *ssapSession) register(ctx context.Context, clientKey string, timeout time.Duration) (string, error) {
	const op = "SSAP.Register"

	payload := map[string]any{
		"forcePairing": false,
		"pairingType":  "PROMPT",
		"manifest":     pairingManifest,
	}
	if clientKey != "" {
		payload["client-key"] = clientKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode register payload: %w", err)
	}
	if err := s.write(message{Type: msgTypeRegister, ID: registerID, Payload: body}); err != nil {
		return "", errors.Device(op, err.Error())
	}

	// Abort a blocked read when the attempt is superseded
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return "", errors.Device(op, err.Error())
	}

	for {
		var msg message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", errors.Device(op, fmt.Sprintf("pairing failed: %v", err))
		}
		if msg.ID != registerID {
			continue
		}

		switch msg.Type {
		case msgTypeRegistered:
			var reg struct {
				ClientKey string `json:"client-key"`
			}
			if err := json.Unmarshal(msg.Payload, &reg); err != nil {
				return "", errors.Device(op, "invalid registered payload")
			}
			return reg.ClientKey, s.conn.SetReadDeadline(time.Time{})

		case msgTypeError:
			return "", errors.Device(op, responseError(msg.Error))

		default:
			s.logger.Info().Msg("waiting for the pairing prompt to be accepted on the tv")
		}
	}
}

func (s *ssapSession) write(msg message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// keepalive arms the read deadline. Any pong or message from the TV extends it.
func (s *ssapSession) keepalive(pongWait time.Duration) error {
	s.pongWait = pongWait
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})
	return s.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// pingLoop pings the TV until the session closes
func (s *ssapSession) pingLoop() {
	ticker := time.NewTicker(s.pongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.ping(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write ping")
				s.fail(err)
				return
			}
		}
	}
}

func (s *ssapSession) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// readLoop delivers responses to their waiting requests until the transport
// fails or the TV stops answering pings
func (s *ssapSession) readLoop() {
	for {
		var msg message
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.fail(err)
			return
		}
		if err := s.conn.SetReadDeadline(time.Now().Add(s.pongWait)); err != nil {
			s.fail(err)
			return
		}

		s.pendingMu.Lock()
		ch, ok := s.pending[msg.ID]
		if ok {
			delete(s.pending, msg.ID)
		}
		s.pendingMu.Unlock()

		if !ok {
			s.logger.Debug().
				Str("type", msg.Type).
				Str("id", msg.ID).
				Msg("dropping uncorrelated message")
			continue
		}
		ch <- msg
	}
}

// fail closes the session once, recording the cause
func (s *ssapSession) fail(err error) {
	s.closeOnce.Do(func() {
		s.err = err
		close(s.done)
		_ = s.conn.Close()
	})
}

// Request sends one SSAP request and waits for the matching response
func (s *ssapSession) Request(ctx context.Context, uri string, payload Payload) (json.RawMessage, error) {
	const op = "SSAP.Request"

	select {
	case <-s.done:
		return nil, errors.Device(op, "connection closed")
	default:
	}

	msg := message{Type: msgTypeRequest, ID: uuid.NewString(), URI: uri}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.BadRequest(op, fmt.Sprintf("invalid payload: %v", err))
		}
		msg.Payload = body
	}

	ch := make(chan message, 1)
	s.pendingMu.Lock()
	s.pending[msg.ID] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, msg.ID)
		s.pendingMu.Unlock()
	}()

	if err := s.write(msg); err != nil {
		return nil, errors.Device(op, err.Error())
	}

	select {
	case res := <-ch:
		return decodeResponse(op, res)
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Device(op, "timeout")
		}
		return nil, errors.Device(op, ctx.Err().Error())
	case <-s.done:
		return nil, errors.Device(op, "connection closed")
	}
}

// decodeResponse maps an SSAP response envelope to its payload or a device error
func decodeResponse(op string, msg message) (json.RawMessage, error) {
	if msg.Type == msgTypeError || msg.Error != "" {
		return nil, errors.Device(op, responseError(msg.Error))
	}

	if len(msg.Payload) > 0 {
		var status struct {
			ReturnValue *bool  `json:"returnValue"`
			ErrorText   string `json:"errorText"`
		}
		if err := json.Unmarshal(msg.Payload, &status); err == nil && status.ReturnValue != nil && !*status.ReturnValue {
			return nil, errors.Device(op, responseError(status.ErrorText))
		}
	}
	return msg.Payload, nil
}

func responseError(text string) string {
	if text == "" {
		return "request failed"
	}
	return text
}

// Done is closed when the transport closes
func (s *ssapSession) Done() <-chan struct{} {
	return s.done
}

// Err reports why the session closed
func (s *ssapSession) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close terminates the session
func (s *ssapSession) Close() error {
	s.fail(websocket.ErrCloseSent)
	return nil
}
