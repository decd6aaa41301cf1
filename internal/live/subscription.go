// Package live is the push-channel transport: one websocket connection whose
// inbound messages are handed to a callback until the subscription is closed.
// It never reconnects.
package live

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultDialTimeout    = 10 * time.Second
	DefaultMaxMessageSize = 1 << 20
	closeGracePeriod      = time.Second
)

// ErrClosed is reported by Err after Close was called.
var ErrClosed = errors.New("subscription closed")

// Handler receives the raw payload of each inbound message. Messages are
// delivered one at a time, in order, from a single goroutine.
type Handler func(data []byte)

// Options configures Subscribe.
type Options struct {
	DialTimeout    time.Duration
	MaxMessageSize int64
	Header         http.Header
	Logger         *zap.Logger
}

func (o *Options) defaults() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = DefaultMaxMessageSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Subscription is a handle on an open push-channel connection.
type Subscription struct {
	conn *websocket.Conn
	log  *zap.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// Subscribe dials url and starts delivering messages to h.
func Subscribe(ctx context.Context, url string, h Handler, opts Options) (*Subscription, error) {
	if url == "" {
		return nil, errors.New("push channel url is required")
	}
	if h == nil {
		return nil, errors.New("handler is required")
	}
	opts.defaults()

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	conn.SetReadLimit(opts.MaxMessageSize)

	s := &Subscription{
		conn: conn,
		log:  opts.Logger.With(zap.String("url", url)),
		done: make(chan struct{}),
	}
	go s.readLoop(h)
	s.log.Info("push channel connected")
	return s, nil
}

func (s *Subscription) readLoop(h Handler) {
	defer close(s.done)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				s.setErr(ErrClosed)
				return
			}
			s.setErr(err)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("push channel closed by server")
			} else {
				s.log.Warn("push channel dropped", zap.Error(err))
			}
			return
		}
		if s.closed.Load() {
			return
		}
		h(data)
	}
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// Close stops delivery and closes the connection. No message is handed to
// the handler once Close has returned, except one already being handled.
// It is idempotent and safe to call from the handler.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		err = s.conn.Close()
		s.log.Info("push channel unsubscribed")
	})
	return err
}

// Done is closed when the read loop has exited, either because of Close or
// because the connection dropped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns why the read loop stopped: ErrClosed after Close, the
// transport error after a drop, or nil while still running.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
