package live

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree"
	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// App builds the per-session state of an application and returns the
// view rendering it. App runs once per session.
type App func(s *Session) View

// View renders the current state of a session.
type View func() *vdom.VNode

// ErrSessionClosed is returned when updating a closed session.
var ErrSessionClosed = errors.New("live: session closed")

// updateError marks a failed reconciliation. The document may already
// be partly patched, so the session cannot continue after one.
type updateError struct{ err error }

func (e *updateError) Error() string { return e.err.Error() }
func (e *updateError) Unwrap() error { return e.err }

// Session is one client's live tree. The session owns a document that
// mirrors the client's container; every update is reconciled into that
// document and the recorded ops are streamed to the client.
type Session struct {
	id      string
	server  *Server
	created time.Time
	logger  *slog.Logger

	// Guarded by mu. Handlers run with mu held.
	mu      sync.Mutex
	doc     *dom.Document
	events  *events.Registry
	root    *vtree.Root
	view    View
	seq     uint64
	mounted bool

	// conn is set once when the WebSocket attaches.
	conn      *websocket.Conn
	connected atomic.Bool
	writeMu   sync.Mutex

	done   chan struct{}
	closed atomic.Bool
}

func newSession(id string, srv *Server, app App) *Session {
	logger := srv.logger.With("session", id)
	doc := dom.New()
	registry := events.NewRegistry(events.WithLogger(logger))
	engine := vdom.NewEngine(doc,
		vdom.WithEvents(registry),
		vdom.WithLogger(logger),
		vdom.WithConfig(srv.config.Engine),
	)

	s := &Session{
		id:      id,
		server:  srv,
		created: time.Now(),
		logger:  logger,
		doc:     doc,
		events:  registry,
		root:    vtree.NewRoot(engine, doc.Root(), srv.config.Context),
		done:    make(chan struct{}),
	}
	s.view = app(s)
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Connected reports whether a WebSocket is attached.
func (s *Session) Connected() bool { return s.connected.Load() }

// Document returns the server-side mirror of the client tree. It must
// only be read from inside Do.
func (s *Session) Document() *dom.Document { return s.doc }

// SetContext replaces the root context and streams the resulting
// changes.
func (s *Session) SetContext(ctx vdom.Context) error {
	return s.Do(func() { s.root.SetContext(ctx) })
}

// Do runs fn with the session locked, then re-renders the view and
// sends the changes. Use it to change state from outside an event
// handler. Event handlers already run locked and must not call Do.
//
// A panic in fn is returned as an error. A failed re-render closes the
// session.
func (s *Session) Do(fn func()) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.mu.Lock()
	err := s.run(func() error {
		if fn != nil {
			fn()
		}
		return nil
	})
	if err == nil {
		err = s.update(context.Background(), "do")
	}
	s.mu.Unlock()
	return s.checkUpdate(err)
}

// Refresh re-renders components that invalidated themselves and sends
// the changes.
func (s *Session) Refresh() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.mu.Lock()
	err := s.refresh()
	s.mu.Unlock()
	return s.checkUpdate(err)
}

func (s *Session) refresh() error {
	if !s.mounted {
		return nil
	}
	ops, err := s.measure(context.Background(), "refresh", func() error {
		_, err := s.root.Refresh()
		return err
	})
	if err != nil {
		return err
	}
	return s.send(ops)
}

// checkUpdate closes the session when err is a failed reconciliation.
// Caller must not hold mu.
func (s *Session) checkUpdate(err error) error {
	var ue *updateError
	if errors.As(err, &ue) {
		s.fail(ue.err)
		return ue.err
	}
	return err
}

// fail reports err to the client as fatal and closes the session.
func (s *Session) fail(err error) {
	if s.connected.Load() {
		if werr := s.writeError(err, true); werr != nil {
			s.logger.Debug("error frame not sent", "error", werr)
		}
	}
	s.Close(protocol.CloseError, err.Error())
}

// run calls fn and turns a panic into an error.
func (s *Session) run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session panic", "panic", r, "stack", string(debug.Stack()))
			err = verrors.New(verrors.CodeSessionPanic).WithDetailf("%v", r)
		}
	}()
	return fn()
}

// mount renders the view into the fresh document and sends it as the
// first batch, prefixed with a clear of the server-rendered markup.
func (s *Session) mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops, err := s.measure(ctx, "mount", func() error {
		return s.root.Update(s.view())
	})
	if err != nil {
		return errors.Unwrap(err)
	}
	s.mounted = true
	batch := make([]dom.Op, 0, len(ops)+1)
	batch = append(batch, dom.Op{Kind: dom.OpSetTextContent, Node: dom.RootID})
	batch = append(batch, ops...)
	return s.send(batch)
}

// handleEvent dispatches a client event and sends the resulting
// changes. Handler failures are reported to the client without ending
// the session.
func (s *Session) handleEvent(ctx context.Context, msg *protocol.EventMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &msg.Event
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	err := s.events.Dispatch(ev)
	status := "ok"
	switch {
	case errors.Is(err, events.ErrNoHandler):
		status = "unhandled"
	case err != nil:
		status = "error"
	}
	s.server.metrics.eventsTotal.WithLabelValues(ev.Type, status).Inc()

	if err != nil {
		s.logger.Warn("event failed", "event", ev.Type, "target", ev.Target, "error", err)
		if werr := s.writeError(err, false); werr != nil {
			return werr
		}
		if status == "unhandled" {
			return nil
		}
	}
	return s.update(ctx, ev.Type)
}

// update re-renders the view and sends the changes. Before the session
// is mounted only the state changes; mount renders it. Caller holds mu.
func (s *Session) update(ctx context.Context, cause string) error {
	if !s.mounted {
		return nil
	}
	ops, err := s.measure(ctx, cause, func() error {
		return s.root.Update(s.view())
	})
	if err != nil {
		return err
	}
	return s.send(ops)
}

// measure runs one reconciliation inside a span and returns the ops it
// recorded. A failure, including a panic, is returned as an
// *updateError; its partial ops are dropped because the session is
// closed. Caller holds mu.
func (s *Session) measure(ctx context.Context, cause string, fn func() error) ([]dom.Op, error) {
	m := s.server.metrics
	_, span := s.server.tracer.Start(ctx, "vtree.session."+cause,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("vtree.session", s.id),
			attribute.String("vtree.cause", cause),
		),
	)
	defer span.End()

	start := time.Now()
	err := s.run(fn)
	m.syncDuration.Observe(time.Since(start).Seconds())

	ops := s.doc.Drain()
	if err != nil {
		m.syncsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("update failed", "cause", cause, "error", err)
		return nil, &updateError{err: err}
	}

	m.syncsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("vtree.ops", len(ops)))
	span.SetStatus(codes.Ok, "")
	return ops, nil
}

// send streams one batch. Empty batches are not sent. Caller holds mu.
func (s *Session) send(ops []dom.Op) error {
	if len(ops) == 0 || !s.connected.Load() {
		return nil
	}
	s.seq++
	frames, err := protocol.PatchFrames(s.seq, ops)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := s.writeFrame(f); err != nil {
			return err
		}
	}
	s.server.metrics.recordOps(ops)
	return nil
}

// Close ends the session: the tree is unmounted so components see their
// detach hooks, the client is told why, and the connection is closed.
// Close is idempotent.
func (s *Session) Close(reason protocol.CloseReason, message string) {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	if s.connected.Load() {
		frame := protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(protocol.NewClose(reason, message)))
		if err := s.writeFrame(frame); err != nil {
			s.logger.Debug("close frame not sent", "error", err)
		}
		s.writeMu.Lock()
		if s.conn != nil {
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason.String()),
				time.Now().Add(time.Second))
			_ = s.conn.Close()
		}
		s.writeMu.Unlock()
		s.server.metrics.activeSessions.Dec()
	}

	s.mu.Lock()
	if err := s.run(s.root.Unmount); err != nil {
		s.logger.Warn("unmount failed", "error", err)
	}
	s.doc.ResetOps()
	s.mu.Unlock()

	s.server.sessions.remove(s.id)
	s.logger.Info("session closed", "reason", reason.String())
}
