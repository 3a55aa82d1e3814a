package live

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/protocol"
)

// attach binds conn to the session. A session accepts one connection.
func (s *Session) attach(conn *websocket.Conn) bool {
	if s.closed.Load() || !s.connected.CompareAndSwap(false, true) {
		return false
	}
	s.writeMu.Lock()
	s.conn = conn
	s.writeMu.Unlock()
	cfg := s.server.config
	conn.SetReadLimit(cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.server.metrics.activeSessions.Inc()
	return true
}

// serve mounts the view and runs the read and heartbeat loops until
// the connection or the session ends.
func (s *Session) serve(ctx context.Context) error {
	if err := s.mount(ctx); err != nil {
		_ = s.writeError(err, true)
		s.Close(protocol.CloseError, err.Error())
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.Close(protocol.CloseNormal, "")
		return s.readLoop(ctx)
	})
	g.Go(func() error {
		return s.heartbeat(ctx)
	})
	return g.Wait()
}

// readLoop reads frames from the client until the connection fails or
// the client closes the session.
func (s *Session) readLoop(ctx context.Context) error {
	cfg := s.server.config
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.server.metrics.wsErrors.WithLabelValues("unexpected_close").Inc()
			} else {
				s.server.metrics.wsErrors.WithLabelValues("read").Inc()
			}
			s.logger.Debug("read failed", "error", err)
			return nil
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		if msgType != websocket.BinaryMessage {
			s.server.metrics.wsErrors.WithLabelValues("message_type").Inc()
			if err := s.writeError(verrors.New(verrors.CodeMessageType), false); err != nil {
				return err
			}
			continue
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.server.metrics.wsErrors.WithLabelValues("frame").Inc()
			if err := s.writeError(verrors.FromError(err, verrors.CodeDecode), false); err != nil {
				return err
			}
			continue
		}

		done, err := s.handleFrame(ctx, frame)
		if err != nil || done {
			return err
		}
	}
}

// handleFrame processes one client frame and reports whether the client
// ended the session.
func (s *Session) handleFrame(ctx context.Context, frame *protocol.Frame) (bool, error) {
	switch frame.Type {
	case protocol.FrameEvent:
		msg, err := protocol.DecodeEvent(frame.Payload)
		if err != nil {
			s.server.metrics.wsErrors.WithLabelValues("event").Inc()
			return false, s.writeError(err, false)
		}
		err = s.handleEvent(ctx, msg)
		var ue *updateError
		if errors.As(err, &ue) {
			s.fail(ue.err)
			return true, nil
		}
		return false, err

	case protocol.FrameControl:
		ctrl, err := protocol.DecodeControl(frame.Payload)
		if err != nil {
			s.server.metrics.wsErrors.WithLabelValues("control").Inc()
			return false, s.writeError(err, false)
		}
		switch ctrl.Type {
		case protocol.ControlPing:
			return false, s.writeControl(protocol.NewPong(ctrl))
		case protocol.ControlPong:
			return false, nil
		case protocol.ControlClose:
			s.logger.Debug("client closed session", "reason", ctrl.Reason.String())
			return true, nil
		}
		return false, nil

	default:
		s.server.metrics.wsErrors.WithLabelValues("frame_type").Inc()
		return false, s.writeError(verrors.New(verrors.CodeDecode).WithDetailf("unexpected %s frame from client", frame.Type), false)
	}
}

// heartbeat pings the client until the session ends.
func (s *Session) heartbeat(ctx context.Context) error {
	ticker := time.NewTicker(s.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ping := protocol.NewPing(uint64(time.Now().UnixMilli()))
			if err := s.writeControl(ping); err != nil {
				s.server.metrics.wsErrors.WithLabelValues("heartbeat").Inc()
				s.Close(protocol.CloseGoingAway, "heartbeat failed")
				return nil
			}
		case <-s.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Session) writeControl(c *protocol.Control) error {
	return s.writeFrame(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(c)))
}

// writeError reports err to the client.
func (s *Session) writeError(err error, fatal bool) error {
	payload := protocol.EncodeErrorMessage(protocol.NewErrorMessage(err, fatal))
	return s.writeFrame(protocol.NewFrame(protocol.FrameError, payload))
}

// writeFrame writes one frame as one binary message.
func (s *Session) writeFrame(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return errors.New("live: no connection")
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.server.metrics.wsErrors.WithLabelValues("write").Inc()
		return err
	}
	s.server.metrics.framesSent.Inc()
	s.server.metrics.bytesSent.Add(float64(len(data)))
	return nil
}
