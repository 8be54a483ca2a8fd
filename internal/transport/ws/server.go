// Package ws serves a live session over websockets.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/logging"
	"github.com/Garsondee/Circuits/internal/protocol"
	"github.com/Garsondee/Circuits/internal/session"
)

// Options configures a Server.
type Options struct {
	MaxClients int
	WriteWait  time.Duration
	Logger     *slog.Logger
}

// Server bridges websocket clients and one session.
type Server struct {
	sess      *session.Session
	log       *slog.Logger
	max       int32
	writeWait time.Duration
	clients   atomic.Int32

	upgrader websocket.Upgrader
}

func NewServer(sess *session.Session, opts Options) *Server {
	if opts.WriteWait <= 0 {
		opts.WriteWait = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Server{
		sess:      sess,
		log:       opts.Logger,
		max:       int32(opts.MaxClients),
		writeWait: opts.WriteWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int { return int(s.clients.Load()) }

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Debug("upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		if n := s.clients.Add(1); s.max > 0 && n > s.max {
			s.clients.Add(-1)
			s.writeJSON(conn, protocol.NewError(protocol.ErrFull, "session has %d clients", s.max))
			s.closeWith(conn, websocket.CloseTryAgainLater, "full")
			return
		}
		defer s.clients.Add(-1)

		hello, ok := s.handshake(conn)
		if !ok {
			return
		}
		log := s.log.With("client", hello.ClientName, "remote", r.RemoteAddr)
		log.Info("client joined")
		defer log.Info("client left")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sub, err := s.sess.Subscribe(ctx)
		if err != nil {
			s.writeJSON(conn, protocol.NewError(protocol.ErrInternal, "%v", err))
			return
		}
		defer sub.Close()

		errs := make(chan protocol.ErrorMsg, 8)
		writerDone := make(chan struct{})

		// Writer goroutine: the only writer after the handshake.
		go func() {
			defer close(writerDone)
			defer conn.Close()
			for {
				select {
				case <-ctx.Done():
					return
				case f, ok := <-sub.C:
					if !ok {
						s.closeWith(conn, websocket.CloseGoingAway, "session closed")
						cancel()
						return
					}
					if err := s.writeJSON(conn, frameMsg(f)); err != nil {
						cancel()
						return
					}
				case e := <-errs:
					if err := s.writeJSON(conn, e); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if e, bad := s.handleCmd(ctx, msg); bad {
				log.Debug("command refused", "code", e.Code, "message", e.Message)
				select {
				case errs <- e:
				default:
				}
			}
		}
		cancel()
		<-writerDone
	}
}

func (s *Server) handshake(conn *websocket.Conn) (protocol.HelloMsg, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.HelloMsg{}, false
	}
	_ = conn.SetReadDeadline(time.Time{})

	hello, err := protocol.ParseHello(msg)
	if err != nil {
		s.writeJSON(conn, protocol.NewError(protocol.ErrBadRequest, "expected HELLO: %v", err))
		s.closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return hello, false
	}
	if hello.ProtocolVersion != protocol.Version {
		s.writeJSON(conn, protocol.NewError(protocol.ErrBadVersion,
			"protocol_version %q, server speaks %q", hello.ProtocolVersion, protocol.Version))
		s.closeWith(conn, websocket.ClosePolicyViolation, "bad protocol_version")
		return hello, false
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}
	return hello, true
}

// handleCmd applies one inbound message and reports the error to send back,
// if any.
func (s *Server) handleCmd(ctx context.Context, msg []byte) (protocol.ErrorMsg, bool) {
	m, err := protocol.ParseCmd(msg)
	if err != nil {
		return protocol.NewError(protocol.ErrBadRequest, "%v", err), true
	}
	cmd, err := ToCommand(m)
	if err != nil {
		return protocol.NewError(protocol.ErrBadRequest, "%v", err), true
	}
	if err := s.sess.Do(ctx, cmd); err != nil {
		if errors.Is(err, session.ErrRejected) {
			return protocol.NewError(protocol.ErrRejected, "%v", err), true
		}
		return protocol.NewError(protocol.ErrInternal, "%v", err), true
	}
	return protocol.ErrorMsg{}, false
}

// ToCommand converts a validated CMD message into a session command.
func ToCommand(m protocol.CmdMsg) (session.Command, error) {
	cmd := session.Command{X: m.X, Y: m.Y}
	switch m.Op {
	case protocol.OpPlace:
		cmd.Op = session.OpPlace
		kind, ok := circuit.ParseKind(m.Kind)
		if !ok {
			return cmd, fmt.Errorf("unknown kind %q", m.Kind)
		}
		cmd.Cell.Kind = kind
		if m.Dir != "" {
			dir, ok := circuit.ParseDirection(m.Dir)
			if !ok {
				return cmd, fmt.Errorf("unknown dir %q", m.Dir)
			}
			cmd.Cell.Dir = dir
		}
		cmd.Cell.Active = m.Active != nil && *m.Active
	case protocol.OpClear:
		cmd.Op = session.OpClear
	case protocol.OpRotate:
		cmd.Op = session.OpRotate
	case protocol.OpSetActive:
		cmd.Op = session.OpSetActive
		cmd.Active = m.Active != nil && *m.Active
	case protocol.OpStep:
		cmd.Op = session.OpStep
	case protocol.OpRun:
		cmd.Op = session.OpRun
	case protocol.OpPause:
		cmd.Op = session.OpPause
	default:
		return cmd, fmt.Errorf("unknown op %q", m.Op)
	}
	return cmd, nil
}

func frameMsg(f session.Frame) protocol.FrameMsg {
	return protocol.FrameMsg{
		Type:    protocol.TypeFrame,
		Session: f.Name,
		Tick:    f.Tick,
		Running: f.Running,
		Width:   f.Width,
		Height:  f.Height,
		Grid:    f.Data,
	}
}

func (s *Server) writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}
