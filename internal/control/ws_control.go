package control

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/session"
	"github.com/gorilla/websocket"
	"github.com/pion/logging"
)

// Server handles websocket control input.
type Server struct {
	mu         sync.Mutex
	writeMu    sync.Mutex
	upgrader   websocket.Upgrader
	dispatcher *Dispatcher
	authFn     func(*http.Request) bool
	policy     session.Policy
	log        logging.LeveledLogger
	conn       *websocket.Conn
	cancel     context.CancelFunc
}

// NewServer creates a control websocket server.
func NewServer(d *Dispatcher, authFn func(*http.Request) bool, policy session.Policy, log logging.LeveledLogger) *Server {
	if log == nil {
		log = applog.Discard()
	}
	return &Server{
		dispatcher: d,
		authFn:     authFn,
		policy:     policy,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.acceptConn(conn, cancel); err != nil {
		cancel()
		s.log.Infof("control rejected: %v", err)
		rejectConn(conn, err.Error())
		return
	}
	defer s.cleanupConn(conn)
	s.log.Infof("control connected: %s", r.RemoteAddr)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		reply := s.dispatcher.HandleRaw(ctx, data)
		if err := s.sendTo(conn, reply); err != nil {
			return
		}
	}
}

// acceptConn registers the connection according to the controller policy.
func (s *Server) acceptConn(conn *websocket.Conn, cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		switch s.policy {
		case session.PolicyReplace:
			s.cancel()
			_ = s.conn.Close()
			s.log.Infof("control replaced")
		default:
			return fmt.Errorf("controller already connected")
		}
	}
	s.conn = conn
	s.cancel = cancel
	return nil
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.cancel()
		s.conn = nil
		s.cancel = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// sendTo writes a reply to the connection.
func (s *Server) sendTo(conn *websocket.Conn, reply Reply) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(reply)
}

// rejectConn sends a policy violation close and closes the socket.
func rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	_ = conn.Close()
}
