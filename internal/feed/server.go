// Package feed streams automation state to websocket clients so that other
// tools (a status bar, an editor plugin) can follow the watcher.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/controller"
	"github.com/Iron-Ham/claudeyes/internal/errors"
	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval    = 30 * time.Second
	readDeadline    = 60 * time.Second
	writeDeadline   = 10 * time.Second
	sendBuffer      = 64
	shutdownTimeout = 5 * time.Second
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

// Control actions accepted from clients.
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionPause  = "pause"
	ActionResume = "resume"
)

// Controller is the part of the controller the feed observes and drives.
type Controller interface {
	Snapshot() controller.Snapshot
	Start()
	Stop()
	Pause(reason string)
	Resume()
}

// Message is the envelope for every frame sent to a client.
type Message struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	Data any       `json:"data,omitempty"`
}

// SnapshotPayload is the JSON form of controller.Snapshot.
type SnapshotPayload struct {
	State        string `json:"state"`
	Reason       string `json:"reason,omitempty"`
	ProceedCount int    `json:"proceed_count"`
	MaxProceeds  int    `json:"max_proceeds"`
	StatusText   string `json:"status_text"`
	RunID        string `json:"run_id,omitempty"`
}

// ControlRequest is a client frame asking the controller to act.
type ControlRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// NewSnapshotPayload converts a controller snapshot.
func NewSnapshotPayload(s controller.Snapshot) SnapshotPayload {
	return SnapshotPayload{
		State:        s.State.Status.String(),
		Reason:       s.State.Reason,
		ProceedCount: s.ProceedCount,
		MaxProceeds:  s.MaxProceeds,
		StatusText:   s.StatusText,
		RunID:        s.RunID,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithControl allows clients to send control requests. Without it the feed
// is read-only.
func WithControl(enabled bool) Option {
	return func(s *Server) { s.control = enabled }
}

// Server manages websocket clients and fans bus events out to them.
type Server struct {
	ctrl     Controller
	bus      *event.Bus
	logger   *logging.Logger
	control  bool
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[string]*client
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer creates a feed server for ctrl, relaying events published on bus.
func NewServer(ctrl Controller, bus *event.Bus, opts ...Option) *Server {
	s := &Server{
		ctrl:    ctrl,
		bus:     bus,
		logger:  logging.NopLogger(),
		clients: make(map[string]*client),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("feed")
	return s
}

// checkOrigin accepts any origin for a read-only feed. With control enabled a
// browser page could re-enable keystrokes, so only requests without an Origin
// header or from the feed's own host are upgraded.
func (s *Server) checkOrigin(r *http.Request) bool {
	if !s.control {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /status", s.handleStatus)
	return mux
}

// Attach subscribes the server to the bus. The returned function detaches it.
func (s *Server) Attach() func() {
	id := s.bus.SubscribeAll(func(e event.Event) {
		s.broadcast(Message{Type: e.EventType(), Time: e.Timestamp(), Data: e})
	})
	return func() { s.bus.Unsubscribe(id) }
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	detach := s.Attach()
	defer detach()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("feed listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NewSnapshotPayload(s.ctrl.Snapshot())); err != nil {
		s.logger.Warn("status encode failed", "error", err.Error())
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		server: s,
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	s.logger.Debug("client connected", "client_id", c.id, "remote", r.RemoteAddr)

	s.sendTo(c, s.snapshotMessage())

	go c.writePump()
	go c.readPump()
}

func (s *Server) snapshotMessage() Message {
	return Message{Type: TypeSnapshot, Time: time.Now(), Data: NewSnapshotPayload(s.ctrl.Snapshot())}
}

// handleControl applies a client request and answers with a fresh snapshot.
func (s *Server) handleControl(c *client, raw []byte) {
	if !s.control {
		s.sendTo(c, errorMessage("control requests are disabled"))
		return
	}

	var req ControlRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.sendTo(c, errorMessage("invalid request: "+err.Error()))
		return
	}

	switch req.Action {
	case ActionStart:
		s.ctrl.Start()
	case ActionStop:
		s.ctrl.Stop()
	case ActionPause:
		s.ctrl.Pause(req.Reason)
	case ActionResume:
		s.ctrl.Resume()
	default:
		s.sendTo(c, errorMessage("unknown action: "+req.Action))
		return
	}
	s.logger.Info("control request", "client_id", c.id, "action", req.Action)
	s.sendTo(c, s.snapshotMessage())
}

func errorMessage(text string) Message {
	return Message{Type: TypeError, Time: time.Now(), Data: map[string]string{"message": text}}
}

// broadcast sends a message to all connected clients, dropping it for
// clients whose buffer is full.
func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("event encode failed", "type", msg.Type, "error", err.Error())
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug("client buffer full, dropping event", "client_id", c.id)
		}
	}
}

func (s *Server) sendTo(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// removeClient cleans up a disconnected client.
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.send)
	s.logger.Debug("client disconnected", "client_id", c.id)
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		s.removeClient(c)
	}
}

// readPump reads control requests from the connection.
func (c *client) readPump() {
	defer func() {
		c.server.removeClient(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("websocket read error", "client_id", c.id, "error", err.Error())
			}
			return
		}
		c.server.handleControl(c, message)
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
