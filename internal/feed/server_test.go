package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/controller"
	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/gorilla/websocket"
)

type fakeController struct {
	mu    sync.Mutex
	state controller.State
	calls []string
}

func (f *fakeController) Snapshot() controller.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return controller.Snapshot{
		State:       f.state,
		MaxProceeds: 50,
		StatusText:  controller.StatusText(f.state, 0, 50),
	}
}

func (f *fakeController) record(call string, s controller.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.state = s
}

func (f *fakeController) Start()              { f.record("start", controller.Running()) }
func (f *fakeController) Stop()               { f.record("stop", controller.Idle()) }
func (f *fakeController) Pause(reason string) { f.record("pause", controller.Paused(reason)) }
func (f *fakeController) Resume()             { f.record("resume", controller.Running()) }

func (f *fakeController) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type rawMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func startServer(t *testing.T, ctrl Controller, bus *event.Bus, opts ...Option) (*Server, *websocket.Conn) {
	t.Helper()
	s := NewServer(ctrl, bus, opts...)
	detach := s.Attach()
	ts := httptest.NewServer(s.Handler())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		detach()
		ts.Close()
	})
	return s, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) rawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg rawMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestServer_SnapshotOnConnect(t *testing.T) {
	ctrl := &fakeController{state: controller.Paused("User input required")}
	_, conn := startServer(t, ctrl, event.NewBus())

	msg := readMessage(t, conn)
	if msg.Type != TypeSnapshot {
		t.Fatalf("first message type = %q, want %q", msg.Type, TypeSnapshot)
	}
	var snap SnapshotPayload
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State != "paused" || snap.Reason != "User input required" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.StatusText != "Paused: User input required" {
		t.Errorf("StatusText = %q", snap.StatusText)
	}
}

func TestServer_RelaysBusEvents(t *testing.T) {
	bus := event.NewBus()
	s, conn := startServer(t, &fakeController{}, bus)
	readMessage(t, conn)

	if s.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", s.ClientCount())
	}

	bus.Publish(event.NewProceedSentEvent(3, 50, nil))

	msg := readMessage(t, conn)
	if msg.Type != event.TypeProceedSent {
		t.Fatalf("message type = %q, want %q", msg.Type, event.TypeProceedSent)
	}
	var payload struct{ ProceedCount int }
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if payload.ProceedCount != 3 {
		t.Errorf("ProceedCount = %d, want 3", payload.ProceedCount)
	}
}

func TestServer_ControlDisabled(t *testing.T) {
	ctrl := &fakeController{}
	_, conn := startServer(t, ctrl, event.NewBus())
	readMessage(t, conn)

	if err := conn.WriteJSON(ControlRequest{Action: ActionStart}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("message type = %q, want %q", msg.Type, TypeError)
	}
	if calls := ctrl.callList(); len(calls) != 0 {
		t.Errorf("controller calls = %v, want none", calls)
	}
}

func TestServer_Control(t *testing.T) {
	tests := []struct {
		req       ControlRequest
		wantCall  string
		wantState string
	}{
		{ControlRequest{Action: ActionStart}, "start", "running"},
		{ControlRequest{Action: ActionPause, Reason: "lunch"}, "pause", "paused"},
		{ControlRequest{Action: ActionResume}, "resume", "running"},
		{ControlRequest{Action: ActionStop}, "stop", "idle"},
	}

	ctrl := &fakeController{}
	_, conn := startServer(t, ctrl, event.NewBus(), WithControl(true))
	readMessage(t, conn)

	for _, tt := range tests {
		t.Run(tt.req.Action, func(t *testing.T) {
			if err := conn.WriteJSON(tt.req); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			msg := readMessage(t, conn)
			if msg.Type != TypeSnapshot {
				t.Fatalf("message type = %q, want snapshot", msg.Type)
			}
			var snap SnapshotPayload
			_ = json.Unmarshal(msg.Data, &snap)
			if snap.State != tt.wantState {
				t.Errorf("state = %q, want %q", snap.State, tt.wantState)
			}
			calls := ctrl.callList()
			if calls[len(calls)-1] != tt.wantCall {
				t.Errorf("last call = %q, want %q", calls[len(calls)-1], tt.wantCall)
			}
		})
	}
}

func TestServer_ControlRejectsForeignOrigins(t *testing.T) {
	tests := []struct {
		name    string
		control bool
		origin  string
		wantOK  bool
	}{
		{"read-only any origin", false, "https://evil.example", true},
		{"control without origin", true, "", true},
		{"control same origin", true, "http://{host}", true},
		{"control foreign origin", true, "https://evil.example", false},
		{"control malformed origin", true, "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			s := NewServer(ctrl, event.NewBus(), WithControl(tt.control))
			ts := httptest.NewServer(s.Handler())
			defer ts.Close()

			host := strings.TrimPrefix(ts.URL, "http://")
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", strings.ReplaceAll(tt.origin, "{host}", host))
			}
			conn, resp, err := websocket.DefaultDialer.Dial("ws://"+host+"/ws", header)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("dial failed: %v", err)
				}
				_ = conn.Close()
				return
			}
			if err == nil {
				_ = conn.Close()
				t.Fatal("dial succeeded, want the upgrade refused")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
			if calls := ctrl.callList(); len(calls) != 0 {
				t.Errorf("controller calls = %v, want none", calls)
			}
		})
	}
}

func TestServer_UnknownAction(t *testing.T) {
	_, conn := startServer(t, &fakeController{}, event.NewBus(), WithControl(true))
	readMessage(t, conn)

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"explode"}`))
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("message type = %q, want %q", msg.Type, TypeError)
	}
}

func TestServer_Status(t *testing.T) {
	ctrl := &fakeController{state: controller.Running()}
	s := NewServer(ctrl, event.NewBus())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var snap SnapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State != "running" || snap.MaxProceeds != 50 {
		t.Errorf("status = %+v", snap)
	}
}
