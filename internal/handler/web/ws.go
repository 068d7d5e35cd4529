package web

import (
	"context"
	"sync"
	"time"

	"EconDash/internal/domain/models"
	"EconDash/internal/usecase"
	applogger "EconDash/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	frameBuffer  = 8
)

// stateFrame is pushed to the browser on every transition.
type stateFrame struct {
	Phase models.Phase `json:"phase"`
	Seq   uint64       `json:"seq"`
}

// StateHub pushes state transitions to every open tab of a session.
// Slow clients lose frames instead of holding up transitions.
type StateHub struct {
	log      *applogger.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStateHub(log *applogger.Logger) *StateHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &StateHub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns:  make(map[*websocket.Conn]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Serve upgrades the request and streams ctrl's transitions until the
// client goes away or the hub is closed.
func (h *StateHub) Serve(c echo.Context, ctrl *usecase.Controller) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.log.Debug("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	h.track(conn)
	defer h.untrack(conn)

	frames := make(chan stateFrame, frameBuffer)
	unsubscribe := ctrl.Subscribe(func(tr usecase.Transition) {
		select {
		case frames <- stateFrame{Phase: tr.Next.Phase, Seq: tr.Next.Seq}:
		default:
		}
	})
	defer unsubscribe()

	// Current state first so a tab that missed a transition catches up.
	s := ctrl.State()
	if err := h.write(conn, stateFrame{Phase: s.Phase, Seq: s.Seq}); err != nil {
		return nil
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case f := <-frames:
			if err := h.write(conn, f); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-h.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			return nil
		}
	}
}

func (h *StateHub) write(conn *websocket.Conn, f stateFrame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (h *StateHub) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *StateHub) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Len returns the number of open connections.
func (h *StateHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close asks every connection to shut down.
func (h *StateHub) Close() {
	h.cancel()
}
