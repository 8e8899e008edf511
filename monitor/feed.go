package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/rotator"
)

const (
	feedSendBuffer   = 64
	feedWriteTimeout = 5 * time.Second
	feedPingInterval = 30 * time.Second
	feedPongWait     = 2 * feedPingInterval
)

const (
	EventAttempt  = "attempt"
	EventInterval = "interval"
	EventLoop     = "loop"
)

// Event is one message on the operator feed.
type Event struct {
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Attempt   *AttemptView `json:"attempt,omitempty"`
	Interval  float64      `json:"intervalSeconds,omitempty"`
	Running   *bool        `json:"running,omitempty"`
}

type PathView struct {
	Path   string `json:"path"`
	Result string `json:"result"`
	Detail string `json:"detail,omitempty"`
}

type AttemptView struct {
	ID           string     `json:"id"`
	ConnectionID string     `json:"connectionId"`
	Name         string     `json:"name"`
	Result       string     `json:"result"`
	Paths        []PathView `json:"paths"`
	DurationMs   int64      `json:"durationMs"`
}

func newAttemptView(a rotator.Attempt) *AttemptView {
	v := &AttemptView{
		ID:           a.ID,
		ConnectionID: a.ConnectionID,
		Name:         a.Name,
		Result:       a.Result().Cause.String(),
		DurationMs:   a.Duration.Milliseconds(),
	}
	for _, o := range a.Outcomes() {
		v.Paths = append(v.Paths, PathView{Path: o.Path, Result: o.Cause.String(), Detail: o.Detail})
	}
	return v
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() { close(c.send) })
}

// Feed pushes rename loop events to WebSocket subscribers. Slow
// subscribers are disconnected rather than allowed to block the loop.
type Feed struct {
	upgrader websocket.Upgrader
	logger   common.Logger

	mu      sync.RWMutex
	clients map[*feedClient]struct{}
	closed  atomic.Bool
}

func NewFeed(logger common.Logger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger:  common.OrNop(logger),
		clients: make(map[*feedClient]struct{}),
	}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.closed.Load() {
		http.Error(w, "feed closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("Feed upgrade failed", "error", err)
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
	f.logger.Debug("Feed subscriber connected", "remote", r.RemoteAddr)

	go f.writePump(c)
	go f.readPump(c)
}

func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *Feed) remove(c *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		c.close()
	}
	f.mu.Unlock()
}

// Broadcast queues ev for every subscriber without blocking.
func (f *Feed) Broadcast(ev Event) {
	if f.closed.Load() {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		f.logger.Error("Feed encode failed", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			delete(f.clients, c)
			c.close()
			f.logger.Warn("Dropping slow feed subscriber")
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (f *Feed) Close() {
	if !f.closed.CompareAndSwap(false, true) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		delete(f.clients, c)
		c.close()
	}
}

func (f *Feed) writePump(c *feedClient) {
	ticker := time.NewTicker(feedPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				f.logger.Debug("Feed write failed", "error", err)
				f.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.remove(c)
				return
			}
		}
	}
}

// readPump only exists to process control frames and notice hang-ups.
func (f *Feed) readPump(c *feedClient) {
	defer f.remove(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) AttemptFinished(a rotator.Attempt) {
	f.Broadcast(Event{Type: EventAttempt, Attempt: newAttemptView(a)})
}

func (f *Feed) IntervalChanged(d time.Duration) {
	f.Broadcast(Event{Type: EventInterval, Interval: d.Seconds()})
}

func (f *Feed) LoopStateChanged(running bool) {
	f.Broadcast(Event{Type: EventLoop, Running: &running})
}
