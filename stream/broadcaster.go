// Package stream publishes simulation status frames to websocket clients.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

const (
	writeWait  = 5 * time.Second
	queueDepth = 16
)

// Frame is the JSON message sent for every step.
type Frame struct {
	Type   string         `json:"type"`
	Step   int            `json:"step"`
	Depth  int            `json:"depth"`
	Width  int            `json:"width"`
	Counts map[string]int `json:"counts"`
	// One symbol per cell in row-major order, see Symbol.
	Cells string `json:"cells"`
}

// Symbol returns the cell symbol for kind k.
func Symbol(k components.Kind) byte {
	switch k {
	case components.KindPrey:
		return 'p'
	case components.KindMidPredator:
		return 'm'
	case components.KindApexPredator:
		return 'a'
	default:
		return '?'
	}
}

// NewFrame snapshots the field.
func NewFrame(step int, field *systems.Field) Frame {
	counts := make(map[string]int, components.NumKinds)
	for _, k := range components.Kinds {
		counts[k.String()] = 0
	}
	cells := []byte(strings.Repeat(".", field.Size()))
	field.Each(func(loc components.Location, a *systems.Animal) {
		cells[loc.Row*field.Width()+loc.Col] = Symbol(a.Kind())
		counts[a.Kind().String()]++
	})
	return Frame{
		Type:   "status",
		Step:   step,
		Depth:  field.Depth(),
		Width:  field.Width(),
		Counts: counts,
		Cells:  string(cells),
	}
}

// Broadcaster is a simulation view that pushes status frames to every
// connected websocket client. Frames are queued without blocking the
// simulation and dropped when the queue is full.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	latest  []byte
	dropped int

	frames     chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewBroadcaster creates a broadcaster and starts its delivery goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*websocket.Conn]bool),
		frames:     make(chan []byte, queueDepth),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}

	b.wg.Add(1)
	go b.run()
	return b
}

// ShowStatus encodes the field and queues it for delivery.
func (b *Broadcaster) ShowStatus(step int, field *systems.Field) {
	data, err := json.Marshal(NewFrame(step, field))
	if err != nil {
		slog.Error("failed to encode status frame", "step", step, "error", err)
		return
	}

	b.mu.Lock()
	b.latest = data
	b.mu.Unlock()

	select {
	case b.frames <- data:
	case <-b.done:
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
	}
}

// Handler upgrades HTTP requests to websocket subscriptions.
func (b *Broadcaster) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		select {
		case b.register <- conn:
		case <-b.done:
			conn.Close()
			return
		}

		// Clients only listen; reading detects the disconnect.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		select {
		case b.unregister <- conn:
		case <-b.done:
		}
	})
}

// run owns every write to client connections.
func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			latest := b.latest
			b.mu.Unlock()
			slog.Info("stream client connected", "remote", conn.RemoteAddr().String())

			if latest != nil && !b.write(conn, latest) {
				b.drop(conn)
			}

		case conn := <-b.unregister:
			b.drop(conn)

		case data := <-b.frames:
			b.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(b.clients))
			for conn := range b.clients {
				conns = append(conns, conn)
			}
			b.mu.RUnlock()

			for _, conn := range conns {
				if !b.write(conn, data) {
					b.drop(conn)
				}
			}
		}
	}
}

func (b *Broadcaster) write(conn *websocket.Conn, data []byte) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		conn.Close()
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Dropped returns the number of frames dropped because the queue was full.
func (b *Broadcaster) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Close disconnects every client and stops delivery. It is safe to call
// more than once.
func (b *Broadcaster) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()

		b.mu.Lock()
		for conn := range b.clients {
			conn.Close()
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	})
	return nil
}
