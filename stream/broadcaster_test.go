package stream

import (
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

func testField() (*systems.Env, *systems.Field) {
	f := systems.NewField(2, 3)
	env := systems.NewEnv(f, rand.New(rand.NewSource(1)), nil)
	env.Spawn(components.KindPrey, components.Location{Row: 0, Col: 0}, false, nil)
	env.Spawn(components.KindApexPredator, components.Location{Row: 1, Col: 2}, false, nil)
	return env, f
}

func TestNewFrame(t *testing.T) {
	_, f := testField()
	frame := NewFrame(7, f)

	if frame.Type != "status" || frame.Step != 7 || frame.Depth != 2 || frame.Width != 3 {
		t.Errorf("frame header = %+v", frame)
	}
	if frame.Cells != "p....a" {
		t.Errorf("cells = %q, want %q", frame.Cells, "p....a")
	}
	want := map[string]int{"prey": 1, "mid_predator": 0, "apex_predator": 1}
	for k, v := range want {
		if frame.Counts[k] != v {
			t.Errorf("counts[%s] = %d, want %d", k, frame.Counts[k], v)
		}
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestBroadcasterSendsLatestOnConnect(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	_, f := testField()
	b.ShowStatus(3, f)

	conn := dial(t, srv.URL)
	defer conn.Close()

	if got := readFrame(t, conn); got.Step != 3 {
		t.Errorf("first frame step = %d, want 3", got.Step)
	}
}

func TestBroadcasterStreamsSteps(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()

	// Wait for registration before publishing
	deadline := time.Now().Add(2 * time.Second)
	for b.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, f := testField()
	b.ShowStatus(1, f)
	b.ShowStatus(2, f)

	var steps []int
	for len(steps) < 2 {
		steps = append(steps, readFrame(t, conn).Step)
	}
	if steps[0] != 1 || steps[1] != 2 {
		t.Errorf("steps = %v, want [1 2]", steps)
	}
}

func TestBroadcasterClientDisconnect(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)
	deadline := time.Now().Add(2 * time.Second)
	for b.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for b.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcasterCloseIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	// Publishing after close must not block or panic.
	_, f := testField()
	b.ShowStatus(1, f)
}
