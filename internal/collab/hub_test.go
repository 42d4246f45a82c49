package collab

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func setupHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return hub, strings.Replace(server.URL, "http", "ws", 1) + "/ws/collab"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func joinRoom(t *testing.T, conn *websocket.Conn, room string) {
	t.Helper()
	msg, _ := json.Marshal(message{Type: "join-presentation", PresentationID: room})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("join: %v", err)
	}
}

func waitForRoomSize(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.RoomSize(room) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s size = %d, want %d", room, hub.RoomSize(room), want)
}

func TestSlideUpdateRelayedToRoomMembers(t *testing.T) {
	hub, url := setupHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, a, "deck-1")
	joinRoom(t, b, "deck-1")
	waitForRoomSize(t, hub, "deck-1", 2)

	sent := []byte(`{"type":"slide-update","presentationId":"deck-1","payload":{"slideIndex":3}}`)
	if err := a.WriteMessage(websocket.TextMessage, sent); err != nil {
		t.Fatalf("write: %v", err)
	}

	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := b.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(sent) {
		t.Errorf("relayed = %s, want verbatim %s", got, sent)
	}
}

func TestSenderDoesNotEchoItself(t *testing.T) {
	hub, url := setupHub(t)
	a := dial(t, url)
	joinRoom(t, a, "deck-1")
	waitForRoomSize(t, hub, "deck-1", 1)

	a.WriteMessage(websocket.TextMessage, []byte(`{"type":"cursor-move","presentationId":"deck-1"}`))

	a.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := a.ReadMessage(); err == nil {
		t.Fatal("sender received its own event")
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	hub, url := setupHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, a, "deck-1")
	joinRoom(t, b, "deck-2")
	waitForRoomSize(t, hub, "deck-1", 1)
	waitForRoomSize(t, hub, "deck-2", 1)

	a.WriteMessage(websocket.TextMessage, []byte(`{"type":"slide-update","presentationId":"deck-1"}`))

	b.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := b.ReadMessage(); err == nil {
		t.Fatal("event leaked across rooms")
	}
}

func TestDisconnectLeavesRoom(t *testing.T) {
	hub, url := setupHub(t)
	a := dial(t, url)
	joinRoom(t, a, "deck-1")
	waitForRoomSize(t, hub, "deck-1", 1)

	a.Close()
	waitForRoomSize(t, hub, "deck-1", 0)
}

func TestMalformedMessageIgnored(t *testing.T) {
	hub, url := setupHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, a, "deck-1")
	joinRoom(t, b, "deck-1")
	waitForRoomSize(t, hub, "deck-1", 2)

	a.WriteMessage(websocket.TextMessage, []byte(`not json`))
	a.WriteMessage(websocket.TextMessage, []byte(`{"type":"slide-update","presentationId":"deck-1"}`))

	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := b.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(got), "slide-update") {
		t.Errorf("got %s", got)
	}
}
