package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/ws", HandleWebSocket(hub))
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(Event{
		Type:    EventListingCreated,
		Message: "alice listed Sunset #42",
		Data:    map[string]string{"id": "507f1f77bcf86cd799439011"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	if event.Type != EventListingCreated {
		t.Errorf("type = %q, want %q", event.Type, EventListingCreated)
	}
	if event.Message != "alice listed Sunset #42" {
		t.Errorf("message = %q", event.Message)
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// A client whose send channel is never drained
	stuck := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- stuck

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(Event{Type: EventListingCreated, Message: "drop me"})

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow consumer was never dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Its send channel must be closed so the write pump exits
	select {
	case _, open := <-stuck.send:
		if open {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed")
	}
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/ws", HandleWebSocket(hub))
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
