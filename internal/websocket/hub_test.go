// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/opsboard/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// startHub runs a hub until the test ends and returns its stop function.
func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func testClient(hub *Hub) *Client {
	return NewClient(hub, nil, nil)
}

func TestNewClient_IDsIncrease(t *testing.T) {
	a := testClient(nil)
	b := testClient(nil)
	if b.ID() <= a.ID() {
		t.Errorf("ID() = %d after %d, want increasing", b.ID(), a.ID())
	}
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("SessionID() = %q and %q, want distinct non-empty", a.SessionID(), b.SessionID())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, _, _ := startHub(t)
	c1, c2 := testClient(hub), testClient(hub)

	hub.Register <- c1
	hub.Register <- c2
	waitFor(t, "two clients", func() bool { return hub.GetClientCount() == 2 })

	hub.Unregister <- c1
	waitFor(t, "one client", func() bool { return hub.GetClientCount() == 1 })

	if _, ok := <-c1.send; ok {
		t.Error("unregistered client send channel still open")
	}

	// Unregistering twice is harmless.
	hub.Unregister <- c1
	waitFor(t, "one client", func() bool { return hub.GetClientCount() == 1 })
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, _, _ := startHub(t)
	clients := []*Client{testClient(hub), testClient(hub), testClient(hub)}
	for _, c := range clients {
		hub.Register <- c
	}
	waitFor(t, "three clients", func() bool { return hub.GetClientCount() == 3 })

	hub.BroadcastDatasetRefreshed(42, "SYNTHETIC")

	for i, c := range clients {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeDatasetRefreshed {
				t.Errorf("client %d Type = %q, want %q", i, msg.Type, MessageTypeDatasetRefreshed)
			}
			data, ok := msg.Data.(DatasetRefreshedData)
			if !ok {
				t.Fatalf("client %d Data = %T, want DatasetRefreshedData", i, msg.Data)
			}
			if data.Rows != 42 || data.Source != "SYNTHETIC" {
				t.Errorf("client %d Data = %+v, want rows 42 source SYNTHETIC", i, data)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d got no broadcast", i)
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _, _ := startHub(t)
	slow := testClient(hub)
	hub.Register <- slow
	waitFor(t, "client", func() bool { return hub.GetClientCount() == 1 })

	for i := 0; i < sendBuffer; i++ {
		if !slow.enqueue(Message{Type: "filler"}) {
			t.Fatalf("enqueue(%d) = false, want true", i)
		}
	}

	hub.BroadcastJSON("overflow", nil)
	waitFor(t, "slow client removal", func() bool { return hub.GetClientCount() == 0 })
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)
	c := testClient(hub)
	hub.Register <- c
	waitFor(t, "client", func() bool { return hub.GetClientCount() == 1 })

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("GetClientCount() = %d after shutdown, want 0", got)
	}
	if c.enqueue(Message{Type: MessageTypePong}) {
		t.Error("enqueue() on closed client = true, want false")
	}
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	finished := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastJSON("tick", i)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("BroadcastJSON blocked with no hub running")
	}
	if got := len(hub.broadcast); got != broadcastBuffer {
		t.Errorf("queued broadcasts = %d, want %d", got, broadcastBuffer)
	}
}

func TestGetShutdownReason(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()

	tests := []struct {
		name string
		ctx  context.Context
		want ShutdownReason
	}{
		{"cancelled", cancelled, ShutdownReasonContextCanceled},
		{"deadline", expired, ShutdownReasonContextDeadline},
	}
	for _, tt := range tests {
		if got := getShutdownReason(tt.ctx); got != tt.want {
			t.Errorf("getShutdownReason(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMarshalMessage(t *testing.T) {
	got, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	if want := `{"type":"pong","data":null}`; string(got) != want {
		t.Errorf("MarshalMessage() = %s, want %s", got, want)
	}
}
