package network

import (
	"testing"

	"sentry-server/pkg/api"
)

func TestBroadcaster_RegisterReplacesChannel(t *testing.T) {
	b := NewBroadcaster()

	first := b.Register("s1")
	second := b.Register("s1")

	if _, ok := <-first; ok {
		t.Error("old channel should be closed")
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("count = %d, want 1", b.SubscriberCount())
	}

	b.Broadcast(api.ServerResponse{Type: "UPDATE", Tick: 3})
	if msg := <-second; msg.Tick != 3 {
		t.Errorf("tick = %d, want 3", msg.Tick)
	}
}

func TestBroadcaster_SendTo(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("s1")
	b.Register("s2")

	if !b.SendTo("s1", api.ServerResponse{Type: "INIT"}) {
		t.Fatal("SendTo should deliver to a live session")
	}
	if msg := <-ch; msg.Type != "INIT" {
		t.Errorf("type = %s, want INIT", msg.Type)
	}
	if b.SendTo("ghost", api.ServerResponse{}) {
		t.Error("SendTo to unknown session should fail")
	}
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Broadcast(api.ServerResponse{Tick: int64(i)})
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", len(ch), subscriberBuffer)
	}
	if b.SendTo("slow", api.ServerResponse{}) {
		t.Error("SendTo should report a full channel")
	}
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("s1")

	b.Unregister("s1")
	b.Unregister("s1")

	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if b.HasSubscriber("s1") {
		t.Error("session should be gone")
	}
}
