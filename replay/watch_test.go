package replay

import (
	"sync"
	"testing"
	"time"
)

func TestWatchHub_BasicSubscribePublish(t *testing.T) {
	hub := newWatchHub()

	// Watch all channels
	updates, cancel := hub.subscribe(nil)
	defer cancel()

	hub.publish("/topic/orders", 42)

	select {
	case u := <-updates:
		if u.Channel != "/topic/orders" || u.ReplayID != 42 {
			t.Errorf("expected (/topic/orders, 42), got (%s, %d)", u.Channel, u.ReplayID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for update")
	}
}

func TestWatchHub_FilterSpecificChannel(t *testing.T) {
	hub := newWatchHub()

	// Watch only /topic/orders
	updates, cancel := hub.subscribe([]string{"/topic/orders"})
	defer cancel()

	// Update on /topic/orders (should receive)
	hub.publish("/topic/orders", 1)

	select {
	case u := <-updates:
		if u.Channel != "/topic/orders" || u.ReplayID != 1 {
			t.Errorf("expected (/topic/orders, 1), got (%s, %d)", u.Channel, u.ReplayID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for update")
	}

	// Update on another channel (should NOT receive)
	hub.publish("/topic/shipments", 2)

	select {
	case u := <-updates:
		t.Errorf("should not receive update for /topic/shipments, got (%s, %d)", u.Channel, u.ReplayID)
	case <-time.After(50 * time.Millisecond):
		// Expected - no update
	}
}

func TestWatchHub_FilterMultipleChannels(t *testing.T) {
	hub := newWatchHub()

	updates, cancel := hub.subscribe([]string{"/topic/a", "/topic/c"})
	defer cancel()

	hub.publish("/topic/a", 1)
	hub.publish("/topic/b", 2) // Should be filtered out
	hub.publish("/topic/c", 3)

	received := make(map[string]int64)
	for i := 0; i < 2; i++ {
		select {
		case u := <-updates:
			received[u.Channel] = u.ReplayID
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for update %d", i+1)
		}
	}

	if len(received) != 2 {
		t.Errorf("expected 2 unique updates, got %d", len(received))
	}
	if received["/topic/a"] != 1 || received["/topic/c"] != 3 {
		t.Errorf("received unexpected updates: %v", received)
	}

	// Should NOT receive any more updates
	select {
	case u := <-updates:
		t.Errorf("should not receive update, got (%s, %d)", u.Channel, u.ReplayID)
	case <-time.After(50 * time.Millisecond):
		// Expected
	}
}

func TestWatchHub_CancelUnsubscribes(t *testing.T) {
	hub := newWatchHub()

	updates, cancel := hub.subscribe(nil)

	hub.publish("/topic/orders", 1)

	select {
	case <-updates:
		// Expected
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for update")
	}

	// Cancel watch
	cancel()

	// Channel should be closed
	select {
	case _, ok := <-updates:
		if ok {
			t.Error("channel should be closed after cancel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for channel close")
	}

	// Subsequent publishes should not panic
	hub.publish("/topic/orders", 2)

	// Cancel is idempotent
	cancel()
}

func TestWatchHub_MultipleWatchers(t *testing.T) {
	hub := newWatchHub()

	updates1, cancel1 := hub.subscribe(nil)
	defer cancel1()
	updates2, cancel2 := hub.subscribe([]string{"/topic/orders"})
	defer cancel2()
	updates3, cancel3 := hub.subscribe([]string{"/topic/shipments"})
	defer cancel3()

	hub.publish("/topic/orders", 1)

	// updates1 and updates2 should receive
	select {
	case u := <-updates1:
		if u.Channel != "/topic/orders" || u.ReplayID != 1 {
			t.Errorf("updates1: expected (/topic/orders, 1), got (%s, %d)", u.Channel, u.ReplayID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout on updates1")
	}

	select {
	case u := <-updates2:
		if u.Channel != "/topic/orders" || u.ReplayID != 1 {
			t.Errorf("updates2: expected (/topic/orders, 1), got (%s, %d)", u.Channel, u.ReplayID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout on updates2")
	}

	// updates3 should NOT receive
	select {
	case u := <-updates3:
		t.Errorf("updates3 should not receive, got (%s, %d)", u.Channel, u.ReplayID)
	case <-time.After(50 * time.Millisecond):
		// Expected
	}
}

func TestWatchHub_ConcurrentPublishSubscribe(t *testing.T) {
	hub := newWatchHub()
	const numGoroutines = 10
	const numUpdates = 100

	var wg sync.WaitGroup

	// Start goroutines that watch and drain updates
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			updates, cancel := hub.subscribe(nil)
			defer cancel()

			received := 0
			timeout := time.After(2 * time.Second)
			for received < numUpdates {
				select {
				case <-updates:
					received++
				case <-timeout:
					return
				}
			}
		}()
	}

	// Start goroutine that publishes updates
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < numUpdates; i++ {
			hub.publish("/topic/orders", int64(i))
		}
	}()

	wg.Wait()
}

func TestWatchHub_BufferOverflowNonBlocking(t *testing.T) {
	hub := newWatchHub()

	updates, cancel := hub.subscribe(nil)
	defer cancel()

	// Fill the buffer (16) and publish more; must not block
	for i := 0; i < 20; i++ {
		hub.publish("/topic/orders", int64(i))
	}

	// Should receive the buffered updates, the rest were dropped
	received := 0
	timeout := time.After(100 * time.Millisecond)
drain:
	for {
		select {
		case <-updates:
			received++
		case <-timeout:
			break drain
		}
	}

	if received != defaultWatchBufferSize {
		t.Errorf("expected %d buffered updates, got %d", defaultWatchBufferSize, received)
	}
}
