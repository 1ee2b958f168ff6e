//nolint:goconst,errorlint // Test files use literal strings and direct error comparison.
package events

import (
	"errors"
	"testing"
	"time"
)

func TestMCPEventTypes(t *testing.T) {
	types := []MCPEventType{
		MCPEventConnecting,
		MCPEventConnected,
		MCPEventDisconnected,
		MCPEventFailed,
	}

	seen := make(map[MCPEventType]bool)
	for _, typ := range types {
		if seen[typ] {
			t.Errorf("duplicate event type: %s", typ)
		}
		seen[typ] = true

		if string(typ) == "" {
			t.Error("event type should have non-empty string value")
		}
	}
}

func TestNewMCPConnectedEvent(t *testing.T) {
	before := time.Now()
	event := NewMCPConnectedEvent("fetch", 7)
	after := time.Now()

	if event.Server != "fetch" {
		t.Errorf("expected Server 'fetch', got %q", event.Server)
	}
	if event.Type != MCPEventConnected {
		t.Errorf("expected Type MCPEventConnected, got %q", event.Type)
	}
	if event.ToolCount != 7 {
		t.Errorf("expected ToolCount 7, got %d", event.ToolCount)
	}
	if event.Error != nil {
		t.Error("Error should be nil")
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Error("timestamp should be within test bounds")
	}
}

func TestNewMCPFailedEvent(t *testing.T) {
	testErr := errors.New("connection refused")
	event := NewMCPFailedEvent("fetch", testErr)

	if event.Server != "fetch" {
		t.Errorf("expected Server 'fetch', got %q", event.Server)
	}
	if event.Type != MCPEventFailed {
		t.Errorf("expected Type MCPEventFailed, got %q", event.Type)
	}
	if event.Error != testErr {
		t.Errorf("expected Error to be testErr, got %v", event.Error)
	}
	if event.ToolCount != 0 {
		t.Errorf("ToolCount should be zero, got %d", event.ToolCount)
	}
}

func TestNewMCPConnectingEvent(t *testing.T) {
	event := NewMCPConnectingEvent("search")

	if event.Server != "search" {
		t.Errorf("expected Server 'search', got %q", event.Server)
	}
	if event.Type != MCPEventConnecting {
		t.Errorf("expected Type MCPEventConnecting, got %q", event.Type)
	}
}

func TestNewMCPDisconnectedEvent(t *testing.T) {
	event := NewMCPDisconnectedEvent("search")

	if event.Server != "search" {
		t.Errorf("expected Server 'search', got %q", event.Server)
	}
	if event.Type != MCPEventDisconnected {
		t.Errorf("expected Type MCPEventDisconnected, got %q", event.Type)
	}
}
