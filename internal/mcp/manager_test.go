package mcp

import (
	"context"
	"fmt"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// drainEvents collects the MCP events already buffered on the channel.
func drainEvents(ch <-chan pubsub.Event[events.MCPEvent]) []events.MCPEvent {
	var collected []events.MCPEvent
	for {
		select {
		case event := <-ch:
			collected = append(collected, event.Payload)
		case <-time.After(100 * time.Millisecond):
			return collected
		}
	}
}

func TestManager_ConnectIsolatesFailures(t *testing.T) {
	clientTransport := startInMemoryServer(t, newTestServer())
	stubTransportBuilder(t, func(_ context.Context, server config.MCPServerConfig) (mcpsdk.Transport, error) {
		if server.Name == "beta" {
			return nil, fmt.Errorf("no route to beta")
		}
		return clientTransport, nil
	})

	broker := pubsub.NewBroker[events.MCPEvent]("mcp-test")
	defer broker.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventCh := broker.Subscribe(ctx)

	manager := NewManager([]config.MCPServerConfig{
		{ID: "id-alpha", Name: "alpha", Transport: config.MCPTransportStdio, Command: "alpha-server"},
		{ID: "id-beta", Name: "beta", Transport: config.MCPTransportStdio, Command: "beta-server"},
	}, broker)
	defer manager.Close()

	manager.Connect(context.Background())

	statuses := manager.Status()
	if len(statuses) != 2 {
		t.Fatalf("Status() returned %d servers, want 2", len(statuses))
	}

	alpha := statuses[0]
	if alpha.Name != "alpha" || !alpha.Connected {
		t.Errorf("alpha status = %+v, want connected", alpha)
	}
	if alpha.ToolCount != 2 {
		t.Errorf("alpha ToolCount = %d, want 2", alpha.ToolCount)
	}

	beta := statuses[1]
	if beta.Name != "beta" || beta.Connected {
		t.Errorf("beta status = %+v, want disconnected", beta)
	}
	if beta.Err == nil {
		t.Error("beta status should carry the connect error")
	}

	collected := drainEvents(eventCh)
	if len(collected) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(collected), collected)
	}
	wantTypes := []events.MCPEventType{
		events.MCPEventConnecting,
		events.MCPEventConnected,
		events.MCPEventConnecting,
		events.MCPEventFailed,
	}
	wantServers := []string{"alpha", "alpha", "beta", "beta"}
	for i, event := range collected {
		if event.Type != wantTypes[i] {
			t.Errorf("event[%d].Type = %q, want %q", i, event.Type, wantTypes[i])
		}
		if event.Server != wantServers[i] {
			t.Errorf("event[%d].Server = %q, want %q", i, event.Server, wantServers[i])
		}
	}
	if collected[1].ToolCount != 2 {
		t.Errorf("connected event ToolCount = %d, want 2", collected[1].ToolCount)
	}
	if collected[3].Error == nil {
		t.Error("failed event should carry the error")
	}
}

func TestManager_ToolsUsesCache(t *testing.T) {
	clientTransport := startInMemoryServer(t, newTestServer())

	var builds int
	stubTransportBuilder(t, func(context.Context, config.MCPServerConfig) (mcpsdk.Transport, error) {
		builds++
		return clientTransport, nil
	})

	manager := NewManager([]config.MCPServerConfig{
		{ID: "id-alpha", Name: "alpha", Transport: config.MCPTransportStdio, Command: "alpha-server"},
	}, nil)
	defer manager.Close()

	manager.Connect(context.Background())

	agentTools := manager.Tools(context.Background())
	if len(agentTools) != 2 {
		t.Fatalf("Tools() returned %d tools, want 2", len(agentTools))
	}
	for _, tool := range agentTools {
		if tool == nil {
			t.Fatal("Tools() returned a nil adapter")
		}
	}

	// Connect already listed tools; Tools must not redial.
	if builds != 1 {
		t.Errorf("transport built %d times, want 1", builds)
	}
}

func TestManager_ToolsWithoutConnect(t *testing.T) {
	clientTransport := startInMemoryServer(t, newTestServer())
	stubTransportBuilder(t, func(context.Context, config.MCPServerConfig) (mcpsdk.Transport, error) {
		return clientTransport, nil
	})

	manager := NewManager([]config.MCPServerConfig{
		{ID: "id-alpha", Name: "alpha", Transport: config.MCPTransportStdio, Command: "alpha-server"},
	}, nil)
	defer manager.Close()

	// Tools connects lazily when Connect was never called.
	agentTools := manager.Tools(context.Background())
	if len(agentTools) != 2 {
		t.Fatalf("Tools() returned %d tools, want 2", len(agentTools))
	}
}

func TestManager_SkipsDisabledServers(t *testing.T) {
	manager := NewManager([]config.MCPServerConfig{
		{ID: "id-active", Name: "active", Transport: config.MCPTransportStdio, Command: "server"},
		{ID: "id-dormant", Name: "dormant", Transport: config.MCPTransportStdio, Command: "server", Disabled: true},
	}, nil)
	defer manager.Close()

	statuses := manager.Status()
	if len(statuses) != 1 {
		t.Fatalf("Status() returned %d servers, want 1", len(statuses))
	}
	if statuses[0].Name != "active" {
		t.Errorf("Status()[0].Name = %q, want %q", statuses[0].Name, "active")
	}

	if manager.Client("dormant") != nil {
		t.Error("Client() should not return disabled servers")
	}
	if manager.Client("active") == nil {
		t.Error("Client() should return the enabled server")
	}
}

func TestManager_ClosePublishesDisconnect(t *testing.T) {
	clientTransport := startInMemoryServer(t, newTestServer())
	stubTransportBuilder(t, func(context.Context, config.MCPServerConfig) (mcpsdk.Transport, error) {
		return clientTransport, nil
	})

	broker := pubsub.NewBroker[events.MCPEvent]("mcp-test")
	defer broker.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventCh := broker.Subscribe(ctx)

	manager := NewManager([]config.MCPServerConfig{
		{ID: "id-alpha", Name: "alpha", Transport: config.MCPTransportStdio, Command: "alpha-server"},
	}, broker)

	manager.Connect(context.Background())
	if err := manager.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	statuses := manager.Status()
	if statuses[0].Connected {
		t.Error("Status() should report disconnected after Close")
	}

	collected := drainEvents(eventCh)
	if len(collected) == 0 {
		t.Fatal("expected events after connect and close")
	}
	last := collected[len(collected)-1]
	if last.Type != events.MCPEventDisconnected {
		t.Errorf("last event = %q, want %q", last.Type, events.MCPEventDisconnected)
	}
	if last.Server != "alpha" {
		t.Errorf("last event server = %q, want %q", last.Server, "alpha")
	}
}

func TestEventTypeFor(t *testing.T) {
	tests := []struct {
		in   events.MCPEventType
		want pubsub.EventType
	}{
		{events.MCPEventConnecting, pubsub.EventStarted},
		{events.MCPEventConnected, pubsub.EventCompleted},
		{events.MCPEventFailed, pubsub.EventFailed},
		{events.MCPEventDisconnected, pubsub.EventDeleted},
		{events.MCPEventType("other"), pubsub.EventUpdated},
	}

	for _, tt := range tests {
		if got := eventTypeFor(tt.in); got != tt.want {
			t.Errorf("eventTypeFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
