package chat

import (
	"strings"
	"testing"

	"github.com/yodaai/yoda/internal/attachment"
)

func TestAttachmentsPanel_NewAttachmentsPanel(t *testing.T) {
	p := NewAttachmentsPanel()

	if p == nil {
		t.Fatal("expected non-nil panel")
	}
	if len(p.items) != 0 {
		t.Error("expected empty items initially")
	}
	if p.spinner != 0 {
		t.Error("expected spinner=0 initially")
	}
	if p.attaching {
		t.Error("expected attaching=false initially")
	}
}

func TestAttachmentsPanel_Height(t *testing.T) {
	p := NewAttachmentsPanel()
	p.SetWidth(80)

	// Empty panel has zero height
	if h := p.Height(); h != 0 {
		t.Errorf("expected height=0 when empty, got %d", h)
	}

	// One item: header + 1 item + footer = 3
	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: "hello"},
	})
	if h := p.Height(); h != 3 {
		t.Errorf("expected height=3 with 1 item, got %d", h)
	}

	// Three items: header + 3 items + footer = 5
	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: "hello"},
		{Name: "notes.md", Source: attachment.SourceFile, Content: "# Notes"},
		{Name: "snippet", Source: attachment.SourceManual, Content: "text"},
	})
	if h := p.Height(); h != 5 {
		t.Errorf("expected height=5 with 3 items, got %d", h)
	}

	// Clear resets height
	p.Clear()
	if h := p.Height(); h != 0 {
		t.Errorf("expected height=0 after clear, got %d", h)
	}
}

func TestAttachmentsPanel_IsActive(t *testing.T) {
	p := NewAttachmentsPanel()

	if p.IsActive() {
		t.Error("expected IsActive=false when empty")
	}

	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: "hello"},
	})
	if !p.IsActive() {
		t.Error("expected IsActive=true when has items")
	}

	p.SetItems(nil)
	if p.IsActive() {
		t.Error("expected IsActive=false after setting nil")
	}
}

func TestAttachmentsPanel_CountAndTotalSize(t *testing.T) {
	p := NewAttachmentsPanel()

	if p.Count() != 0 {
		t.Errorf("expected Count=0 when empty, got %d", p.Count())
	}
	if p.TotalSize() != 0 {
		t.Errorf("expected TotalSize=0 when empty, got %d", p.TotalSize())
	}

	p.SetItems([]attachment.Attachment{
		{Name: "a", Source: attachment.SourceClipboard, Content: "12345"},
		{Name: "b", Source: attachment.SourceFile, Content: "1234567890"},
	})

	if p.Count() != 2 {
		t.Errorf("expected Count=2, got %d", p.Count())
	}
	if p.TotalSize() != 15 {
		t.Errorf("expected TotalSize=15, got %d", p.TotalSize())
	}
}

func TestAttachmentsPanel_SetSpinner(t *testing.T) {
	p := NewAttachmentsPanel()

	p.SetSpinner(5)
	if p.spinner != 5 {
		t.Errorf("expected spinner=5, got %d", p.spinner)
	}
}

func TestAttachmentsPanel_View_Empty(t *testing.T) {
	p := NewAttachmentsPanel()
	p.SetWidth(80)

	if v := p.View(); v != "" {
		t.Errorf("expected empty view when inactive, got %q", v)
	}
}

func TestAttachmentsPanel_View_WithItems(t *testing.T) {
	p := NewAttachmentsPanel()
	p.SetWidth(80)

	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: strings.Repeat("x", 512)},
		{Name: "notes.md", Source: attachment.SourceFile, Content: strings.Repeat("y", 2048)},
		{Name: "snippet", Source: attachment.SourceManual, Content: "small"},
	})

	view := p.View()

	// Should contain header with count
	if !strings.Contains(view, "Captured context (3)") {
		t.Error("expected 'Captured context (3)' header in view")
	}

	// Should contain item names
	if !strings.Contains(view, "clipboard-1") {
		t.Error("expected 'clipboard-1' in view")
	}
	if !strings.Contains(view, "notes.md") {
		t.Error("expected 'notes.md' in view")
	}
	if !strings.Contains(view, "snippet") {
		t.Error("expected 'snippet' in view")
	}

	// Should contain source icons
	if !strings.Contains(view, captureIconClipboard) {
		t.Error("expected clipboard icon in view")
	}
	if !strings.Contains(view, captureIconFile) {
		t.Error("expected file icon in view")
	}
	if !strings.Contains(view, captureIconManual) {
		t.Error("expected manual icon in view")
	}

	// Should contain human-readable sizes
	if !strings.Contains(view, "(512 B)") {
		t.Error("expected '(512 B)' in view")
	}
	if !strings.Contains(view, "(2.0 KB)") {
		t.Error("expected '(2.0 KB)' in view")
	}
}

func TestAttachmentsPanel_View_AttachingSpinner(t *testing.T) {
	p := NewAttachmentsPanel()
	p.SetWidth(80)

	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: "hello"},
	})
	p.SetAttaching(true)

	// Get first frame
	p.SetSpinner(0)
	frame1 := p.View()

	// Get second frame
	p.SetSpinner(1)
	frame2 := p.View()

	// Frames should be different (spinner advanced)
	if frame1 == frame2 {
		t.Error("expected spinner to change between frames")
	}

	// Both should contain spinner frames
	if !viewHasSpinnerFrame(frame1) {
		t.Error("expected spinner character in first frame")
	}
	if !viewHasSpinnerFrame(frame2) {
		t.Error("expected spinner character in second frame")
	}

	// Header should switch to the attaching label
	if !strings.Contains(frame1, "Attaching context") {
		t.Error("expected 'Attaching context' header while attaching")
	}
}

func TestAttachmentsPanel_Clear(t *testing.T) {
	p := NewAttachmentsPanel()

	p.SetItems([]attachment.Attachment{
		{Name: "clipboard-1", Source: attachment.SourceClipboard, Content: "hello"},
	})
	p.SetSpinner(5)
	p.SetAttaching(true)

	p.Clear()

	if len(p.items) != 0 {
		t.Error("expected empty items after Clear")
	}
	if p.spinner != 0 {
		t.Error("expected spinner=0 after Clear")
	}
	if p.attaching {
		t.Error("expected attaching=false after Clear")
	}
}

func TestAttachmentsPanel_TruncateName(t *testing.T) {
	p := NewAttachmentsPanel()
	p.SetWidth(50) // Will give maxLen of 32

	// Short name unchanged
	short := "clipboard-1"
	if result := p.truncateName(short); result != short {
		t.Errorf("expected short name unchanged, got %q", result)
	}

	// Long name truncated
	long := "a-very-long-capture-name-that-does-not-fit-the-panel"
	result := p.truncateName(long)
	if !strings.HasSuffix(result, "...") {
		t.Error("expected truncated name to end with '...'")
	}
	if len(result) > 32 {
		t.Errorf("expected truncated name to be <= 32 chars, got %d", len(result))
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct { //nolint:govet // fieldalignment: test struct clarity over optimization
		n        int
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{2 * 1024 * 1024, "2.0 MB"},
	}

	for _, tt := range tests {
		result := formatSize(tt.n)
		if result != tt.expected {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, result, tt.expected)
		}
	}
}
