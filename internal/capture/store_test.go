package capture

import (
	"sync"
	"testing"

	"github.com/yodaai/yoda/internal/attachment"
)

func pendingAtt(id, name string) attachment.Attachment {
	return attachment.Attachment{
		ID:      id,
		Source:  attachment.SourceClipboard,
		Name:    name,
		Content: "content of " + name,
	}
}

func TestStore_AddAndList(t *testing.T) {
	store := NewStore()

	t.Run("returns nil for unknown session", func(t *testing.T) {
		if got := store.List("nope"); got != nil {
			t.Errorf("List() = %v, want nil", got)
		}
	})

	t.Run("lists in insertion order", func(t *testing.T) {
		store.Add("sess-1", pendingAtt("a1", "first"))
		store.Add("sess-1", pendingAtt("a2", "second"))

		got := store.List("sess-1")
		if len(got) != 2 {
			t.Fatalf("List() returned %d items, want 2", len(got))
		}
		if got[0].ID != "a1" || got[1].ID != "a2" {
			t.Errorf("order = [%q, %q], want [a1, a2]", got[0].ID, got[1].ID)
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		got := store.List("sess-1")
		got[0].Name = "mutated"

		again := store.List("sess-1")
		if again[0].Name == "mutated" {
			t.Error("List() should return a copy, found shared backing array")
		}
	})
}

func TestStore_Remove(t *testing.T) {
	store := NewStore()
	store.Add("sess-1", pendingAtt("a1", "first"))
	store.Add("sess-1", pendingAtt("a2", "second"))

	t.Run("removes by ID", func(t *testing.T) {
		att, ok := store.Remove("sess-1", "a1")
		if !ok {
			t.Fatal("Remove() = false, want true")
		}
		if att.Name != "first" {
			t.Errorf("removed Name = %q, want %q", att.Name, "first")
		}
		if store.Count("sess-1") != 1 {
			t.Errorf("Count() = %d, want 1", store.Count("sess-1"))
		}
	})

	t.Run("returns false for unknown ID", func(t *testing.T) {
		if _, ok := store.Remove("sess-1", "missing"); ok {
			t.Error("Remove() = true, want false")
		}
	})

	t.Run("drops session entry when empty", func(t *testing.T) {
		if _, ok := store.Remove("sess-1", "a2"); !ok {
			t.Fatal("Remove() = false, want true")
		}
		if store.HasPending("sess-1") {
			t.Error("HasPending() = true, want false")
		}
	})
}

func TestStore_Take(t *testing.T) {
	store := NewStore()
	store.Add("sess-1", pendingAtt("a1", "first"))
	store.Add("sess-1", pendingAtt("a2", "second"))

	taken := store.Take("sess-1")
	if len(taken) != 2 {
		t.Fatalf("Take() returned %d items, want 2", len(taken))
	}
	if store.HasPending("sess-1") {
		t.Error("HasPending() after Take = true, want false")
	}

	if again := store.Take("sess-1"); again != nil {
		t.Errorf("second Take() = %v, want nil", again)
	}
}

func TestStore_Has(t *testing.T) {
	store := NewStore()
	store.Add("sess-1", pendingAtt("a1", "first"))

	if !store.Has("sess-1", "a1") {
		t.Error("Has() = false, want true")
	}
	if store.Has("sess-1", "a2") {
		t.Error("Has() for unknown ID = true, want false")
	}
	if store.Has("sess-2", "a1") {
		t.Error("Has() for other session = true, want false")
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Add("sess-1", pendingAtt("a1", "first"))
	store.Add("sess-1", pendingAtt("a2", "second"))
	store.Add("sess-2", pendingAtt("b1", "other"))

	n := store.Clear("sess-1")
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if store.Count("sess-1") != 0 {
		t.Errorf("Count() after clear = %d, want 0", store.Count("sess-1"))
	}
	if store.Count("sess-2") != 1 {
		t.Errorf("other session Count() = %d, want 1", store.Count("sess-2"))
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add("sess-1", pendingAtt("", "item"))
			store.List("sess-1")
			store.Count("sess-1")
		}()
	}
	wg.Wait()

	if store.Count("sess-1") != 10 {
		t.Errorf("Count() = %d, want 10", store.Count("sess-1"))
	}
}
