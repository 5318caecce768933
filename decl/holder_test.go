package decl_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	declared "github.com/parametry/declared"
	"github.com/parametry/declared/decl"
)

func TestHolder_Get(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	set := h.Get()
	if set == nil {
		t.Fatal("Get returned nil")
	}
	if set.Len() != 2 {
		t.Errorf("Len = %d, want 2", set.Len())
	}
	sp, ok := set.Spec("id")
	if !ok || !sp.Required() {
		t.Errorf("id should be a required spec")
	}
}

func TestHolder_Reload(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	newContent := `
endpoint: get_account
params:
  - name: id
    in: path
    type: integer
    rule: requires
  - name: page
    in: query
    type: integer
    default: 1
  - name: verbose
    in: query
    type: boolean
`
	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		t.Fatalf("write new declaration: %v", err)
	}

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	if h.Get().Len() != 3 {
		t.Errorf("reloaded Len = %d, want 3", h.Get().Len())
	}
}

func TestHolder_OnChange(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var mu sync.Mutex
	var called bool
	var receivedSet *declared.ParamSet

	h.OnChange(func(set *declared.ParamSet) {
		mu.Lock()
		called = true
		receivedSet = set
		mu.Unlock()
	})

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	mu.Lock()
	if !called {
		t.Error("OnChange callback was not called")
	}
	if receivedSet == nil {
		t.Error("received nil set in callback")
	} else if receivedSet.Len() != 2 {
		t.Errorf("callback received Len = %d, want 2", receivedSet.Len())
	}
	mu.Unlock()
}

func TestHolder_ReloadInvalidKeepsOldSet(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	// Parses fine but fails compilation: the holder treats compile issues
	// as a failed reload.
	invalidContent := `
params:
  - name: x
    in: cookie
    type: string
`
	if err := os.WriteFile(path, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("write invalid declaration: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Error("Reload should fail for a declaration with compile issues")
	}

	if h.Get().Len() != 2 {
		t.Errorf("should keep the old set, got Len = %d", h.Get().Len())
	}
}

func TestHolder_NewHolderRejectsBrokenFile(t *testing.T) {
	path := writeDecl(t, "params: nope")

	if _, err := decl.NewHolder(path, zerolog.Nop()); err == nil {
		t.Fatal("NewHolder should fail for an unparsable declaration")
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var mu sync.Mutex
	var callCount int

	h.OnChange(func(set *declared.ParamSet) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	newContent := `
params:
  - name: id
    in: path
    type: integer
    rule: requires
`
	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		t.Fatalf("write new declaration: %v", err)
	}

	// Wait for the watcher to trigger.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if callCount == 0 {
		t.Error("file watcher did not trigger reload")
	}
	mu.Unlock()

	if h.Get().Len() != 1 {
		t.Errorf("after file watch, Len = %d, want 1", h.Get().Len())
	}
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	path := writeDecl(t, validDecl())

	h, err := decl.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if h.Get() == nil {
					t.Error("concurrent Get returned nil")
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Reload()
		}()
	}

	wg.Wait()
}

// Helpers

func validDecl() string {
	return `
endpoint: get_account
params:
  - name: id
    in: path
    type: integer
    rule: requires
  - name: page
    in: query
    type: integer
    default: 1
`
}

func writeDecl(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write declaration: %v", err)
	}
	return path
}
