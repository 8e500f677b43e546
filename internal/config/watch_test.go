package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// reloadTimeout comfortably covers the debounce delay plus fsnotify
// delivery latency on slow CI filesystems.
const reloadTimeout = 5 * time.Second

func startWatch(t *testing.T, path string) (<-chan *Config, *atomic.Int32) {
	t.Helper()

	ch := make(chan *Config, 8)
	var calls atomic.Int32
	stop, err := Watch(path, func(c *Config) {
		calls.Add(1)
		ch <- c
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	t.Cleanup(stop)
	return ch, &calls
}

func awaitReload(t *testing.T, ch <-chan *Config) *Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(reloadTimeout):
		t.Fatal("timed out waiting for config reload")
		return nil
	}
}

func TestWatchReloadsValidatedConfigOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_interval_ms = 4000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ch, _ := startWatch(t, path)

	// The change carries one bad value; onChange must still see the
	// corrected config, not the raw file contents.
	content := "poll_interval_ms = 7000\ncooldown_ms = -1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := awaitReload(t, ch)
	if cfg.PollIntervalMs != 7000 {
		t.Errorf("PollIntervalMs = %d, want 7000", cfg.PollIntervalMs)
	}
	if cfg.CooldownMs != Default().CooldownMs {
		t.Errorf("CooldownMs = %d, want corrected default %d", cfg.CooldownMs, Default().CooldownMs)
	}
}

func TestWatchCoalescesEventBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("capture_lines = 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ch, calls := startWatch(t, path)

	// Editors emit several write events per save; a rapid burst must
	// collapse into a single reload.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("capture_lines = 60\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	awaitReload(t, ch)
	// Give a straggler reload time to fire if the debounce failed.
	time.Sleep(2 * debounceDelay)
	if got := calls.Load(); got != 1 {
		t.Errorf("onChange called %d times for one burst, want 1", got)
	}
}

func TestWatchSeesRenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("idle_window = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ch, _ := startWatch(t, path)

	// Write-then-rename is how most editors save; the directory watch
	// must pick up the file appearing under the watched name.
	tmp := filepath.Join(dir, "config.toml.tmp")
	if err := os.WriteFile(tmp, []byte("idle_window = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	cfg := awaitReload(t, ch)
	if cfg.IdleWindow != 4 {
		t.Errorf("IdleWindow = %d, want 4", cfg.IdleWindow)
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("waiting_window = 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, calls := startWatch(t, path)

	if err := os.WriteFile(filepath.Join(dir, "agents.yaml"), []byte("agents: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * debounceDelay)
	if got := calls.Load(); got != 0 {
		t.Errorf("onChange called %d times for an unrelated file, want 0", got)
	}
}
