package configwatcher

import (
	"context"
	"elearn_backend/internal/config"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, minutes int) {
	t.Helper()
	body := []byte("database:\n  driver: sqlite\nstorage:\n  local_path: " + filepath.Join(dir, "media") +
		"\npayment:\n  expire_after_minutes: " + strconv.Itoa(minutes) + "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0644))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, 60)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, 15)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 15, cfg.Payment.ExpireAfterMinutes)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}
