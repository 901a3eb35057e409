// file: internal/service/grid/watcher_test.go
package grid

import (
	"GridAegis/internal/core/domain"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_WatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	// load 把文件内容的每个字符当作一个 grid 名称
	load := func() (map[string]domain.GridDefinition, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		content := strings.TrimSpace(string(data))
		if content == "!" {
			return nil, errors.New("syntax error")
		}
		defs := make(map[string]domain.GridDefinition)
		for _, ch := range content {
			defs[string(ch)] = validDefinition()
		}
		return defs, nil
	}

	r := NewRegistry([]string{"school"})
	initial, err := load()
	require.NoError(t, err)
	require.NoError(t, r.Replace(initial))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan error, 8)
	require.NoError(t, r.Watch(ctx, path, load, func(err error) { reloaded <- err }))

	waitReload := func() error {
		select {
		case err := <-reloaded:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("等待热加载超时")
			return nil
		}
	}

	require.NoError(t, os.WriteFile(path, []byte("bc"), 0o644))
	require.NoError(t, waitReload())
	assert.Equal(t, []string{"b", "c"}, r.Names())

	require.NoError(t, os.WriteFile(path, []byte("!"), 0o644))
	assert.Error(t, waitReload())
	assert.Equal(t, []string{"b", "c"}, r.Names(), "装载失败时应保留旧集合")
}

func TestRegistry_WatchMissingDirectory(t *testing.T) {
	r := NewRegistry(nil)
	err := r.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "config.yaml"), nil, nil)
	assert.Error(t, err)
}
