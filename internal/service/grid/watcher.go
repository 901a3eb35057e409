// Package grid file: internal/service/grid/watcher.go
package grid

import (
	"GridAegis/internal/core/domain"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 500 * time.Millisecond

// LoadFunc 重新读取配置并返回最新的 grid 定义
type LoadFunc func() (map[string]domain.GridDefinition, error)

// Watch 监视配置文件所在目录，文件变更 (写入、重命名替换、重新创建) 经防抖后
// 调用 load 并整体替换 grid 集合。装载失败时保留旧集合。ctx 取消后停止监视。
// onReload 可为 nil，每次重载尝试后以结果调用。
func (r *Registry) Watch(ctx context.Context, path string, load LoadFunc, onReload func(error)) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建 fsnotify watcher 失败: %w", err)
	}
	// 监视目录而不是文件本身：编辑器常以 "写临时文件再重命名" 的方式保存
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("添加配置目录 '%s' 到监视器失败: %w", filepath.Dir(path), err)
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	reload := func() {
		defs, err := load()
		if err == nil {
			err = r.Replace(defs)
		}
		if err != nil {
			slog.Error("热加载 grid 配置失败，保留现有定义", "path", path, "error", err)
		} else {
			slog.Info("热加载 grid 配置成功", "path", path)
		}
		if onReload != nil {
			onReload(err)
		}
	}

	go func() {
		defer watcher.Close()
		slog.Info("配置文件监视已启动", "path", path)
		for {
			select {
			case <-ctx.Done():
				timerMu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timerMu.Unlock()
				slog.Info("配置文件监视已停止", "path", path)
				return
			case event, ok := <-watcher.Events:
				if !ok {
					slog.Warn("文件监视器事件通道已关闭")
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				timerMu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDuration, reload)
				timerMu.Unlock()
			case errWatch, ok := <-watcher.Errors:
				if !ok {
					slog.Warn("文件监视器错误通道已关闭")
					return
				}
				slog.Error("文件监视器报告错误", "error", errWatch)
			}
		}
	}()
	return nil
}
