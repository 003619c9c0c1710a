package simulate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/netmockpro/netmockpro/internal/util"
	"github.com/netmockpro/netmockpro/pkg/logger"
)

// FixtureStore 按文件提供回显覆盖，并缓存读取结果
// 目录结构：<root>/<ns>/<device>/<command>.txt，命令中的空格可用下划线表示
// fsnotify 监听 root 下的变更，任何事件都会使缓存整体失效
type FixtureStore struct {
	root    string
	mu      sync.RWMutex
	cache   map[string]string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFixtureStore 创建 fixture 缓存并启动目录监听
func NewFixtureStore(root string) (*FixtureStore, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to init fixture watcher: %w", err)
	}
	fs := &FixtureStore{
		root:    root,
		cache:   make(map[string]string),
		watcher: watcher,
		done:    make(chan struct{}),
	}

	// 监听根目录与既有子目录（fsnotify 不递归）
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch fixtures root: %w", err)
	}
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		_ = watcher.Add(path)
		return nil
	})

	go fs.watchLoop()
	return fs, nil
}

func (f *FixtureStore) watchLoop() {
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			// 新建目录纳入监听；任何事件都清空缓存，保持简单正确
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = f.watcher.Add(event.Name)
				}
			}
			f.invalidate()
			logger.Debug("Simulate: fixture cache invalidated", "event", event.Op.String(), "file", event.Name)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Simulate: fixture watcher error", "error", err)
		}
	}
}

func (f *FixtureStore) invalidate() {
	f.mu.Lock()
	f.cache = make(map[string]string)
	f.mu.Unlock()
}

// Load 读取指定命令的 fixture 回显
// 先查原命令名，再查空格替换为下划线的名称
// cache 字段仅允许在持锁状态下访问（invalidate 会整体替换该 map）
func (f *FixtureStore) Load(ns, deviceName, cmd string) (string, bool) {
	key := ns + "/" + deviceName + "/" + cmd

	f.mu.RLock()
	out, ok := f.cache[key]
	f.mu.RUnlock()
	if ok {
		return out, true
	}

	base := filepath.Join(f.root, ns, deviceName)
	candidates := []string{
		filepath.Join(base, fmt.Sprintf("%s.txt", cmd)),
		filepath.Join(base, fmt.Sprintf("%s.txt", strings.ReplaceAll(cmd, " ", "_"))),
	}
	for _, p := range candidates {
		bs, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		// 设备导出文件可能是 GBK/Big5 编码，统一转为 UTF-8
		out := util.EnsureUTF8Bytes(bs)
		f.mu.Lock()
		if f.cache == nil {
			f.cache = make(map[string]string)
		}
		f.cache[key] = out
		f.mu.Unlock()
		return out, true
	}
	return "", false
}

// Close 停止监听
func (f *FixtureStore) Close() {
	if f.watcher != nil {
		close(f.done)
		_ = f.watcher.Close()
	}
}
