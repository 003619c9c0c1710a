package mock

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Generator{}
)

// Register 注册模拟命令生成器（同名命令后注册者覆盖）
func Register(g Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[g.Command()] = g
}

// Get 获取指定命令的生成器
func Get(command string) (Generator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	g, ok := registry[command]
	return g, ok
}

// Commands 返回已注册命令列表（按字典序）
func Commands() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
