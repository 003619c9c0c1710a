package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults 缺省项由默认值补齐
func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.False(t, cfg.Server.SimulateEnable, "模拟服务默认关闭")
	assert.Equal(t, "local", cfg.Archive.StorageBackend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Database.SQLite.ConnMaxLifetime)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
}

// TestLoadFull 完整配置覆盖默认值
func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `server:
  host: 127.0.0.1
  port: 8088
  simulate_enable: true
archive:
  storage_backend: minio
  minio:
    host: minio.local
    port: 9000
    bucket: netmock
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Server.SimulateEnable)
	assert.Equal(t, "minio", cfg.Archive.StorageBackend)
	assert.Equal(t, "minio.local", cfg.Archive.Minio.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Same(t, cfg, Get(), "Load 应更新全局配置")
}
