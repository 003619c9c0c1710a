package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmockpro/netmockpro/pkg/logger"
)

// TestReloadLogging 配置变更只刷新日志设置，不覆盖运行中服务持有的配置
func TestReloadLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `log:
  level: debug
  output: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	require.NoError(t, reloadLogging(path))
	assert.Equal(t, logrus.DebugLevel, logger.GetLogger().GetLevel())

	yaml = `log:
  level: warn
  output: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	require.NoError(t, reloadLogging(path))
	assert.Equal(t, logrus.WarnLevel, logger.GetLogger().GetLevel())
}

// TestReloadLoggingMissingFile 配置文件不可读时返回错误且不影响现有日志器
func TestReloadLoggingMissingFile(t *testing.T) {
	err := reloadLogging(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
