package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmockpro/netmockpro/internal/config"
)

// TestReportFilename 文件名格式：ip_命令下划线_时间戳.txt
func TestReportFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	got := ReportFilename("192.168.1.1", "show version", now)
	assert.Equal(t, "192.168.1.1_show_version_20250314_150926.txt", got)

	got = ReportFilename("10.0.0.1", "show running-config", now)
	assert.Equal(t, "10.0.0.1_show_running-config_20250314_150926.txt", got)
}

// TestSaveLocal 本地归档内容与输入完全一致
func TestSaveLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Archive.StorageBackend = "local"
	cfg.Archive.Local.BaseDir = dir

	s := NewArchiveService(cfg)
	content := "Cisco IOS XE Software, Version 17.3.4a\nConfiguration register is 0x2102"
	rep, err := s.Save(context.Background(), "1.1.1.1", "show version", content, "")
	require.NoError(t, err)

	assert.Equal(t, "local", rep.Backend)
	assert.Equal(t, int64(len(content)), rep.Size)
	assert.NotEmpty(t, rep.Checksum)

	bs, err := os.ReadFile(rep.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(bs), "归档文件内容应与回显完全一致")
}

// TestSaveLocalUnwritable 目录不可写时返回错误而非崩溃
func TestSaveLocalUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root 不受目录权限限制")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	cfg := &config.Config{}
	cfg.Archive.StorageBackend = "local"
	cfg.Archive.Local.BaseDir = dir

	s := NewArchiveService(cfg)
	_, err := s.Save(context.Background(), "1.1.1.1", "show version", "output", "")
	assert.Error(t, err)
}

// TestSaveMinioFallback MinIO 未配置时回退本地
func TestSaveMinioFallback(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Archive.StorageBackend = "minio"
	cfg.Archive.Local.BaseDir = dir

	s := NewArchiveService(cfg)
	rep, err := s.Save(context.Background(), "1.1.1.1", "show version", "output", "")
	require.NoError(t, err)
	assert.Equal(t, "local", rep.Backend, "MinIO 不可用时应回退本地")
}
