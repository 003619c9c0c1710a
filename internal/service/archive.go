package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/netmockpro/netmockpro/internal/config"
	"github.com/netmockpro/netmockpro/internal/database"
	"github.com/netmockpro/netmockpro/internal/model"
	"github.com/netmockpro/netmockpro/pkg/logger"
	"gorm.io/gorm"
)

// ArchiveService 负责保存生成的回显文本
// 按配置路由到本地目录或 MinIO；MinIO 不可用时回退本地
type ArchiveService struct {
	cfg    *config.Config
	client *minio.Client
}

// NewArchiveService 创建归档服务（MinIO 客户端按需初始化）
func NewArchiveService(cfg *config.Config) *ArchiveService {
	s := &ArchiveService{cfg: cfg}
	s.client = initMinioClient(cfg)
	return s
}

// initMinioClient 尝试初始化 MinIO 客户端（包含合理的超时设置）
func initMinioClient(cfg *config.Config) *minio.Client {
	host := strings.TrimSpace(cfg.Archive.Minio.Host)
	port := cfg.Archive.Minio.Port
	if host == "" || port <= 0 {
		return nil
	}
	endpoint := fmt.Sprintf("%s:%d", host, port)

	// 自定义传输以提升连接与响应的鲁棒性
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.Archive.Minio.AccessKey, cfg.Archive.Minio.SecretKey, ""),
		Secure:    cfg.Archive.Minio.Secure,
		Transport: transport,
	})
	if err != nil {
		logger.Error("MinIO client initialization failed", "error", err)
		return nil
	}
	return client
}

// Save 保存一条回显，返回归档记录
// backend 为空时使用配置默认值；MinIO 写入失败回退到本地并记录预警
func (s *ArchiveService) Save(ctx context.Context, deviceIP, command, content, backend string) (model.Report, error) {
	be := strings.ToLower(strings.TrimSpace(backend))
	if be == "" {
		be = strings.ToLower(strings.TrimSpace(s.cfg.Archive.StorageBackend))
	}

	var rep model.Report
	var err error
	if be == "minio" {
		rep, err = s.saveMinio(ctx, deviceIP, command, content)
		if err != nil {
			logger.Warn("MinIO write failed; falling back to local", "error", err)
			rep, err = s.saveLocal(deviceIP, command, content)
		}
	} else {
		rep, err = s.saveLocal(deviceIP, command, content)
	}
	if err != nil {
		return model.Report{}, err
	}

	// 数据库未初始化时只写存储，不记录历史
	if database.GetDB() != nil {
		if dbErr := database.WithRetry(func(d *gorm.DB) error { return d.Create(&rep).Error }, 6, 100*time.Millisecond); dbErr != nil {
			logger.Error("Record report failed", "error", dbErr)
		}
	}
	return rep, nil
}

func (s *ArchiveService) saveLocal(deviceIP, command, content string) (model.Report, error) {
	baseDir := strings.TrimSpace(s.cfg.Archive.Local.BaseDir)
	if baseDir == "" {
		baseDir = "./data/reports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return model.Report{}, fmt.Errorf("failed to create archive dir: %w", err)
	}
	p := filepath.Join(baseDir, ReportFilename(deviceIP, command, time.Now()))
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return model.Report{}, fmt.Errorf("failed to write report: %w", err)
	}
	return model.Report{
		DeviceIP: deviceIP,
		Command:  command,
		Backend:  "local",
		Path:     p,
		Size:     int64(len(content)),
		Checksum: checksum(content),
	}, nil
}

func (s *ArchiveService) saveMinio(ctx context.Context, deviceIP, command, content string) (model.Report, error) {
	if s.client == nil {
		return model.Report{}, fmt.Errorf("minio client not initialized")
	}
	bucket := strings.TrimSpace(s.cfg.Archive.Minio.Bucket)
	if bucket == "" {
		return model.Report{}, fmt.Errorf("minio bucket not configured")
	}

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(cctx, bucket)
	if err != nil {
		return model.Report{}, fmt.Errorf("minio bucket check failed: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(cctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return model.Report{}, fmt.Errorf("minio bucket create failed: %w", err)
		}
	}

	object := path.Join(s.cfg.Archive.Minio.Prefix, deviceIP, ReportFilename(deviceIP, command, time.Now()))
	reader := strings.NewReader(content)
	if _, err := s.client.PutObject(cctx, bucket, object, reader, int64(len(content)), minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"}); err != nil {
		return model.Report{}, fmt.Errorf("minio put object failed: %w", err)
	}
	return model.Report{
		DeviceIP: deviceIP,
		Command:  command,
		Backend:  "minio",
		Path:     fmt.Sprintf("minio://%s/%s", bucket, object),
		Size:     int64(len(content)),
		Checksum: checksum(content),
	}, nil
}

// ReportFilename 生成归档文件名：<device_ip>_<命令空格转下划线>_<时间戳>.txt
func ReportFilename(deviceIP, command string, now time.Time) string {
	slug := strings.ReplaceAll(command, " ", "_")
	return fmt.Sprintf("%s_%s_%s.txt", deviceIP, slug, now.Format("20060102_150405"))
}

func checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
