package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Simulate SimulateConfig `mapstructure:"simulate"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	SimulateEnable bool          `mapstructure:"simulate_enable"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// SQLiteConfig SQLite配置
type SQLiteConfig struct {
	Path            string        `mapstructure:"path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ArchiveConfig 回显归档配置
type ArchiveConfig struct {
	// StorageBackend 默认存储后端：local | minio
	StorageBackend string             `mapstructure:"storage_backend"`
	Local          LocalArchiveConfig `mapstructure:"local"`
	Minio          MinioConfig        `mapstructure:"minio"`
}

// LocalArchiveConfig 本地归档配置
type LocalArchiveConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// MinioConfig 对象存储配置
type MinioConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Secure    bool   `mapstructure:"secure"`
}

// SimulateConfig 模拟服务配置
type SimulateConfig struct {
	// ConfigPath 命名空间/设备类型定义文件
	ConfigPath string `mapstructure:"config_path"`
	// FixturesDir 回显覆盖文件根目录（simulate/namespace/<ns>/<device>/<cmd>.txt）
	FixturesDir string `mapstructure:"fixtures_dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	// 设置默认值
	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// 默认配置文件路径
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	// 设置环境变量前缀
	viper.SetEnvPrefix("NETMOCK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	// 模拟 SSH 服务开关默认关闭
	viper.SetDefault("server.simulate_enable", false)

	viper.SetDefault("database.sqlite.path", "./data/netmock.db")
	viper.SetDefault("database.sqlite.max_idle_conns", 1)
	viper.SetDefault("database.sqlite.max_open_conns", 1)
	viper.SetDefault("database.sqlite.conn_max_lifetime", time.Hour)

	// 归档默认写本地目录
	viper.SetDefault("archive.storage_backend", "local")
	viper.SetDefault("archive.local.base_dir", "./data/reports")
	viper.SetDefault("archive.minio.prefix", "reports")

	viper.SetDefault("simulate.config_path", "simulate/simulate.yaml")
	viper.SetDefault("simulate.fixtures_dir", "simulate/namespace")

	// 日志默认级别为 info（可通过 log.level 覆盖为 debug/warn/error 等）
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("log.file_path", "./logs/netmock.log")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
}

// Get 获取全局配置
func Get() *Config {
	return globalConfig
}

// GetServerAddr 获取服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
