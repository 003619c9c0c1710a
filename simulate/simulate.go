package simulate

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	mrand "math/rand"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/ssh"
	"gorm.io/gorm"

	"github.com/netmockpro/netmockpro/addone/mock"
	"github.com/netmockpro/netmockpro/internal/database"
	"github.com/netmockpro/netmockpro/internal/model"
	"github.com/netmockpro/netmockpro/pkg/logger"
)

// simulate.yaml 配置结构
type Config struct {
	Namespace  map[string]NamespaceConfig  `mapstructure:"namespace"`
	DeviceType map[string]DeviceTypeConfig `mapstructure:"device_type"`
	DeviceName map[string]DeviceNameConfig `mapstructure:"device_name"`
}

type NamespaceConfig struct {
	Port        int `mapstructure:"port"`
	IdleSeconds int `mapstructure:"idle_seconds"`
	MaxConn     int `mapstructure:"max_conn"`
}

type DeviceTypeConfig struct {
	PromptSuffix       string `mapstructure:"prompt_suffix"`
	EnableModeRequired bool   `mapstructure:"enable_mode_required"`
	EnableModeSuffix   string `mapstructure:"enable_mode_suffix"`
}

type DeviceNameConfig struct {
	DeviceType string `mapstructure:"device_type"`
}

// Manager 管理多个 namespace 的 SSH 模拟服务
// 每个 namespace 在独立端口运行，互不影响
// 通过用户名选择设备名称，匹配到设备类型与提示符
// 回显解析顺序：数据库自定义命令 -> fixture 文件 -> 内置生成器 -> 固定错误文案

type Manager struct {
	cfg       *Config
	fixtures  *FixtureStore
	nsServers map[string]*namespaceServer
	mu        sync.Mutex
	cancel    context.CancelFunc
}

type namespaceServer struct {
	nsName   string
	cfg      NamespaceConfig
	simCfg   *Config
	fixtures *FixtureStore
	listener net.Listener
	hostKey  ssh.Signer
	active   int
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// LoadConfig 读取 simulate.yaml
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read simulate config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulate config: %w", err)
	}
	return &cfg, nil
}

// EnsureDirs 启动时根据 namespace 与 device_name 自动创建 fixture 目录结构
// <fixturesDir>/<ns>/<device_name>
func EnsureDirs(simCfg *Config, fixturesDir string) error {
	if err := os.MkdirAll(fixturesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}
	for ns := range simCfg.Namespace {
		for dev := range simCfg.DeviceName {
			dir := filepath.Join(fixturesDir, ns, dev)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", dir, err)
			}
		}
	}
	return nil
}

// Start 启动所有 namespace 的 SSH 模拟服务
func Start(simCfg *Config, fixturesDir string) (*Manager, error) {
	_, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:       simCfg,
		nsServers: make(map[string]*namespaceServer),
		cancel:    cancel,
	}

	// 准备目录结构与 fixture 缓存
	if err := EnsureDirs(simCfg, fixturesDir); err != nil {
		logger.Error("Simulate: ensure dirs failed", "error", err)
		cancel()
		return nil, err
	}
	fs, err := NewFixtureStore(fixturesDir)
	if err != nil {
		logger.Warn("Simulate: fixture watcher init failed, falling back to direct reads", "error", err)
		fs = &FixtureStore{root: fixturesDir, cache: make(map[string]string)}
	}
	m.fixtures = fs

	// 按 namespace 启动 SSH server
	for ns, nsCfg := range simCfg.Namespace {
		srv, err := newNamespaceServer(ns, nsCfg, simCfg, fs, fixturesDir)
		if err != nil {
			logger.Error("Simulate: init namespace server failed", "namespace", ns, "error", err)
			continue
		}
		if err := srv.start(); err != nil {
			logger.Error("Simulate: start namespace server failed", "namespace", ns, "port", nsCfg.Port, "error", err)
			continue
		}
		m.nsServers[ns] = srv
		logger.Info("Simulate: namespace server started", "namespace", ns, "port", nsCfg.Port)
	}

	return m, nil
}

// Stop 停止所有模拟服务
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	if m.fixtures != nil {
		m.fixtures.Close()
	}
	for ns, srv := range m.nsServers {
		srv.stop()
		logger.Info("Simulate: namespace server stopped", "namespace", ns)
	}
}

func newNamespaceServer(nsName string, nsCfg NamespaceConfig, simCfg *Config, fs *FixtureStore, fixturesDir string) (*namespaceServer, error) {
	// 按 fixtures 根目录持久化 host key，避免客户端指纹频繁变化
	signer, err := loadOrCreateHostKey(filepath.Dir(fixturesDir))
	if err != nil {
		return nil, fmt.Errorf("failed to init host key: %w", err)
	}

	logger.Debug("Simulate: new namespace server", "namespace", nsName, "port", nsCfg.Port)
	return &namespaceServer{
		nsName:   nsName,
		cfg:      nsCfg,
		simCfg:   simCfg,
		fixtures: fs,
		hostKey:  signer,
	}, nil
}

// loadOrCreateHostKey 加载或生成持久化的 host key（RSA 2048）
func loadOrCreateHostKey(keyDir string) (ssh.Signer, error) {
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure key dir: %w", err)
	}
	keyPath := filepath.Join(keyDir, "_hostkey_rsa.pem")

	if bs, err := os.ReadFile(keyPath); err == nil {
		signer, err := ssh.ParsePrivateKey(bs)
		if err == nil {
			logger.Debug("Simulate: host key loaded", "file", keyPath)
			return signer, nil
		}
		logger.Warn("Simulate: host key parse failed, regenerating", "error", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate host key: %w", err)
	}
	privDER := x509.MarshalPKCS1PrivateKey(key)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privDER})
	if writeErr := os.WriteFile(keyPath, pemBytes, 0o600); writeErr != nil {
		return nil, fmt.Errorf("failed to write host key: %w", writeErr)
	}
	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated host key: %w", err)
	}
	logger.Info("Simulate: host key generated", "file", keyPath)
	return signer, nil
}

func (s *namespaceServer) start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	s.listener = ln
	logger.Debug("Simulate: listener started", "namespace", s.nsName, "port", s.cfg.Port)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					logger.Warn("Simulate: accept timeout", "error", err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				// listener closed
				return
			}
			logger.Debug("Simulate: accept connection", "namespace", s.nsName, "remote", conn.RemoteAddr().String())
			// 并发限制
			s.mu.Lock()
			if s.cfg.MaxConn > 0 && s.active >= s.cfg.MaxConn {
				s.mu.Unlock()
				_ = conn.Close()
				logger.Warn("Simulate: reject connection, max_conn exceeded", "namespace", s.nsName)
				continue
			}
			s.active++
			s.mu.Unlock()

			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.handleConn(c)
				s.mu.Lock()
				s.active--
				s.mu.Unlock()
			}(conn)
		}
	}()

	return nil
}

func (s *namespaceServer) stop() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
}

func (s *namespaceServer) handleConn(nc net.Conn) {
	// 构造 SSH ServerConfig：允许任意用户名（作为设备名），密码统一为 netmock
	logger.Debug("Simulate: handshake start", "namespace", s.nsName, "remote", nc.RemoteAddr().String())
	srvCfg := &ssh.ServerConfig{
		PasswordCallback: func(connMetadata ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			user := strings.TrimSpace(connMetadata.User())
			pass := strings.TrimSpace(string(password))
			if pass == "netmock" {
				logger.Debug("Simulate: auth success (password)", "user", user)
				return nil, nil
			}
			logger.Debug("Simulate: auth failed (password)", "user", user)
			return nil, fmt.Errorf("access denied")
		},
		KeyboardInteractiveCallback: func(connMetadata ssh.ConnMetadata, challenge ssh.KeyboardInteractiveChallenge) (*ssh.Permissions, error) {
			// 兼容部分客户端默认使用 keyboard-interactive 的情况
			answers, err := challenge(connMetadata.User(), "Authentication", []string{"Password:"}, []bool{false})
			if err != nil {
				return nil, err
			}
			if len(answers) > 0 && strings.TrimSpace(answers[0]) == "netmock" {
				logger.Debug("Simulate: auth success (keyboard-interactive)", "user", connMetadata.User())
				return nil, nil
			}
			logger.Debug("Simulate: auth failed (keyboard-interactive)", "user", connMetadata.User())
			return nil, fmt.Errorf("access denied")
		},
	}
	srvCfg.AddHostKey(s.hostKey)

	// 完成握手
	conn, chans, reqs, err := ssh.NewServerConn(nc, srvCfg)
	if err != nil {
		logger.Error("Simulate: SSH handshake failed", "namespace", s.nsName, "remote", nc.RemoteAddr().String(), "error", err)
		_ = nc.Close()
		return
	}
	logger.Debug("Simulate: handshake success", "namespace", s.nsName, "user", conn.User(), "remote", nc.RemoteAddr().String())
	defer conn.Close()

	// 丢弃全局请求
	go ssh.DiscardRequests(reqs)

	// 处理会话通道
	for ch := range chans {
		if ch.ChannelType() != "session" {
			ch.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := ch.Accept()
		if err != nil {
			logger.Error("Simulate: channel accept failed", "error", err)
			continue
		}

		// 设备名称使用用户名
		deviceName := conn.User()
		devType := s.resolveDeviceType(deviceName)

		logger.Debug("Simulate: device resolved", "device", deviceName, "prompt_suffix", devType.PromptSuffix)
		// 处理请求（pty-req / shell / exec）
		go s.handleSession(channel, requests, deviceName, devType)
	}
}

func (s *namespaceServer) resolveDeviceType(deviceName string) DeviceTypeConfig {
	// 根据 device_name 映射到设备类型，否则返回一个通用默认
	if dn, ok := s.simCfg.DeviceName[deviceName]; ok {
		if dt, ok := s.simCfg.DeviceType[dn.DeviceType]; ok {
			return dt
		}
	}
	// 默认提示符后缀">"
	return DeviceTypeConfig{PromptSuffix: ">", EnableModeRequired: false, EnableModeSuffix: "#"}
}

func (s *namespaceServer) handleSession(channel ssh.Channel, requests <-chan *ssh.Request, deviceName string, devType DeviceTypeConfig) {
	defer channel.Close()

	// 每个会话独立随机源，内置生成器使用
	rng := mock.NewRand()

	var ptyReady bool
	for req := range requests {
		switch req.Type {
		case "pty-req":
			ptyReady = true
			req.Reply(true, nil)
		case "shell":
			req.Reply(true, nil)
			logger.Debug("Simulate: shell start", "device", deviceName)
			s.runInteractiveShell(channel, rng, deviceName, devType)
			return
		case "exec":
			// 执行单条命令并返回结果
			cmd := extractCommandFromPayload(string(req.Payload))
			logger.Debug("Simulate: exec cmd", "device", deviceName, "cmd", cmd)
			out := s.resolveOutput(rng, deviceName, cmd)
			channel.Write([]byte(out))
			if ptyReady {
				channel.Write([]byte(fmt.Sprintf("%s%s\r\n", deviceName, devType.PromptSuffix)))
			}
			req.Reply(true, nil)
			return
		default:
			req.Reply(false, nil)
			logger.Debug("Simulate: unknown request", "type", req.Type)
		}
	}
}

// errIdleTimeout 标记会话空闲超时
var errIdleTimeout = errors.New("session idle timeout")

type lineResult struct {
	line string
	err  error
}

func (s *namespaceServer) runInteractiveShell(channel ssh.Channel, rng *mrand.Rand, deviceName string, devType DeviceTypeConfig) {
	// 初始提示符
	currentSuffix := devType.PromptSuffix
	printPrompt := func() {
		channel.Write([]byte(fmt.Sprintf("%s%s\r\n", deviceName, currentSuffix)))
	}
	printPrompt()

	// 输入由独立 goroutine 读取，idle 超时在客户端静默阻塞期间也能触发
	reader := bufio.NewReader(channel)
	lines := make(chan lineResult)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	idle := time.Duration(s.cfg.IdleSeconds) * time.Second
	var idleTimer *time.Timer
	var idleCh <-chan time.Time
	if idle > 0 {
		idleTimer = time.NewTimer(idle)
		defer idleTimer.Stop()
		idleCh = idleTimer.C
	}

	// readLine 等待下一行输入，任何输入都重置 idle 计时
	readLine := func() (string, error) {
		select {
		case r := <-lines:
			if r.err == nil && idleTimer != nil {
				if !idleTimer.Stop() {
					select {
					case <-idleTimer.C:
					default:
					}
				}
				idleTimer.Reset(idle)
			}
			return r.line, r.err
		case <-idleCh:
			return "", errIdleTimeout
		}
	}

	for {
		line, err := readLine()
		if err != nil {
			if errors.Is(err, errIdleTimeout) {
				channel.Write([]byte("\r\nSession closed due to idle timeout.\r\n"))
				logger.Debug("Simulate: session idle timeout", "device", deviceName)
				return
			}
			if errors.Is(err, io.EOF) {
				logger.Debug("Simulate: session EOF", "device", deviceName)
				return
			}
			logger.Debug("Simulate: session read error", "device", deviceName, "error", err)
			return
		}

		cmd := strings.TrimSpace(cleanNewlines(line))
		logger.Debug("Simulate: input", "device", deviceName, "cmd", cmd)
		if cmd == "" {
			// 无命令输入，显示新的一行
			channel.Write([]byte("\r\n"))
			printPrompt()
			continue
		}

		// 处理退出
		if equalAny(cmd, "exit", "quit") {
			channel.Write([]byte("\r\n"))
			logger.Debug("Simulate: session exit", "device", deviceName)
			return
		}

		// 处理 enable：统一要求提权密码为 netmock
		if devType.EnableModeRequired && strings.EqualFold(cmd, "enable") {
			channel.Write([]byte("Password:\r\n"))
			pwd, perr := readLine()
			if perr != nil {
				if errors.Is(perr, errIdleTimeout) {
					channel.Write([]byte("\r\nSession closed due to idle timeout.\r\n"))
					logger.Debug("Simulate: session idle timeout", "device", deviceName)
				}
				return
			}
			if strings.TrimSpace(cleanNewlines(pwd)) != "netmock" {
				channel.Write([]byte("Bad secrets\r\n"))
				printPrompt()
				continue
			}
			currentSuffix = chooseNonEmpty(devType.EnableModeSuffix, "#")
			logger.Debug("Simulate: enable success", "device", deviceName, "suffix", currentSuffix)
			printPrompt()
			continue
		}

		channel.Write([]byte(s.resolveOutput(rng, deviceName, cmd)))
		printPrompt()
	}
}

// resolveOutput 解析命令回显：数据库自定义 -> fixture 文件 -> 内置生成器 -> 固定错误文案
// 输出统一按 CRLF 标准化
func (s *namespaceServer) resolveOutput(rng *mrand.Rand, deviceName, cmd string) string {
	if out, ok := s.lookupCustom(deviceName, cmd); ok {
		logger.Debug("Simulate: output from db", "device", deviceName, "cmd", cmd)
		return ensureCRLF(out)
	}
	if out, ok := s.fixtures.Load(s.nsName, deviceName, cmd); ok {
		logger.Debug("Simulate: output from fixture", "device", deviceName, "cmd", cmd)
		return ensureCRLF(out)
	}
	if g, ok := mock.Get(cmd); ok {
		logger.Debug("Simulate: output from generator", "device", deviceName, "cmd", cmd)
		return ensureCRLF(g.Generate(rng))
	}
	logger.Debug("Simulate: command unmatched", "device", deviceName, "cmd", cmd)
	return ensureCRLF(mock.InvalidInput)
}

// lookupCustom 查询数据库自定义命令（数据库未初始化时直接跳过）
func (s *namespaceServer) lookupCustom(deviceName, cmd string) (string, bool) {
	db := database.GetDB()
	if db == nil {
		return "", false
	}
	var mc model.MockCommand
	err := db.Where("namespace = ? AND device_name = ? AND command = ? AND enabled = ?",
		s.nsName, deviceName, cmd, true).First(&mc).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Simulate: custom command lookup failed", "error", err)
		}
		return "", false
	}
	return mc.Output, true
}

// extractCommandFromPayload 尝试从 exec payload 中提取命令字符串
func extractCommandFromPayload(payload string) string {
	// OpenSSH 的 payload 带长度前缀等结构；简化处理：去掉不可见字符取可见部分
	s := strings.TrimSpace(strings.ReplaceAll(payload, "\x00", ""))
	if s == "" {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ensureCRLF 将 \n 规范为 \r\n，并保证结尾有一行结束符
func ensureCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	if !strings.HasSuffix(s, "\r\n") {
		s += "\r\n"
	}
	return s
}

func cleanNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

func equalAny(s string, opts ...string) bool {
	for _, o := range opts {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(o)) {
			return true
		}
	}
	return false
}

func chooseNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
