package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/netmockpro/netmockpro/api/router"
	"github.com/netmockpro/netmockpro/internal/config"
	"github.com/netmockpro/netmockpro/internal/database"
	"github.com/netmockpro/netmockpro/internal/service"
	"github.com/netmockpro/netmockpro/pkg/logger"
	"github.com/netmockpro/netmockpro/simulate"
)

func main() {
	// 加载配置
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	displayBanner()
	logger.Info("Starting NetMock Pro Server", "version", "1.0.0")

	// 初始化数据库
	if err := database.InitSQLite(cfg.Database.SQLite); err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer database.Close()

	// 归档服务
	archiveService := service.NewArchiveService(cfg)

	// 启动模拟 SSH 服务（可选）
	var simMgr *simulate.Manager
	if cfg.Server.SimulateEnable {
		simPath := cfg.Simulate.ConfigPath
		if _, err := os.Stat(simPath); err != nil {
			logger.Warn("Simulate: simulate.yaml missing, skip starting simulate servers", "path", simPath, "error", err)
		} else {
			sc, err := simulate.LoadConfig(simPath)
			if err != nil {
				logger.Warn("Simulate: failed to load simulate.yaml", "error", err)
			} else {
				mgr, err := simulate.Start(sc, cfg.Simulate.FixturesDir)
				if err != nil {
					logger.Warn("Simulate: failed to start", "error", err)
				} else {
					simMgr = mgr
					logger.Info("Simulate: started", "namespaces", len(sc.Namespace))
				}
			}
		}
	}
	defer func() {
		if simMgr != nil {
			simMgr.Stop()
		}
	}()

	// 设置路由
	r := router.SetupRouter(cfg.Server.Mode, archiveService)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           cfg.GetServerAddr(),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// HTTP 服务
	g.Go(func() error {
		logger.Info("Server starting", "addr", server.Addr, "mode", cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 收到退出信号后优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	// 配置文件监听与热更新（仅日志配置）
	g.Go(func() error {
		watchConfig(gctx, "configs/config.yaml")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server exited with error", "error", err)
	}
	logger.Info("Server exited")
}

// watchConfig 监听配置文件变更，热更新日志配置
// 其余配置项启动时已被各服务持有，不做原地覆盖，修改后需重启生效
func watchConfig(ctx context.Context, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("Config watch init failed", "error", err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		logger.Warn("Config watch add failed", "error", err)
		return
	}

	var debounce *time.Timer
	debounceInterval := 300 * time.Millisecond
	trigger := func() {
		if err := reloadLogging(path); err != nil {
			logger.Warn("Config reload failed", "error", err)
			return
		}
		logger.Info("Config reloaded")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceInterval, trigger)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watch error", "error", err)
		}
	}
}

// reloadLogging 重新读取配置文件并刷新日志设置
func reloadLogging(path string) error {
	newCfg, err := config.Load(path)
	if err != nil {
		return err
	}
	return logger.Init(logger.Config{
		Level:      newCfg.Log.Level,
		Format:     newCfg.Log.Format,
		Output:     newCfg.Log.Output,
		FilePath:   newCfg.Log.FilePath,
		MaxSize:    newCfg.Log.MaxSize,
		MaxBackups: newCfg.Log.MaxBackups,
		MaxAge:     newCfg.Log.MaxAge,
		Compress:   newCfg.Log.Compress,
	})
}

func displayBanner() {
	banner := `
  _   _      _   __  __            _      ____
 | \ | | ___| |_|  \/  | ___   ___| | __ |  _ \ _ __ ___
 |  \| |/ _ \ __| |\/| |/ _ \ / __| |/ / | |_) | '__/ _ \
 | |\  |  __/ |_| |  | | (_) | (__|   <  |  __/| | | (_) |
 |_| \_|\___|\__|_|  |_|\___/ \___|_|\_\ |_|   |_|  \___/
`
	color.Cyan(banner)
	color.Yellow("  Mock network device response server v1.0.0\n\n")
}
