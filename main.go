package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	adapterconfig "http-logger/adapter/config"
	adapterhttp "http-logger/adapter/http"
	"http-logger/adapter/http/middleware"
	adapterlogging "http-logger/adapter/logging"
	"http-logger/domain/port"
	"http-logger/infrastructure/config"
	infrahttp "http-logger/infrastructure/http"
	"http-logger/infrastructure/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本信息")
	flag.BoolVar(showVersion, "v", false, "显示版本信息（简写）")
	flag.Parse()

	if *showVersion {
		fmt.Printf("HTTP Logger %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		os.Exit(0)
	}

	configMgr, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	cfg := configMgr.Get()
	if err := logging.Init(cfg); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logging.Shutdown()

	configMgr.OnReload(func(c *config.Config) {
		logging.ApplyLevels(&c.Logging)
	})

	logger := adapterlogging.NewZapLoggerAdapter(logging.GeneralLogger)
	httpLog, handler, err := buildHandler(cfg, logger, adapterlogging.NewZapHTTPLogSink(logging.HTTPLogger), demoAccount())
	if err != nil {
		logger.Error("初始化 HTTP 日志中间件失败", port.Error(err))
		logging.Shutdown()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := adapterconfig.NewConfigAdapter(configMgr)
	go httpLog.WatchConfig(ctx, provider)
	defer configMgr.StopWatch()

	server := infrahttp.NewServer(infrahttp.ServerConfig{
		Addr:         cfg.GetListen(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
		IdleTimeout:  cfg.Server.GetIdleTimeout(),
	}, logger)

	logger.Info("HTTP Logger 启动",
		port.String("version", Version),
		port.String("listen", cfg.GetListen()),
		port.Bool("http_logging", httpLog.Enabled()),
		port.String("style", cfg.HTTPLogging.GetStyle()),
	)

	if err := server.Start(); err != nil {
		logger.Error("服务器启动失败", port.Error(err))
		logging.Shutdown()
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
		logger.Info("收到退出信号，开始优雅关闭")
	case err := <-server.Errors():
		if err != nil {
			logger.Error("服务器异常退出", port.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("优雅关闭超时", port.Error(err))
	}
	logger.Info("服务已停止")
}

// buildHandler 组装处理链：HTTP 日志 → panic 恢复 → 路由
func buildHandler(cfg *config.Config, logger port.Logger, sink port.HTTPLogSink, account adapterhttp.Credentials) (*middleware.HTTPLogging, http.Handler, error) {
	httpLog, err := middleware.NewHTTPLogging(adapterconfig.ToHTTPLoggingConfig(&cfg.HTTPLogging), sink, logger)
	if err != nil {
		return nil, nil, err
	}

	router := adapterhttp.NewRouter(
		adapterhttp.NewHealthHandler(httpLog, logger),
		adapterhttp.NewLoginHandler(account, logger),
		adapterhttp.NewEchoHandler(),
	)
	recovery := adapterhttp.NewRecoveryMiddleware(logger)
	return httpLog, httpLog.Middleware(recovery.Middleware(router)), nil
}

// demoAccount 从环境变量读取演示账号
func demoAccount() adapterhttp.Credentials {
	account := adapterhttp.Credentials{Username: "admin", Password: "admin123"}
	if v := os.Getenv("HTTP_LOGGER_USER"); v != "" {
		account.Username = v
	}
	if v := os.Getenv("HTTP_LOGGER_PASSWORD"); v != "" {
		account.Password = v
	}
	return account
}
