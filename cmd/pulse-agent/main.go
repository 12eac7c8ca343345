package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuqie6/LearnPulse/internal/bootstrap"
	"github.com/yuqie6/LearnPulse/internal/httpapi"
	"github.com/yuqie6/LearnPulse/internal/pkg/buildinfo"
	"github.com/yuqie6/LearnPulse/internal/pkg/config"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "c", "", "配置文件路径（默认为可执行文件目录下 config/config.yaml）")
	flag.Parse()

	if cfgPath == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			cfgPath = p
		}
	}
	// 首次启动写出默认配置，便于用户修改阈值后热更新
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
			_ = config.WriteFile(cfgPath, config.Default())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.NewAgentRuntime(ctx, cfgPath)
	if err != nil {
		slog.Error("启动 Agent 失败", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	slog.Info("LearnPulse Agent 启动中...", "name", rt.Cfg.App.Name, "version", rt.Cfg.App.Version, "build", buildinfo.Version)

	server, err := httpapi.Start(ctx, rt.Core, httpapi.Options{ListenAddr: rt.Cfg.Server.ListenAddr})
	if err != nil {
		slog.Error("启动本地 API 失败", "error", err)
		os.Exit(1)
	}
	slog.Info("LearnPulse Agent 已启动", "base_url", server.BaseURL())

	<-ctx.Done()
	slog.Info("正在关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = server.Shutdown(shutdownCtx)
	cancel()

	slog.Info("LearnPulse Agent 已退出")
}
