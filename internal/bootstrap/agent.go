package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/yuqie6/LearnPulse/internal/pkg/config"
)

// AgentRuntime Agent 二进制的运行时：核心依赖 + 后台任务
type AgentRuntime struct {
	*Core
}

// NewAgentRuntime 构建运行时并启动配置监听与定时刷新
func NewAgentRuntime(ctx context.Context, cfgPath string) (*AgentRuntime, error) {
	core, err := NewCore(cfgPath)
	if err != nil {
		return nil, err
	}
	rt := &AgentRuntime{Core: core}

	if core.DB != nil && core.DB.SafeMode {
		// 安全模式：只提供 /health 与 /api/status 诊断，不启动后台写库任务
		return rt, nil
	}

	if cfgPath != "" {
		if err := config.Watch(ctx, cfgPath, rt.ApplyConfig); err != nil {
			slog.Warn("配置热更新不可用", "error", err)
		}
	}

	if mins := core.Cfg.Insights.RefreshIntervalMin; mins > 0 && core.Cfg.App.DefaultUser != "" {
		user := core.Cfg.App.DefaultUser
		go runPeriodic(ctx, time.Duration(mins)*time.Minute, func() {
			refreshInsights(ctx, rt.Core, user)
		})
	}

	return rt, nil
}

// ApplyConfig 热更新洞察参数；存储与监听地址需重启生效
func (rt *AgentRuntime) ApplyConfig(cfg *config.Config) {
	if rt == nil || cfg == nil {
		return
	}
	rt.Services.Dashboard.UpdateOptions(DashboardOptions(cfg))
}

// runPeriodic 定时执行函数
func runPeriodic(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func refreshInsights(ctx context.Context, core *Core, userID string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := core.Services.Dashboard.RefreshInsights(ctx, userID); err != nil {
		slog.Warn("定时刷新洞察失败", "user_id", userID, "error", err)
	}
}
