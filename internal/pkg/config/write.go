package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath 可执行文件目录下的 config/config.yaml
func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "config", "config.yaml"), nil
}

// WriteFile 以 yaml 写出配置
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":         cfg.App.Name,
			"version":      cfg.App.Version,
			"log_level":    cfg.App.LogLevel,
			"log_path":     cfg.App.LogPath,
			"default_user": cfg.App.DefaultUser,
		},
		"storage": map[string]any{
			"db_path": cfg.Storage.DBPath,
		},
		"server": map[string]any{
			"listen_addr":     cfg.Server.ListenAddr,
			"allowed_origins": cfg.Server.AllowedOrigins,
		},
		"insights": map[string]any{
			"streak_achievement_days": cfg.Insights.StreakAchievementDays,
			"weak_skill_level":        cfg.Insights.WeakSkillLevel,
			"milestone_step":          cfg.Insights.MilestoneStep,
			"low_consistency_rate":    cfg.Insights.LowConsistencyRate,
			"consistency_window_days": cfg.Insights.ConsistencyWindowDays,
			"top_skills":              cfg.Insights.TopSkills,
			"refresh_interval_min":    cfg.Insights.RefreshIntervalMin,
			"cache_size":              cfg.Insights.CacheSize,
			"cache_ttl_sec":           cfg.Insights.CacheTTLSec,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
