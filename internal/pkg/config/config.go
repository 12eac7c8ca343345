package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Insights InsightsConfig `mapstructure:"insights"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
	LogPath     string `mapstructure:"log_path"`
	DefaultUser string `mapstructure:"default_user"` // 请求未携带 user_id 时使用
}

// StorageConfig 存储配置
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// ServerConfig 本地 HTTP 配置
type ServerConfig struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // 浏览器前端跨域来源
}

// InsightsConfig 洞察规则与汇总参数
type InsightsConfig struct {
	StreakAchievementDays int `mapstructure:"streak_achievement_days"`
	WeakSkillLevel        int `mapstructure:"weak_skill_level"`
	MilestoneStep         int `mapstructure:"milestone_step"`
	LowConsistencyRate    int `mapstructure:"low_consistency_rate"`
	ConsistencyWindowDays int `mapstructure:"consistency_window_days"`
	TopSkills             int `mapstructure:"top_skills"`
	RefreshIntervalMin    int `mapstructure:"refresh_interval_min"` // Agent 定时刷新默认用户洞察，0 关闭
	CacheSize             int `mapstructure:"cache_size"`           // 仪表盘缓存条目数，0 关闭缓存
	CacheTTLSec           int `mapstructure:"cache_ttl_sec"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 支持环境变量，例如 PULSE_STORAGE_DB_PATH
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			slog.Warn("配置文件未找到，使用默认配置", "path", configPath)
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		slog.Info("加载配置文件", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.Storage.DBPath = resolvePath(cfg.Storage.DBPath)
	cfg.App.LogPath = resolvePath(cfg.App.LogPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回全部默认值构成的配置（用于首次生成配置文件）
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	ins := c.Insights
	if ins.ConsistencyWindowDays <= 0 {
		return fmt.Errorf("insights.consistency_window_days 必须 >= 1，实际 %d", ins.ConsistencyWindowDays)
	}
	if ins.WeakSkillLevel < 0 || ins.WeakSkillLevel > 100 {
		return fmt.Errorf("insights.weak_skill_level 必须在 0-100，实际 %d", ins.WeakSkillLevel)
	}
	if ins.LowConsistencyRate < 0 || ins.LowConsistencyRate > 100 {
		return fmt.Errorf("insights.low_consistency_rate 必须在 0-100，实际 %d", ins.LowConsistencyRate)
	}
	if ins.MilestoneStep < 0 || ins.StreakAchievementDays < 0 || ins.RefreshIntervalMin < 0 || ins.CacheSize < 0 || ins.CacheTTLSec < 0 {
		return fmt.Errorf("insights 阈值不能为负")
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "learnpulse")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_path", "")
	v.SetDefault("app.default_user", "demo_user")

	// Storage
	v.SetDefault("storage.db_path", "./data/pulse.db")

	// Server
	v.SetDefault("server.listen_addr", "127.0.0.1:8787")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	// Insights
	v.SetDefault("insights.streak_achievement_days", 7)
	v.SetDefault("insights.weak_skill_level", 75)
	v.SetDefault("insights.milestone_step", 50)
	v.SetDefault("insights.low_consistency_rate", 50)
	v.SetDefault("insights.consistency_window_days", 30)
	v.SetDefault("insights.top_skills", 6)
	v.SetDefault("insights.refresh_interval_min", 60)
	v.SetDefault("insights.cache_size", 256)
	v.SetDefault("insights.cache_ttl_sec", 30)
}

// resolvePath 相对路径以可执行文件目录为基准；空串与内存库保持原样
func resolvePath(path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}

	exe, err := os.Executable()
	if err != nil {
		return path
	}
	return filepath.Join(filepath.Dir(exe), path)
}

// LoggerOptions 日志配置
type LoggerOptions struct {
	Level     string
	Path      string // 为空时只输出到 stdout
	Component string
}

// SetupLogger 根据配置设置默认 slog；写文件时返回需要关闭的句柄
func SetupLogger(opts LoggerOptions) (io.Closer, error) {
	var logLevel slog.Level
	switch strings.ToLower(opts.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: logLevel}))
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}
	slog.SetDefault(logger)
	return closer, nil
}
