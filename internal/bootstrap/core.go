package bootstrap

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/pkg/config"
	"github.com/yuqie6/LearnPulse/internal/repository"
	"github.com/yuqie6/LearnPulse/internal/service"
)

// Core 持有跨二进制共享的核心依赖
type Core struct {
	Cfg       *config.Config
	CfgPath   string
	DB        *repository.Database
	Hub       *eventbus.Hub
	LogCloser io.Closer

	Repos struct {
		Activity *repository.ActivityRepository
		Skill    *repository.SkillRepository
		Insight  *repository.InsightRepository
	}

	Services struct {
		Activities *service.ActivityService
		Skills     *service.SkillService
		Dashboard  *service.DashboardService
		Seed       *service.SeedService
	}
}

// NewCore 加载配置、初始化日志并构建核心依赖
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logCloser, _ := config.SetupLogger(config.LoggerOptions{
		Level:     cfg.App.LogLevel,
		Path:      cfg.App.LogPath,
		Component: filepath.Base(os.Args[0]),
	})

	c, err := Build(cfg, nil)
	if err != nil {
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, err
	}
	c.CfgPath = cfgPath
	c.LogCloser = logCloser
	return c, nil
}

// Build 根据已加载的配置构建依赖；clock 为空时使用系统时间
func Build(cfg *config.Config, clock service.Clock) (*Core, error) {
	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub()}

	// Repos
	c.Repos.Activity = repository.NewActivityRepository(db.DB)
	c.Repos.Skill = repository.NewSkillRepository(db.DB)
	c.Repos.Insight = repository.NewInsightRepository(db.DB)

	// Services
	c.Services.Activities = service.NewActivityService(c.Repos.Activity, c.Hub, clock)
	c.Services.Skills = service.NewSkillService(c.Repos.Skill, c.Hub)
	c.Services.Dashboard = service.NewDashboardService(
		c.Repos.Activity,
		c.Repos.Skill,
		c.Repos.Insight,
		c.Hub,
		clock,
		DashboardOptions(cfg),
	)
	// 写入后让对应用户的仪表盘缓存失效
	c.Services.Activities.SetOnChanged(c.Services.Dashboard.Invalidate)
	c.Services.Skills.SetOnChanged(c.Services.Dashboard.Invalidate)
	c.Services.Seed = service.NewSeedService(c.Repos.Activity, c.Repos.Skill, clock, service.DefaultSeedValue)

	return c, nil
}

// DashboardOptions 配置 -> 引擎参数
func DashboardOptions(cfg *config.Config) service.DashboardOptions {
	ins := cfg.Insights
	return service.DashboardOptions{
		Engine: analytics.EngineConfig{
			Thresholds: analytics.Thresholds{
				StreakAchievementDays: ins.StreakAchievementDays,
				WeakSkillLevel:        ins.WeakSkillLevel,
				MilestoneStep:         ins.MilestoneStep,
				LowConsistencyRate:    ins.LowConsistencyRate,
			},
			TopSkills: ins.TopSkills,
		},
		WindowDays: ins.ConsistencyWindowDays,
		CacheSize:  ins.CacheSize,
		CacheTTL:   time.Duration(ins.CacheTTLSec) * time.Second,
	}
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	var dbErr error
	if c.DB != nil {
		dbErr = c.DB.Close()
	}
	if c.LogCloser != nil {
		_ = c.LogCloser.Close()
	}
	return dbErr
}
