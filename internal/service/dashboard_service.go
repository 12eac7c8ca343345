package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/schema"
)

const (
	defaultWindowDays = 30
	metricsDays       = 365
)

// DashboardOptions 可热更新的引擎参数
type DashboardOptions struct {
	Engine     analytics.EngineConfig
	WindowDays int // 一致性窗口，<=0 使用 30
	CacheSize  int // <=0 不缓存
	CacheTTL   time.Duration
}

// engineState 一次配置对应的引擎与缓存，整体原子替换
type engineState struct {
	engine     *analytics.Engine
	windowDays int
	cache      *dashboardCache
}

func newEngineState(opts DashboardOptions) *engineState {
	window := opts.WindowDays
	if window <= 0 {
		window = defaultWindowDays
	}
	return &engineState{
		engine:     analytics.NewEngine(opts.Engine),
		windowDays: window,
		cache:      newDashboardCache(opts.CacheSize, opts.CacheTTL),
	}
}

// DashboardService 仪表盘服务：读取数据 -> 引擎汇总 -> 持久化洞察 -> 推送事件
type DashboardService struct {
	activities ActivityRepository
	skills     SkillRepository
	insights   InsightRepository
	events     EventPublisher
	clock      Clock

	state atomic.Pointer[engineState]
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(activities ActivityRepository, skills SkillRepository, insights InsightRepository, events EventPublisher, clock Clock, opts DashboardOptions) *DashboardService {
	s := &DashboardService{
		activities: activities,
		skills:     skills,
		insights:   insights,
		events:     publisherOrNop(events),
		clock:      clock,
	}
	s.state.Store(newEngineState(opts))
	return s
}

// UpdateOptions 原子替换阈值与窗口（同时丢弃旧缓存），进行中的请求继续使用旧值
func (s *DashboardService) UpdateOptions(opts DashboardOptions) {
	st := newEngineState(opts)
	if prev := s.state.Swap(st); prev != nil {
		prev.cache.purge()
	}
	slog.Info("洞察参数已更新", "window_days", st.windowDays, "thresholds", st.engine.Thresholds())
	s.events.Publish(eventbus.Event{
		Type: eventbus.TypeConfigReloaded,
		Data: map[string]any{"window_days": st.windowDays},
	})
}

// WindowDays 当前默认一致性窗口
func (s *DashboardService) WindowDays() int {
	return s.state.Load().windowDays
}

// Thresholds 当前洞察阈值
func (s *DashboardService) Thresholds() analytics.Thresholds {
	return s.state.Load().engine.Thresholds()
}

// Invalidate 丢弃该用户的缓存汇总
func (s *DashboardService) Invalidate(userID string) {
	s.state.Load().cache.invalidateUser(userID)
}

// GetDashboard 计算用户仪表盘；windowDays 为 0 时使用配置值。返回值只读（可能来自缓存）。
func (s *DashboardService) GetDashboard(ctx context.Context, userID string, windowDays int) (*analytics.Dashboard, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id 不能为空", analytics.ErrInvalidArgument)
	}
	st := s.state.Load()
	if windowDays == 0 {
		windowDays = st.windowDays
	}

	now := s.clock.now()
	key := cacheKey(userID, windowDays, now)
	if d, ok := st.cache.get(key, now); ok {
		return d, nil
	}
	gen := st.cache.generation(userID)

	log, skills, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	d, err := st.engine.Summarize(log, skills, now, windowDays, now)
	if err != nil {
		return nil, err
	}
	st.cache.put(key, userID, gen, d, now)
	return d, nil
}

// RefreshInsights 重新生成洞察并替换该用户的未读洞察
func (s *DashboardService) RefreshInsights(ctx context.Context, userID string) ([]analytics.Insight, error) {
	dash, err := s.GetDashboard(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	rows := make([]schema.Insight, 0, len(dash.Insights))
	for _, in := range dash.Insights {
		rows = append(rows, schema.Insight{
			ID:          in.ID,
			UserID:      userID,
			Rule:        in.Rule,
			Title:       in.Title,
			Description: in.Description,
			Type:        string(in.Category),
			Icon:        in.Icon,
			Timestamp:   in.GeneratedAt.UnixMilli(),
		})
	}
	if err := s.insights.ReplaceUnread(ctx, userID, rows); err != nil {
		return nil, err
	}

	slog.Debug("洞察已刷新", "user_id", userID, "count", len(rows))
	s.events.Publish(eventbus.Event{
		Type: eventbus.TypeInsightsRefreshed,
		Data: map[string]any{"user_id": userID, "count": len(rows)},
	})
	return dash.Insights, nil
}

// ListInsights 已持久化的洞察；unreadOnly 时忽略 limit
func (s *DashboardService) ListInsights(ctx context.Context, userID string, unreadOnly bool, limit int) ([]schema.Insight, error) {
	if unreadOnly {
		return s.insights.ListUnread(ctx, userID)
	}
	return s.insights.ListRecent(ctx, userID, limit)
}

// MarkInsightRead 标记洞察已读
func (s *DashboardService) MarkInsightRead(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id 不能为空", analytics.ErrInvalidArgument)
	}
	ok, err := s.insights.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: 洞察 %s", ErrNotFound, id)
	}
	return nil
}

// Achievements 根据当前汇总评估徽章
func (s *DashboardService) Achievements(ctx context.Context, userID string) ([]analytics.Achievement, error) {
	dash, err := s.GetDashboard(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return analytics.EvaluateAchievements(dash.Summary, s.clock.now()), nil
}

// ConsistencyMetrics 周/月/年一致性，只读取最近一年的活动
func (s *DashboardService) ConsistencyMetrics(ctx context.Context, userID string) (analytics.ConsistencyMetrics, error) {
	now := s.clock.now()
	rows, err := s.activities.ListTrailing(ctx, userID, now, metricsDays)
	if err != nil {
		return analytics.ConsistencyMetrics{}, err
	}
	log, err := toActivityLog(userID, rows)
	if err != nil {
		return analytics.ConsistencyMetrics{}, err
	}
	return analytics.ComputeConsistencyMetrics(log, now), nil
}

func (s *DashboardService) load(ctx context.Context, userID string) (*analytics.ActivityLog, []analytics.SkillLevel, error) {
	rows, err := s.activities.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	log, err := toActivityLog(userID, rows)
	if err != nil {
		return nil, nil, err
	}
	skillRows, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return log, toSkillLevels(skillRows), nil
}
