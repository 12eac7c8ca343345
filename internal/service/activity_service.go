package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/schema"
)

const (
	defaultActivityType = "learning"
	defaultSeriesDays   = 30
	maxSeriesDays       = 366
)

// LogActivityRequest 记录一次学习活动
type LogActivityRequest struct {
	UserID      string
	Type        string
	Description string
	Count       int    // 0 视为 1
	Date        string // YYYY-MM-DD，空则为今天
}

// ActivityService 活动服务
type ActivityService struct {
	repo      ActivityRepository
	events    EventPublisher
	clock     Clock
	onChanged func(userID string)
}

// NewActivityService 创建活动服务
func NewActivityService(repo ActivityRepository, events EventPublisher, clock Clock) *ActivityService {
	return &ActivityService{
		repo:   repo,
		events: publisherOrNop(events),
		clock:  clock,
	}
}

// SetOnChanged 活动写入成功后回调（用于让仪表盘缓存失效）
func (s *ActivityService) SetOnChanged(fn func(userID string)) {
	s.onChanged = fn
}

// LogActivity 累加当天活动数，返回累加后的记录
func (s *ActivityService) LogActivity(ctx context.Context, req LogActivityRequest) (*schema.Activity, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id 不能为空", analytics.ErrInvalidArgument)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("%w: count 不能为负: %d", analytics.ErrInvalidArgument, req.Count)
	}
	count := req.Count
	if count == 0 {
		count = 1
	}

	day := analytics.Day(s.clock.now())
	if strings.TrimSpace(req.Date) != "" {
		d, err := analytics.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		day = d
	}
	activityType := strings.TrimSpace(req.Type)
	if activityType == "" {
		activityType = defaultActivityType
	}

	date := analytics.DateKey(day)
	if err := s.repo.AddCount(ctx, &schema.Activity{
		UserID:      userID,
		Date:        date,
		Count:       count,
		Type:        activityType,
		Description: req.Description,
	}); err != nil {
		return nil, err
	}

	saved, err := s.repo.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: 活动写入后未找到 %s/%s", analytics.ErrDataIntegrity, userID, date)
	}

	if s.onChanged != nil {
		s.onChanged(userID)
	}
	slog.Debug("记录活动", "user_id", userID, "date", date, "added", count, "total", saved.Count)
	s.events.Publish(eventbus.Event{
		Type: eventbus.TypeActivityLogged,
		Data: map[string]any{"user_id": userID, "date": date, "count": saved.Count},
	})
	return saved, nil
}

// LoadLog 读取用户全部活动并构造活动日志
func (s *ActivityService) LoadLog(ctx context.Context, userID string) (*analytics.ActivityLog, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toActivityLog(userID, rows)
}

// Series 返回 [start, end] 逐日活动数；都为空时取最近 30 天
func (s *ActivityService) Series(ctx context.Context, userID, start, end string) ([]analytics.DayCount, error) {
	from, to, err := s.seriesRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByDateRange(ctx, userID, analytics.DateKey(from), analytics.DateKey(to))
	if err != nil {
		return nil, err
	}
	log, err := toActivityLog(userID, rows)
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(log, from, to)
}

func (s *ActivityService) seriesRange(start, end string) (time.Time, time.Time, error) {
	to := analytics.Day(s.clock.now())
	if strings.TrimSpace(end) != "" {
		d, err := analytics.ParseDate(end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}
	from := to.AddDate(0, 0, -(defaultSeriesDays - 1))
	if strings.TrimSpace(start) != "" {
		d, err := analytics.ParseDate(start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end 早于 start", analytics.ErrInvalidArgument)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxSeriesDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 区间最多 %d 天，实际 %d", analytics.ErrInvalidArgument, maxSeriesDays, days)
	}
	return from, to, nil
}

// toActivityLog 行数据 -> 活动日志；日期非法或重复视为数据完整性错误
func toActivityLog(userID string, rows []schema.Activity) (*analytics.ActivityLog, error) {
	records := make([]analytics.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		d, err := analytics.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: 活动 %d 日期非法: %q", analytics.ErrDataIntegrity, row.ID, row.Date)
		}
		records = append(records, analytics.ActivityRecord{
			Date:        d,
			Count:       row.Count,
			Type:        row.Type,
			Description: row.Description,
		})
	}
	log, err := analytics.NewActivityLog(userID, records)
	if err != nil {
		return nil, fmt.Errorf("构造活动日志失败: %w", err)
	}
	return log, nil
}
