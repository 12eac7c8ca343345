package service

import (
	"context"
	"errors"
	"time"

	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/schema"
)

// ErrNotFound 目标记录不存在
var ErrNotFound = errors.New("记录不存在")

// 仓储/外部依赖的最小接口集合（ISP）

type ActivityRepository interface {
	AddCount(ctx context.Context, a *schema.Activity) error
	Upsert(ctx context.Context, a *schema.Activity) error
	GetByDate(ctx context.Context, userID, date string) (*schema.Activity, error)
	ListByUser(ctx context.Context, userID string) ([]schema.Activity, error)
	ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]schema.Activity, error)
	ListTrailing(ctx context.Context, userID string, end time.Time, days int) ([]schema.Activity, error)
	HasAny(ctx context.Context, userID string) (bool, error)
}

type SkillRepository interface {
	Upsert(ctx context.Context, skill *schema.UserSkill) error
	UpsertBatch(ctx context.Context, skills []*schema.UserSkill) error
	ListByUser(ctx context.Context, userID string) ([]schema.UserSkill, error)
}

type InsightRepository interface {
	ReplaceUnread(ctx context.Context, userID string, insights []schema.Insight) error
	ListRecent(ctx context.Context, userID string, limit int) ([]schema.Insight, error)
	ListUnread(ctx context.Context, userID string) ([]schema.Insight, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
}

// EventPublisher 事件推送（eventbus.Hub 实现）
type EventPublisher interface {
	Publish(evt eventbus.Event)
}

// Clock 当前时间来源，测试中注入固定时间
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

type nopPublisher struct{}

func (nopPublisher) Publish(eventbus.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
