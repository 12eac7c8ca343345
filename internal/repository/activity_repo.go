package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yuqie6/LearnPulse/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository 活动仓储
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建仓储
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// AddCount 累加某天的活动数；当天无记录时创建。类型与描述以最后一次为准。
func (r *ActivityRepository) AddCount(ctx context.Context, a *schema.Activity) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":       gorm.Expr("activities.count + excluded.count"),
			"type":        gorm.Expr("excluded.type"),
			"description": gorm.Expr("excluded.description"),
			"updated_at":  gorm.Expr("excluded.updated_at"),
		}),
	}).Create(a).Error
	if err != nil {
		return fmt.Errorf("记录活动失败: %w", err)
	}
	return nil
}

// Upsert 覆盖写入某天的活动
func (r *ActivityRepository) Upsert(ctx context.Context, a *schema.Activity) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"count", "type", "description", "updated_at"}),
	}).Create(a).Error
	if err != nil {
		return fmt.Errorf("写入活动失败: %w", err)
	}
	return nil
}

// GetByDate 查询某天的记录
func (r *ActivityRepository) GetByDate(ctx context.Context, userID, date string) (*schema.Activity, error) {
	var a schema.Activity
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询活动失败: %w", err)
	}
	return &a, nil
}

// ListByUser 获取用户全部活动（按日期升序）
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]schema.Activity, error) {
	var out []schema.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("查询活动失败: %w", err)
	}
	return out, nil
}

// ListByDateRange 获取日期闭区间内的活动（按日期升序）
func (r *ActivityRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]schema.Activity, error) {
	var out []schema.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("查询日期范围活动失败: %w", err)
	}
	return out, nil
}

// ListTrailing 获取以 end 为最后一天、共 days 天内的活动（按日期升序）
func (r *ActivityRepository) ListTrailing(ctx context.Context, userID string, end time.Time, days int) ([]schema.Activity, error) {
	startDate, endDate, err := TrailingDateRange(end, days)
	if err != nil {
		return nil, err
	}
	return r.ListByDateRange(ctx, userID, startDate, endDate)
}

// HasAny 用户是否已有活动
func (r *ActivityRepository) HasAny(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&schema.Activity{}).Where("user_id = ?", userID).Limit(1).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("查询活动失败: %w", err)
	}
	return n > 0, nil
}
